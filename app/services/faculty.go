package services

import (
	"fmt"
	"strings"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateFacultyImport checks an import payload before any write: every
// record needs id, name, department and designation, and neither ids nor
// names (case-insensitive) may repeat. The whole file is rejected on the
// first problem, so an import is all-or-nothing.
func ValidateFacultyImport(list []models.Faculty) error {
	seenIDs := map[string]bool{}
	seenNames := map[string]bool{}
	for i := range list {
		f := &list[i]
		if f.ID == "" || strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("record %d: id and name are required", i+1)
		}
		if f.Department == "" || f.Designation == "" {
			return fmt.Errorf("record %d (%s): department and designation are required", i+1, f.Name)
		}
		if seenIDs[f.ID] {
			return fmt.Errorf("duplicate faculty id %q", f.ID)
		}
		seenIDs[f.ID] = true
		name := normalizeName(f.Name)
		if seenNames[name] {
			return fmt.Errorf("duplicate faculty name %q", f.Name)
		}
		seenNames[name] = true
	}
	return nil
}
