package models

// BackupSnapshot is the wire format exchanged with the remote backup
// endpoint and used for export/import. Any subset of the three sections
// may be present; Meta maps section name to its ISO-8601 updated_at stamp.
type BackupSnapshot struct {
	Duties  []Assignment       `json:"duties,omitempty"`
	History []DutyHistoryEntry `json:"history,omitempty"`
	Faculty []Faculty          `json:"faculty,omitempty"`
	Meta    map[string]string  `json:"_meta,omitempty"`
}

// HasSection reports whether the named section is present in the snapshot.
func (b *BackupSnapshot) HasSection(s BackupSection) bool {
	switch s {
	case SectionDuties:
		return b.Duties != nil
	case SectionHistory:
		return b.History != nil
	case SectionFaculty:
		return b.Faculty != nil
	}
	return false
}

// Stamp returns the recorded updated_at for a section, "" if absent.
func (b *BackupSnapshot) Stamp(s BackupSection) string {
	if b.Meta == nil {
		return ""
	}
	return b.Meta[string(s)]
}
