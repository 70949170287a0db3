package services

import (
	"fmt"
	"log"
	"math"

	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// FairnessThreshold is the minimum history size below which the fairness
// score is reported as unreliable.
const FairnessThreshold = 20

// HistoryEngine derives the duty history from committed assignments and
// keeps every faculty member's duty count consistent with it.
type HistoryEngine struct {
	store database.Store
}

func NewHistoryEngine(store database.Store) *HistoryEngine {
	return &HistoryEngine{store: store}
}

// entryID builds a deterministic id so that deriving the same assignment
// twice yields byte-identical history entries.
func entryID(facultyID, date string, shift models.ShiftNumber, role models.DutyRole, roomNo string) string {
	if role == models.RoleSupervisor {
		return fmt.Sprintf("%s-s%d-sup-%s", date, shift, facultyID)
	}
	return fmt.Sprintf("%s-s%d-inv-%s-%s", date, shift, roomNo, facultyID)
}

// DeriveHistory computes the full set of history entries implied by one
// assignment: one per supervisor of each active shift, one per filled slot.
// Names that do not resolve to a faculty id are skipped.
func DeriveHistory(a *models.Assignment, resolve func(name string) (string, bool)) []models.DutyHistoryEntry {
	var entries []models.DutyHistoryEntry
	for _, ref := range a.ActiveShifts() {
		if ref.Shift.Supervisor != "" {
			if id, ok := resolve(ref.Shift.Supervisor); ok {
				entries = append(entries, models.DutyHistoryEntry{
					ID:        entryID(id, a.Date, ref.Number, models.RoleSupervisor, ""),
					FacultyID: id,
					Date:      a.Date,
					Shift:     ref.Number,
					Role:      models.RoleSupervisor,
				})
			} else {
				log.Printf("History derivation: unknown supervisor %q on %s", ref.Shift.Supervisor, a.Date)
			}
		}
		for _, room := range ref.Shift.Rooms {
			for _, slot := range room.Slots {
				if slot.FacultyName == "" {
					continue
				}
				id, ok := resolve(slot.FacultyName)
				if !ok {
					log.Printf("History derivation: unknown invigilator %q on %s", slot.FacultyName, a.Date)
					continue
				}
				entries = append(entries, models.DutyHistoryEntry{
					ID:        entryID(id, a.Date, ref.Number, models.RoleInvigilator, room.RoomNo),
					FacultyID: id,
					Date:      a.Date,
					Shift:     ref.Number,
					Role:      models.RoleInvigilator,
					RoomNo:    room.RoomNo,
				})
			}
		}
	}
	return entries
}

// resolver builds a case-insensitive name-to-id lookup over the directory.
func (e *HistoryEngine) resolver() (func(string) (string, bool), error) {
	all, err := e.store.ListFaculty()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(all))
	for _, f := range all {
		byName[normalizeName(f.Name)] = f.ID
	}
	return func(name string) (string, bool) {
		id, ok := byName[normalizeName(name)]
		return id, ok
	}, nil
}

// Commit replaces the whole history of the assignment's date with the
// entries derived from it, then recounts every faculty member's duties.
func (e *HistoryEngine) Commit(a *models.Assignment) error {
	resolve, err := e.resolver()
	if err != nil {
		return err
	}
	entries := DeriveHistory(a, resolve)
	if err := e.store.ReplaceHistoryForDate(a.Date, entries); err != nil {
		return err
	}
	return e.RecountDuties()
}

// ResetForDate removes all history for a date and recounts.
func (e *HistoryEngine) ResetForDate(date string) error {
	if err := e.store.DeleteHistoryForDate(date); err != nil {
		return err
	}
	return e.RecountDuties()
}

// ResetAll clears the history and zeroes every duty count.
func (e *HistoryEngine) ResetAll() error {
	if err := e.store.ReplaceAllHistory(nil); err != nil {
		return err
	}
	return e.RecountDuties()
}

// RebuildAll rederives the entire history from every committed assignment.
// Used after a merge or import where duties is authoritative over whatever
// history payload came along.
func (e *HistoryEngine) RebuildAll() error {
	assignments, err := e.store.ListAssignments()
	if err != nil {
		return err
	}
	resolve, err := e.resolver()
	if err != nil {
		return err
	}
	var entries []models.DutyHistoryEntry
	for i := range assignments {
		entries = append(entries, DeriveHistory(&assignments[i], resolve)...)
	}
	if err := e.store.ReplaceAllHistory(entries); err != nil {
		return err
	}
	return e.RecountDuties()
}

// RecountDuties recomputes every faculty member's duty count as the number
// of history entries referencing them.
func (e *HistoryEngine) RecountDuties() error {
	entries, err := e.store.ListHistory()
	if err != nil {
		return err
	}
	counts := map[string]int{}
	for _, entry := range entries {
		counts[entry.FacultyID]++
	}
	return e.store.SetDutyCounts(counts)
}

// FairnessReport is the distribution summary for the dashboard.
type FairnessReport struct {
	Score        int     `json:"score"`
	Reliable     bool    `json:"reliable"`
	TotalEntries int     `json:"total_entries"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
}

// Fairness scores how evenly duties are spread across the given per-faculty
// counts using the coefficient of variation: 100/(1+cv), clamped to
// [0,100]. The score is flagged unreliable until the history holds at least
// FairnessThreshold entries.
func Fairness(counts []int, totalEntries int) FairnessReport {
	report := FairnessReport{TotalEntries: totalEntries, Reliable: totalEntries >= FairnessThreshold}
	if len(counts) == 0 {
		report.Score = 100
		return report
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / float64(len(counts))

	var variance float64
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(counts))
	stddev := math.Sqrt(variance)

	cv := 0.0
	if mean > 0 {
		cv = stddev / mean
	}
	score := int(math.Round(100 / (1 + cv)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	report.Score = score
	report.Mean = mean
	report.StdDev = stddev
	return report
}

// FairnessReport computes the report over the live store state.
func (e *HistoryEngine) FairnessReport() (FairnessReport, error) {
	all, err := e.store.ListFaculty()
	if err != nil {
		return FairnessReport{}, err
	}
	entries, err := e.store.ListHistory()
	if err != nil {
		return FairnessReport{}, err
	}
	counts := make([]int, 0, len(all))
	for _, f := range all {
		counts = append(counts, f.DutyCount)
	}
	return Fairness(counts, len(entries)), nil
}

// WeekdayLoad buckets the history by the weekday of each entry's date.
func (e *HistoryEngine) WeekdayLoad() (map[models.DayOfWeek]int, error) {
	entries, err := e.store.ListHistory()
	if err != nil {
		return nil, err
	}
	load := make(map[models.DayOfWeek]int, 7)
	for _, d := range models.AllDays {
		load[d] = 0
	}
	for _, entry := range entries {
		if day := WeekdayOf(entry.Date); day != "" {
			load[day]++
		}
	}
	return load, nil
}
