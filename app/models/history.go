package models

// DutyHistoryEntry is an immutable fact recording one duty served. The
// full set of entries for a date is regenerated whenever that date's
// assignment is saved or reset; entries are never edited in place.
type DutyHistoryEntry struct {
	ID        string      `json:"id"`
	FacultyID string      `json:"faculty_id"`
	Date      string      `json:"date"`
	Shift     ShiftNumber `json:"shift"`
	Role      DutyRole    `json:"role"`
	RoomNo    string      `json:"room_no,omitempty"`
}
