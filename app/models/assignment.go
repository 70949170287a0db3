package models

import "time"

// InvigilatorSlot is one invigilator position within a room for one shift.
type InvigilatorSlot struct {
	ID          string `json:"id"`
	FacultyName string `json:"faculty_name,omitempty"`
	Order       int    `json:"order"`
}

// Room is one examination room within a shift.
type Room struct {
	ID                   string            `json:"id"`
	RoomNo               string            `json:"room_no"`
	StudentCount         int               `json:"student_count"`
	RequiredInvigilators int               `json:"required_invigilators"`
	Slots                []InvigilatorSlot `json:"slots"`
}

// Shift is one examination session (forenoon or afternoon) of a date.
type Shift struct {
	Time       string `json:"time,omitempty"`
	Supervisor string `json:"supervisor,omitempty"`
	Rooms      []Room `json:"rooms"`
}

// Assignment is the duty chart for a single exam date. Exactly one
// committed Assignment exists per date; an uncommitted copy may exist as a
// draft.
type Assignment struct {
	Date       string    `json:"date" validate:"required"`
	Course     string    `json:"course,omitempty"`
	Semester   string    `json:"semester,omitempty"`
	Year       string    `json:"year,omitempty"`
	Curriculum string    `json:"curriculum,omitempty"`
	ShiftMode  ShiftMode `json:"shift_mode"`
	Shift1     *Shift    `json:"shift1,omitempty"`
	Shift2     *Shift    `json:"shift2,omitempty"`
	// AllowRepeat permits a person to take a role in both shifts of the
	// same date. When false, cross-shift exclusivity is enforced.
	AllowRepeat bool      `json:"allow_repeat"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ActiveShifts returns the shift numbers present under the assignment's
// shift mode, paired with their shift state. Missing shift structs are
// skipped.
func (a *Assignment) ActiveShifts() []ShiftRef {
	var refs []ShiftRef
	if a.ShiftMode != ShiftModeSecond && a.Shift1 != nil {
		refs = append(refs, ShiftRef{Number: Shift1, Shift: a.Shift1})
	}
	if a.ShiftMode != ShiftModeFirst && a.Shift2 != nil {
		refs = append(refs, ShiftRef{Number: Shift2, Shift: a.Shift2})
	}
	return refs
}

// Shift returns the shift struct for a shift number, nil if absent.
func (a *Assignment) Shift(n ShiftNumber) *Shift {
	if n == Shift1 {
		return a.Shift1
	}
	if n == Shift2 {
		return a.Shift2
	}
	return nil
}

// ShiftRef pairs a shift number with its state.
type ShiftRef struct {
	Number ShiftNumber
	Shift  *Shift
}

// FindRoom returns the room with the given id, nil if absent.
func (s *Shift) FindRoom(roomID string) *Room {
	for i := range s.Rooms {
		if s.Rooms[i].ID == roomID {
			return &s.Rooms[i]
		}
	}
	return nil
}

// FindSlot returns the slot with the given id, nil if absent.
func (r *Room) FindSlot(slotID string) *InvigilatorSlot {
	for i := range r.Slots {
		if r.Slots[i].ID == slotID {
			return &r.Slots[i]
		}
	}
	return nil
}
