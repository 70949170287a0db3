package services

import (
	"github.com/google/uuid"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// Default room layout for a fresh chart: two rooms in the forenoon shift,
// one in the afternoon.
const (
	defaultShift1Rooms = 2
	defaultShift2Rooms = 1
	defaultShift1Time  = "10:00 AM - 1:00 PM"
	defaultShift2Time  = "2:00 PM - 5:00 PM"
)

// NewAssignment builds an empty duty chart for a date with the default
// room layout.
func NewAssignment(date string) *models.Assignment {
	return &models.Assignment{
		Date:      date,
		ShiftMode: models.ShiftModeBoth,
		Shift1:    newShift(defaultShift1Time, defaultShift1Rooms),
		Shift2:    newShift(defaultShift2Time, defaultShift2Rooms),
	}
}

func newShift(timeRange string, roomCount int) *models.Shift {
	s := &models.Shift{Time: timeRange}
	for i := 0; i < roomCount; i++ {
		s.Rooms = append(s.Rooms, newRoom("", 0, 2))
	}
	return s
}

func newRoom(roomNo string, studentCount, required int) models.Room {
	r := models.Room{
		ID:                   uuid.NewString(),
		RoomNo:               roomNo,
		StudentCount:         studentCount,
		RequiredInvigilators: required,
	}
	for i := 0; i < required; i++ {
		r.Slots = append(r.Slots, models.InvigilatorSlot{ID: uuid.NewString(), Order: i})
	}
	return r
}

// SetSupervisor places name as the supervisor of the given shift. Any slot
// the name already holds in the same shift is cleared first; with
// cross-shift exclusivity on, the name is also evicted from the other
// shift. Setting an empty name always succeeds and cascades nothing.
func SetSupervisor(a *models.Assignment, shift models.ShiftNumber, name string) {
	s := a.Shift(shift)
	if s == nil {
		return
	}
	if name != "" {
		evictFromShift(s, name)
		if !a.AllowRepeat {
			if other := a.Shift(otherShift(shift)); other != nil {
				evictFromShift(other, name)
			}
		}
	}
	s.Supervisor = name
}

// AssignSlot places name into the identified slot, overwriting whatever was
// there. The name is first evicted from every other position it holds in
// the same shift (and, with exclusivity on, from the other shift), so a
// drag from one slot to another behaves as a move.
func AssignSlot(a *models.Assignment, shift models.ShiftNumber, roomID, slotID, name string) {
	s := a.Shift(shift)
	if s == nil {
		return
	}
	room := s.FindRoom(roomID)
	if room == nil {
		return
	}
	slot := room.FindSlot(slotID)
	if slot == nil {
		return
	}
	if name != "" {
		evictFromShift(s, name)
		if !a.AllowRepeat {
			if other := a.Shift(otherShift(shift)); other != nil {
				evictFromShift(other, name)
			}
		}
	}
	slot.FacultyName = name
}

// ClearSlot empties the identified slot. No cascading effect.
func ClearSlot(a *models.Assignment, shift models.ShiftNumber, roomID, slotID string) {
	s := a.Shift(shift)
	if s == nil {
		return
	}
	room := s.FindRoom(roomID)
	if room == nil {
		return
	}
	if slot := room.FindSlot(slotID); slot != nil {
		slot.FacultyName = ""
	}
}

// ResizeRoom regenerates the room's slot list to newCount positions.
// Surviving indices keep their slot identity and occupant; indices beyond
// the old length get fresh empty slots; trailing slots are dropped.
func ResizeRoom(a *models.Assignment, shift models.ShiftNumber, roomID string, newCount int) {
	s := a.Shift(shift)
	if s == nil || newCount < 0 {
		return
	}
	room := s.FindRoom(roomID)
	if room == nil {
		return
	}
	slots := make([]models.InvigilatorSlot, 0, newCount)
	for i := 0; i < newCount; i++ {
		if i < len(room.Slots) {
			slots = append(slots, room.Slots[i])
		} else {
			slots = append(slots, models.InvigilatorSlot{ID: uuid.NewString(), Order: i})
		}
	}
	room.Slots = slots
	room.RequiredInvigilators = newCount
}

// AddRoom appends a room with the requested invigilator count to a shift.
func AddRoom(a *models.Assignment, shift models.ShiftNumber, roomNo string, studentCount, required int) {
	s := a.Shift(shift)
	if s == nil || required < 0 {
		return
	}
	s.Rooms = append(s.Rooms, newRoom(roomNo, studentCount, required))
}

// RemoveRoom deletes the identified room from a shift.
func RemoveRoom(a *models.Assignment, shift models.ShiftNumber, roomID string) {
	s := a.Shift(shift)
	if s == nil {
		return
	}
	for i := range s.Rooms {
		if s.Rooms[i].ID == roomID {
			s.Rooms = append(s.Rooms[:i], s.Rooms[i+1:]...)
			return
		}
	}
}

// SetAllowRepeat toggles the repeat-duty policy. Turning repeats off
// enables cross-shift exclusivity and immediately sweeps the chart:
// duplicates are evicted with shift 1 taking precedence over shift 2, and
// within a shift the supervisor first, then rooms and slots in order. The
// first occurrence keeps its assignment.
func SetAllowRepeat(a *models.Assignment, allow bool) {
	a.AllowRepeat = allow
	if allow {
		return
	}
	seen := map[string]bool{}
	for _, ref := range []models.ShiftNumber{models.Shift1, models.Shift2} {
		s := a.Shift(ref)
		if s == nil {
			continue
		}
		if s.Supervisor != "" {
			if seen[s.Supervisor] {
				s.Supervisor = ""
			} else {
				seen[s.Supervisor] = true
			}
		}
		for ri := range s.Rooms {
			for si := range s.Rooms[ri].Slots {
				name := s.Rooms[ri].Slots[si].FacultyName
				if name == "" {
					continue
				}
				if seen[name] {
					s.Rooms[ri].Slots[si].FacultyName = ""
				} else {
					seen[name] = true
				}
			}
		}
	}
}

// CanGenerate reports whether the chart is complete enough to print: every
// active shift has a supervisor and no empty invigilator slot.
func CanGenerate(a *models.Assignment) bool {
	refs := a.ActiveShifts()
	if len(refs) == 0 {
		return false
	}
	for _, ref := range refs {
		if ref.Shift.Supervisor == "" {
			return false
		}
		for _, room := range ref.Shift.Rooms {
			for _, slot := range room.Slots {
				if slot.FacultyName == "" {
					return false
				}
			}
		}
	}
	return true
}

func otherShift(n models.ShiftNumber) models.ShiftNumber {
	if n == models.Shift1 {
		return models.Shift2
	}
	return models.Shift1
}

// evictFromShift clears every position name currently holds in the shift.
func evictFromShift(s *models.Shift, name string) {
	if s.Supervisor == name {
		s.Supervisor = ""
	}
	for ri := range s.Rooms {
		for si := range s.Rooms[ri].Slots {
			if s.Rooms[ri].Slots[si].FacultyName == name {
				s.Rooms[ri].Slots[si].FacultyName = ""
			}
		}
	}
}
