package models

import "time"

// Faculty represents a staff member eligible for invigilation duty.
type Faculty struct {
	ID           string       `json:"id" validate:"required"`
	Name         string       `json:"name" validate:"required"`
	ShortName    string       `json:"short_name,omitempty"`
	Department   string       `json:"department" validate:"required"`
	Designation  string       `json:"designation" validate:"required"`
	Gender       string       `json:"gender,omitempty"`
	FacultyShift FacultyShift `json:"faculty_shift,omitempty"`
	// FID holds the recurring weekly days on which this person is
	// institutionally unavailable for duty.
	FID []DayOfWeek `json:"fid,omitempty"`
	// Unavailable holds explicit ISO dates (YYYY-MM-DD) of unavailability.
	Unavailable []string `json:"unavailable,omitempty"`
	// DutyCount is derived from the duty history and is never authored
	// directly.
	DutyCount int        `json:"duty_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// HasFID reports whether day is one of the faculty's weekly exclusion days.
func (f *Faculty) HasFID(day DayOfWeek) bool {
	for _, d := range f.FID {
		if d == day {
			return true
		}
	}
	return false
}

// IsUnavailableOn reports whether the ISO date is an explicit exclusion.
func (f *Faculty) IsUnavailableOn(isoDate string) bool {
	for _, d := range f.Unavailable {
		if d == isoDate {
			return true
		}
	}
	return false
}
