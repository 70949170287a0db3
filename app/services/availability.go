package services

import (
	"strings"
	"time"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// weekdayAliases maps free-text tokens to canonical weekdays. Import files
// coming from spreadsheets carry every variation of these.
var weekdayAliases = map[string]models.DayOfWeek{
	"sunday": models.Sunday, "sun": models.Sunday,
	"monday": models.Monday, "mon": models.Monday,
	"tuesday": models.Tuesday, "tue": models.Tuesday, "tues": models.Tuesday,
	"wednesday": models.Wednesday, "wed": models.Wednesday, "weds": models.Wednesday,
	"thursday": models.Thursday, "thu": models.Thursday, "thur": models.Thursday, "thurs": models.Thursday,
	"friday": models.Friday, "fri": models.Friday,
	"saturday": models.Saturday, "sat": models.Saturday,
}

// ParseWeekdays converts a comma-separated free-text list of weekday names
// into a deduplicated set of canonical weekdays. Unrecognized tokens are
// dropped, not rejected.
func ParseWeekdays(raw string) []models.DayOfWeek {
	var days []models.DayOfWeek
	seen := map[models.DayOfWeek]bool{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		tok = strings.TrimSuffix(tok, ".")
		if tok == "" {
			continue
		}
		day, ok := weekdayAliases[tok]
		if !ok {
			continue
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}

// ParseDates converts a comma-separated free-text list of ISO dates into a
// deduplicated list of valid YYYY-MM-DD strings. Invalid tokens are dropped.
func ParseDates(raw string) []string {
	var dates []string
	seen := map[string]bool{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", tok, time.Local)
		if err != nil {
			continue
		}
		iso := t.Format("2006-01-02")
		if !seen[iso] {
			seen[iso] = true
			dates = append(dates, iso)
		}
	}
	return dates
}

// ParseDutyDate resolves a YYYY-MM-DD string to a local time pinned at
// noon, so the weekday and the literal date cannot drift across a day
// boundary from DST or the host's UTC offset.
func ParseDutyDate(isoDate string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", isoDate, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local), nil
}

// WeekdayOf returns the canonical weekday for an ISO date, "" if the date
// does not parse.
func WeekdayOf(isoDate string) models.DayOfWeek {
	t, err := ParseDutyDate(isoDate)
	if err != nil {
		return ""
	}
	return models.AllDays[int(t.Weekday())]
}

// IsAvailable reports whether a faculty member may be assigned duty on the
// given ISO date: false when the date is an explicit exclusion or when its
// weekday is one of the faculty's recurring FID days.
func IsAvailable(f *models.Faculty, isoDate string) bool {
	if f.IsUnavailableOn(isoDate) {
		return false
	}
	if day := WeekdayOf(isoDate); day != "" && f.HasFID(day) {
		return false
	}
	return true
}

// AvailableFaculty filters the directory down to members assignable on the
// given ISO date.
func AvailableFaculty(isoDate string, all []*models.Faculty) []*models.Faculty {
	var out []*models.Faculty
	for _, f := range all {
		if IsAvailable(f, isoDate) {
			out = append(out, f)
		}
	}
	return out
}

// ShiftMismatch reports whether placing the faculty member in the given
// shift contradicts their working-hours tag. Advisory only: a mismatch
// never blocks assignment.
func ShiftMismatch(f *models.Faculty, shift models.ShiftNumber) bool {
	switch f.FacultyShift {
	case models.MorningShift:
		return shift == models.Shift2
	case models.DayShift:
		return shift == models.Shift1
	}
	return false
}
