package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.DayOfWeek
	}{
		{"full names", "Monday,Friday", []models.DayOfWeek{models.Monday, models.Friday}},
		{"abbreviations", "mon, tues, thurs", []models.DayOfWeek{models.Monday, models.Tuesday, models.Thursday}},
		{"mixed case and spaces", " SAT ,sunday", []models.DayOfWeek{models.Saturday, models.Sunday}},
		{"dotted abbreviation", "wed.", []models.DayOfWeek{models.Wednesday}},
		{"duplicates collapse", "mon,Monday,MON", []models.DayOfWeek{models.Monday}},
		{"invalid tokens dropped", "mon,someday,,fri", []models.DayOfWeek{models.Monday, models.Friday}},
		{"all invalid", "holiday,none", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWeekdays(tt.raw))
		})
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid list", "2025-01-06, 2025-02-10", []string{"2025-01-06", "2025-02-10"}},
		{"invalid dropped", "2025-01-06,notadate,2025-13-40", []string{"2025-01-06"}},
		{"duplicates collapse", "2025-01-06,2025-01-06", []string{"2025-01-06"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDates(tt.raw))
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2025-01-06 is a Monday.
	assert.Equal(t, models.Monday, WeekdayOf("2025-01-06"))
	assert.Equal(t, models.Tuesday, WeekdayOf("2025-01-07"))
	assert.Equal(t, models.Sunday, WeekdayOf("2025-01-05"))
	assert.Equal(t, models.DayOfWeek(""), WeekdayOf("garbage"))
}

func TestParseDutyDate_PinnedAtNoon(t *testing.T) {
	d, err := ParseDutyDate("2025-03-30")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Hour())
	assert.Equal(t, "2025-03-30", d.Format("2006-01-02"))
}

func TestIsAvailable(t *testing.T) {
	f := &models.Faculty{
		ID:          "F1",
		Name:        "A. Sharma",
		FID:         []models.DayOfWeek{models.Monday},
		Unavailable: []string{"2025-01-10"},
	}

	// FID weekday exclusion: every Monday is out.
	assert.False(t, IsAvailable(f, "2025-01-06"))
	assert.False(t, IsAvailable(f, "2025-01-13"))
	// Tuesday is fine.
	assert.True(t, IsAvailable(f, "2025-01-07"))
	// Explicit date exclusion wins regardless of weekday (a Friday).
	assert.False(t, IsAvailable(f, "2025-01-10"))

	clean := &models.Faculty{ID: "F2", Name: "B. Rao"}
	assert.True(t, IsAvailable(clean, "2025-01-06"))
}

func TestAvailableFaculty(t *testing.T) {
	all := []*models.Faculty{
		{ID: "F1", Name: "Mon Off", FID: []models.DayOfWeek{models.Monday}},
		{ID: "F2", Name: "Always"},
		{ID: "F3", Name: "Out That Day", Unavailable: []string{"2025-01-06"}},
	}

	got := AvailableFaculty("2025-01-06", all) // Monday
	require.Len(t, got, 1)
	assert.Equal(t, "F2", got[0].ID)

	got = AvailableFaculty("2025-01-07", all) // Tuesday
	assert.Len(t, got, 3)
}

func TestShiftMismatch(t *testing.T) {
	morning := &models.Faculty{FacultyShift: models.MorningShift}
	day := &models.Faculty{FacultyShift: models.DayShift}
	untagged := &models.Faculty{}

	assert.True(t, ShiftMismatch(morning, models.Shift2))
	assert.False(t, ShiftMismatch(morning, models.Shift1))
	assert.True(t, ShiftMismatch(day, models.Shift1))
	assert.False(t, ShiftMismatch(day, models.Shift2))
	assert.False(t, ShiftMismatch(untagged, models.Shift1))
	assert.False(t, ShiftMismatch(untagged, models.Shift2))
}
