package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

func TestMemoryStore_FacultyLifecycle(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetFaculty("missing")
	assert.Equal(t, sql.ErrNoRows, err)

	f := &models.Faculty{ID: "F1", Name: "A. Sharma", Department: "CS", Designation: "Prof."}
	require.NoError(t, store.SaveFaculty(f))

	got, err := store.GetFaculty("F1")
	require.NoError(t, err)
	assert.Equal(t, "A. Sharma", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	// Lookup by name is case-insensitive.
	got, err = store.GetFacultyByName("a. sharma")
	require.NoError(t, err)
	assert.Equal(t, "F1", got.ID)

	// Mutating a returned copy must not leak into the store.
	got.Name = "Tampered"
	again, err := store.GetFaculty("F1")
	require.NoError(t, err)
	assert.Equal(t, "A. Sharma", again.Name)

	require.NoError(t, store.ReplaceAllFaculty([]models.Faculty{
		{ID: "F9", Name: "Replacement", Department: "EE", Designation: "Prof."},
	}))
	list, err := store.ListFaculty()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "F9", list[0].ID)
}

func TestMemoryStore_SetDutyCounts(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveFaculty(&models.Faculty{ID: "F1", Name: "One", DutyCount: 7}))
	require.NoError(t, store.SaveFaculty(&models.Faculty{ID: "F2", Name: "Two", DutyCount: 7}))

	require.NoError(t, store.SetDutyCounts(map[string]int{"F1": 3}))

	f1, _ := store.GetFaculty("F1")
	f2, _ := store.GetFaculty("F2")
	assert.Equal(t, 3, f1.DutyCount)
	// Absent ids reset to zero rather than keeping a stale count.
	assert.Equal(t, 0, f2.DutyCount)
}

func TestMemoryStore_AssignmentsAndDrafts(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetAssignment("2025-01-06")
	assert.Equal(t, sql.ErrNoRows, err)

	a := &models.Assignment{Date: "2025-01-06", ShiftMode: models.ShiftModeBoth}
	require.NoError(t, store.SaveAssignment(a))

	got, err := store.GetAssignment("2025-01-06")
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.IsZero())

	// Drafts live in their own space.
	_, err = store.GetDraft("2025-01-06")
	assert.Equal(t, sql.ErrNoRows, err)
	require.NoError(t, store.SaveDraft(a))
	_, err = store.GetDraft("2025-01-06")
	require.NoError(t, err)
	require.NoError(t, store.DeleteDraft("2025-01-06"))
	_, err = store.GetDraft("2025-01-06")
	assert.Equal(t, sql.ErrNoRows, err)

	require.NoError(t, store.SaveAssignment(&models.Assignment{Date: "2025-01-05"}))
	list, err := store.ListAssignments()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-01-05", list[0].Date) // sorted by date

	require.NoError(t, store.DeleteAssignment("2025-01-05"))
	list, _ = store.ListAssignments()
	assert.Len(t, list, 1)
}

func TestMemoryStore_HistoryByDate(t *testing.T) {
	store := NewMemoryStore()
	entries := []models.DutyHistoryEntry{
		{ID: "a", FacultyID: "F1", Date: "2025-01-06", Shift: models.Shift1, Role: models.RoleSupervisor},
		{ID: "b", FacultyID: "F2", Date: "2025-01-06", Shift: models.Shift1, Role: models.RoleInvigilator},
	}
	require.NoError(t, store.ReplaceHistoryForDate("2025-01-06", entries))
	require.NoError(t, store.ReplaceHistoryForDate("2025-01-07", []models.DutyHistoryEntry{
		{ID: "c", FacultyID: "F1", Date: "2025-01-07", Shift: models.Shift2, Role: models.RoleSupervisor},
	}))

	all, err := store.ListHistory()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Replacing one date leaves the other intact.
	require.NoError(t, store.ReplaceHistoryForDate("2025-01-06", nil))
	all, _ = store.ListHistory()
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].ID)

	require.NoError(t, store.DeleteHistoryForDate("2025-01-07"))
	all, _ = store.ListHistory()
	assert.Empty(t, all)
}

func TestMemoryStore_StampsAndBlobs(t *testing.T) {
	store := NewMemoryStore()

	stamp, err := store.GetSectionStamp(models.SectionDuties)
	require.NoError(t, err)
	assert.Equal(t, "", stamp)

	require.NoError(t, store.SetSectionStamp(models.SectionDuties, "2025-01-01T00:00:00Z"))
	stamp, _ = store.GetSectionStamp(models.SectionDuties)
	assert.Equal(t, "2025-01-01T00:00:00Z", stamp)

	_, err = store.GetBlob("backup/duties")
	assert.Equal(t, sql.ErrNoRows, err)

	require.NoError(t, store.PutBlob("backup/duties", []byte(`[]`)))
	data, err := store.GetBlob("backup/duties")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}
