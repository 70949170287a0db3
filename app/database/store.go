package database

import (
	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// Store is the persistence boundary for the three backed-up sections
// (duties, history, faculty) plus drafts, section timestamps and the blob
// space backing the remote backup endpoint. Missing rows are reported as
// sql.ErrNoRows by every implementation.
type Store interface {
	// Faculty
	ListFaculty() ([]*models.Faculty, error)
	GetFaculty(id string) (*models.Faculty, error)
	GetFacultyByName(name string) (*models.Faculty, error)
	SaveFaculty(f *models.Faculty) error
	ReplaceAllFaculty(list []models.Faculty) error
	SetDutyCounts(counts map[string]int) error

	// Committed duty charts, one per date
	ListAssignments() ([]models.Assignment, error)
	GetAssignment(date string) (*models.Assignment, error)
	SaveAssignment(a *models.Assignment) error
	DeleteAssignment(date string) error
	ReplaceAllAssignments(list []models.Assignment) error

	// Drafts (uncommitted charts, one per date)
	GetDraft(date string) (*models.Assignment, error)
	SaveDraft(a *models.Assignment) error
	DeleteDraft(date string) error

	// Duty history
	ListHistory() ([]models.DutyHistoryEntry, error)
	ReplaceHistoryForDate(date string, entries []models.DutyHistoryEntry) error
	DeleteHistoryForDate(date string) error
	ReplaceAllHistory(entries []models.DutyHistoryEntry) error

	// Per-section last-write stamps used by the backup merge
	GetSectionStamp(section models.BackupSection) (string, error)
	SetSectionStamp(section models.BackupSection, stamp string) error

	// Opaque blobs backing the remote backup endpoint
	GetBlob(key string) ([]byte, error)
	PutBlob(key string, data []byte) error
}
