package database

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// MemoryStore is an in-memory Store used by tests and by local-only mode
// when no database is configured. Values are deep-copied on the way in and
// out so callers can never alias internal state.
type MemoryStore struct {
	mu          sync.Mutex
	faculty     map[string]*models.Faculty
	assignments map[string]*models.Assignment
	drafts      map[string]*models.Assignment
	history     []models.DutyHistoryEntry
	stamps      map[models.BackupSection]string
	blobs       map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		faculty:     map[string]*models.Faculty{},
		assignments: map[string]*models.Assignment{},
		drafts:      map[string]*models.Assignment{},
		stamps:      map[models.BackupSection]string{},
		blobs:       map[string][]byte{},
	}
}

func clone[T any](v T) T {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out
	}
	json.Unmarshal(b, &out)
	return out
}

func (m *MemoryStore) ListFaculty() ([]*models.Faculty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Faculty, 0, len(m.faculty))
	for _, f := range m.faculty {
		c := clone(*f)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetFaculty(id string) (*models.Faculty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.faculty[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := clone(*f)
	return &c, nil
}

func (m *MemoryStore) GetFacultyByName(name string) (*models.Faculty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.faculty {
		if strings.EqualFold(f.Name, name) {
			c := clone(*f)
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemoryStore) SaveFaculty(f *models.Faculty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := clone(*f)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	m.faculty[c.ID] = &c
	return nil
}

func (m *MemoryStore) ReplaceAllFaculty(list []models.Faculty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faculty = map[string]*models.Faculty{}
	for i := range list {
		c := clone(list[i])
		m.faculty[c.ID] = &c
	}
	return nil
}

func (m *MemoryStore) SetDutyCounts(counts map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.faculty {
		f.DutyCount = counts[f.ID]
	}
	return nil
}

func (m *MemoryStore) ListAssignments() ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		out = append(out, clone(*a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryStore) GetAssignment(date string) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[date]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := clone(*a)
	return &c, nil
}

func (m *MemoryStore) SaveAssignment(a *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := clone(*a)
	c.UpdatedAt = time.Now()
	m.assignments[c.Date] = &c
	return nil
}

func (m *MemoryStore) DeleteAssignment(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, date)
	return nil
}

func (m *MemoryStore) ReplaceAllAssignments(list []models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = map[string]*models.Assignment{}
	for i := range list {
		c := clone(list[i])
		m.assignments[c.Date] = &c
	}
	return nil
}

func (m *MemoryStore) GetDraft(date string) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[date]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := clone(*d)
	return &c, nil
}

func (m *MemoryStore) SaveDraft(a *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := clone(*a)
	c.UpdatedAt = time.Now()
	m.drafts[c.Date] = &c
	return nil
}

func (m *MemoryStore) DeleteDraft(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, date)
	return nil
}

func (m *MemoryStore) ListHistory() ([]models.DutyHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.history), nil
}

func (m *MemoryStore) ReplaceHistoryForDate(date string, entries []models.DutyHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.history[:0:0]
	for _, e := range m.history {
		if e.Date != date {
			kept = append(kept, e)
		}
	}
	m.history = append(kept, clone(entries)...)
	return nil
}

func (m *MemoryStore) DeleteHistoryForDate(date string) error {
	return m.ReplaceHistoryForDate(date, nil)
}

func (m *MemoryStore) ReplaceAllHistory(entries []models.DutyHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = clone(entries)
	return nil
}

func (m *MemoryStore) GetSectionStamp(section models.BackupSection) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stamps[section], nil
}

func (m *MemoryStore) SetSectionStamp(section models.BackupSection, stamp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamps[section] = stamp
	return nil
}

func (m *MemoryStore) GetBlob(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryStore) PutBlob(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	m.blobs[key] = b
	return nil
}
