package database

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// PostgresStore persists the roster in Postgres. Duty charts and drafts are
// stored as JSONB payloads keyed by date; faculty and history rows are
// structured columns. The free-text encoding of fid/unavailable lives only
// here, at the persistence boundary.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func joinDays(days []models.DayOfWeek) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func splitDays(raw string) []models.DayOfWeek {
	var days []models.DayOfWeek
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			days = append(days, models.DayOfWeek(tok))
		}
	}
	return days
}

func splitDates(raw string) []string {
	var dates []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			dates = append(dates, tok)
		}
	}
	return dates
}

const facultyColumns = `id, name, short_name, department, designation, gender,
	faculty_shift, fid, unavailable, duty_count, created_at, updated_at`

func scanFaculty(scan func(dest ...interface{}) error) (*models.Faculty, error) {
	f := &models.Faculty{}
	var fid, unavailable string
	err := scan(&f.ID, &f.Name, &f.ShortName, &f.Department, &f.Designation,
		&f.Gender, (*string)(&f.FacultyShift), &fid, &unavailable,
		&f.DutyCount, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.FID = splitDays(fid)
	f.Unavailable = splitDates(unavailable)
	return f, nil
}

func (s *PostgresStore) ListFaculty() ([]*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE deleted_at IS NULL ORDER BY name`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Faculty
	for rows.Next() {
		f, err := scanFaculty(rows.Scan)
		if err != nil {
			continue
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (s *PostgresStore) GetFaculty(id string) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1 AND deleted_at IS NULL`
	return scanFaculty(s.db.QueryRow(query, id).Scan)
}

func (s *PostgresStore) GetFacultyByName(name string) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL`
	return scanFaculty(s.db.QueryRow(query, name).Scan)
}

func (s *PostgresStore) SaveFaculty(f *models.Faculty) error {
	query := `INSERT INTO faculty (id, name, short_name, department, designation, gender,
				faculty_shift, fid, unavailable, duty_count, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, short_name = EXCLUDED.short_name,
				department = EXCLUDED.department, designation = EXCLUDED.designation,
				gender = EXCLUDED.gender, faculty_shift = EXCLUDED.faculty_shift,
				fid = EXCLUDED.fid, unavailable = EXCLUDED.unavailable,
				duty_count = EXCLUDED.duty_count, updated_at = NOW(), deleted_at = NULL`
	_, err := s.db.Exec(query, f.ID, f.Name, f.ShortName, f.Department, f.Designation,
		f.Gender, string(f.FacultyShift), joinDays(f.FID), strings.Join(f.Unavailable, ","), f.DutyCount)
	return err
}

func (s *PostgresStore) ReplaceAllFaculty(list []models.Faculty) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM faculty`); err != nil {
		return err
	}
	insert := `INSERT INTO faculty (id, name, short_name, department, designation, gender,
				faculty_shift, fid, unavailable, duty_count, created_at, updated_at)
			   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`
	for i := range list {
		f := &list[i]
		if _, err := tx.Exec(insert, f.ID, f.Name, f.ShortName, f.Department, f.Designation,
			f.Gender, string(f.FacultyShift), joinDays(f.FID), strings.Join(f.Unavailable, ","), f.DutyCount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) SetDutyCounts(counts map[string]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE faculty SET duty_count = 0`); err != nil {
		return err
	}
	for id, n := range counts {
		if _, err := tx.Exec(`UPDATE faculty SET duty_count = $1 WHERE id = $2`, n, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanAssignment(scan func(dest ...interface{}) error) (*models.Assignment, error) {
	var payload []byte
	var updatedAt time.Time
	if err := scan(&payload, &updatedAt); err != nil {
		return nil, err
	}
	a := &models.Assignment{}
	if err := json.Unmarshal(payload, a); err != nil {
		return nil, err
	}
	a.UpdatedAt = updatedAt
	return a, nil
}

func (s *PostgresStore) ListAssignments() ([]models.Assignment, error) {
	rows, err := s.db.Query(`SELECT payload, updated_at FROM duty_charts ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			continue
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (s *PostgresStore) GetAssignment(date string) (*models.Assignment, error) {
	return scanAssignment(s.db.QueryRow(
		`SELECT payload, updated_at FROM duty_charts WHERE date = $1`, date).Scan)
}

func (s *PostgresStore) SaveAssignment(a *models.Assignment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO duty_charts (date, payload, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (date) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		a.Date, payload)
	return err
}

func (s *PostgresStore) DeleteAssignment(date string) error {
	_, err := s.db.Exec(`DELETE FROM duty_charts WHERE date = $1`, date)
	return err
}

func (s *PostgresStore) ReplaceAllAssignments(list []models.Assignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM duty_charts`); err != nil {
		return err
	}
	for i := range list {
		payload, err := json.Marshal(&list[i])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO duty_charts (date, payload, updated_at) VALUES ($1, $2, NOW())`,
			list[i].Date, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) GetDraft(date string) (*models.Assignment, error) {
	return scanAssignment(s.db.QueryRow(
		`SELECT payload, updated_at FROM duty_drafts WHERE date = $1`, date).Scan)
}

func (s *PostgresStore) SaveDraft(a *models.Assignment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO duty_drafts (date, payload, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (date) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		a.Date, payload)
	return err
}

func (s *PostgresStore) DeleteDraft(date string) error {
	_, err := s.db.Exec(`DELETE FROM duty_drafts WHERE date = $1`, date)
	return err
}

func (s *PostgresStore) ListHistory() ([]models.DutyHistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, faculty_id, date, shift, role, room_no FROM duty_history ORDER BY date, shift, role, room_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.DutyHistoryEntry
	for rows.Next() {
		var e models.DutyHistoryEntry
		if err := rows.Scan(&e.ID, &e.FacultyID, &e.Date, &e.Shift, &e.Role, &e.RoomNo); err != nil {
			continue
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ReplaceHistoryForDate(date string, entries []models.DutyHistoryEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM duty_history WHERE date = $1`, date); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO duty_history (id, faculty_id, date, shift, role, room_no) VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.FacultyID, e.Date, e.Shift, e.Role, e.RoomNo); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) DeleteHistoryForDate(date string) error {
	_, err := s.db.Exec(`DELETE FROM duty_history WHERE date = $1`, date)
	return err
}

func (s *PostgresStore) ReplaceAllHistory(entries []models.DutyHistoryEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM duty_history`); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO duty_history (id, faculty_id, date, shift, role, room_no) VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.FacultyID, e.Date, e.Shift, e.Role, e.RoomNo); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) GetSectionStamp(section models.BackupSection) (string, error) {
	var stamp string
	err := s.db.QueryRow(`SELECT updated_at FROM section_meta WHERE section = $1`, string(section)).Scan(&stamp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return stamp, err
}

func (s *PostgresStore) SetSectionStamp(section models.BackupSection, stamp string) error {
	_, err := s.db.Exec(`INSERT INTO section_meta (section, updated_at) VALUES ($1, $2)
			ON CONFLICT (section) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		string(section), stamp)
	return err
}

func (s *PostgresStore) GetBlob(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM backup_blobs WHERE key = $1`, key).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *PostgresStore) PutBlob(key string, data []byte) error {
	_, err := s.db.Exec(`INSERT INTO backup_blobs (key, data, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, data)
	return err
}
