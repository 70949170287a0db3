package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the roster schema if it does not exist yet.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS faculty (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			short_name VARCHAR(64) NOT NULL DEFAULT '',
			department VARCHAR(255) NOT NULL DEFAULT '',
			designation VARCHAR(255) NOT NULL DEFAULT '',
			gender VARCHAR(16) NOT NULL DEFAULT '',
			faculty_shift VARCHAR(16) NOT NULL DEFAULT '',
			fid TEXT NOT NULL DEFAULT '',
			unavailable TEXT NOT NULL DEFAULT '',
			duty_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_faculty_name ON faculty (LOWER(name)) WHERE deleted_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS duty_charts (
			date VARCHAR(10) PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS duty_drafts (
			date VARCHAR(10) PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS duty_history (
			id VARCHAR(128) PRIMARY KEY,
			faculty_id VARCHAR(64) NOT NULL,
			date VARCHAR(10) NOT NULL,
			shift SMALLINT NOT NULL,
			role VARCHAR(16) NOT NULL,
			room_no VARCHAR(64) NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_duty_history_date ON duty_history (date)`,
		`CREATE INDEX IF NOT EXISTS idx_duty_history_faculty ON duty_history (faculty_id)`,
		`CREATE TABLE IF NOT EXISTS section_meta (
			section VARCHAR(16) PRIMARY KEY,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS backup_blobs (
			key VARCHAR(128) PRIMARY KEY,
			data BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
