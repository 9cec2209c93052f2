// Package history provides SQLite-backed storage of past validation runs.
// The database lives in the user data directory
// (~/.local/share/abcd-validator/history.db).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/itaxotools/abcd-validator/pkg/models"
)

// Store wraps an SQLite database holding run records.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultPath returns the path to the run-history database.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "abcd-validator", "history.db")
}

// Open opens the database at the given path, creating parent directories and
// applying pending migrations. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

// migrate applies all pending schema migrations.
func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	specimen_file TEXT NOT NULL,
	measurement_file TEXT NOT NULL,
	multimedia_file TEXT NOT NULL,
	multimedia_folder TEXT NOT NULL,
	warnings INTEGER NOT NULL DEFAULT 0,
	errors INTEGER NOT NULL DEFAULT 0,
	success INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// RecordRun inserts one completed run.
func (s *Store) RecordRun(rec *models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, started_at, finished_at, specimen_file, measurement_file,
			multimedia_file, multimedia_folder, warnings, errors, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
		rec.SpecimenFile, rec.MeasurementFile, rec.MultimediaFile, rec.MultimediaFolder,
		rec.Warnings, rec.Errors, boolToInt(rec.Success))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(limit int) ([]*models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, started_at, finished_at, specimen_file, measurement_file,
			multimedia_file, multimedia_folder, warnings, errors, success
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []*models.RunRecord
	for rows.Next() {
		var rec models.RunRecord
		var started, finished string
		var success int
		if err := rows.Scan(&rec.ID, &started, &finished, &rec.SpecimenFile,
			&rec.MeasurementFile, &rec.MultimediaFile, &rec.MultimediaFolder,
			&rec.Warnings, &rec.Errors, &success); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt, _ = parseTime(started)
		rec.FinishedAt, _ = parseTime(finished)
		rec.Success = success != 0
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Prune deletes runs older than the given duration. Returns the number of
// runs deleted.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := formatTime(time.Now().Add(-olderThan))
	result, err := s.conn.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return count, nil
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
