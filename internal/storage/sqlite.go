// ABOUTME: SQLite storage implementation for activity documents
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/harper/trackedit/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Repository with a local SQLite database.
// Each activity is stored as one JSON document plus a few indexed columns.
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteDB implements Repository.
var _ Repository = (*SQLiteDB)(nil)

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "trackedit", "trackedit.db")
}

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist, then applies
// any pending schema migrations.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path}

	if err := s.MigrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Path returns the database file location.
func (s *SQLiteDB) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Sync is a no-op for local SQLite (no cloud sync).
func (s *SQLiteDB) Sync() error {
	return nil
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset() error {
	_, err := s.db.Exec("DELETE FROM originals; DELETE FROM activities;")
	return err
}

// SaveActivity inserts the activity or replaces the stored document.
func (s *SQLiteDB) SaveActivity(a *models.Activity) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO activities (id, name, sport, source_format, activity_date, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   sport = excluded.sport,
		   source_format = excluded.source_format,
		   activity_date = excluded.activity_date,
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		a.ID.String(), a.Name, a.Sport, a.SourceFormat, a.Date.UTC(), string(doc),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by its UUID.
func (s *SQLiteDB) GetActivity(id uuid.UUID) (*models.Activity, error) {
	var doc string
	err := s.db.QueryRow("SELECT document FROM activities WHERE id = ?", id.String()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return decodeActivity([]byte(doc))
}

// ListActivities returns all activities, most recent first.
func (s *SQLiteDB) ListActivities() ([]*models.Activity, error) {
	rows, err := s.db.Query("SELECT document FROM activities ORDER BY activity_date DESC, name")
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	activities := []*models.Activity{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a, err := decodeActivity([]byte(doc))
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// DeleteActivity removes an activity and its archived original.
func (s *SQLiteDB) DeleteActivity(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM activities WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM originals WHERE activity_id = ?", id.String()); err != nil {
		return fmt.Errorf("delete original: %w", err)
	}
	return tx.Commit()
}

// SaveOriginal archives an uploaded file, replacing any previous upload.
func (s *SQLiteDB) SaveOriginal(o *Original) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO originals (activity_id, format, filename, data, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(activity_id) DO UPDATE SET
		   format = excluded.format,
		   filename = excluded.filename,
		   data = excluded.data,
		   created_at = excluded.created_at`,
		o.ActivityID.String(), o.Format, o.Filename, o.Data, o.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save original: %w", err)
	}
	return nil
}

// GetOriginal retrieves the archived upload for an activity.
func (s *SQLiteDB) GetOriginal(activityID uuid.UUID) (*Original, error) {
	o := Original{ActivityID: activityID}
	err := s.db.QueryRow(
		"SELECT format, filename, data, created_at FROM originals WHERE activity_id = ?",
		activityID.String(),
	).Scan(&o.Format, &o.Filename, &o.Data, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get original: %w", err)
	}
	return &o, nil
}

func decodeActivity(doc []byte) (*models.Activity, error) {
	var a models.Activity
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &a, nil
}
