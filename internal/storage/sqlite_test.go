// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Covers all repository interface methods with real database

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/harper/trackedit/internal/models"
)

// testDB creates a temporary database for testing.
func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// sampleActivity builds a small two-lap activity recorded on the given day.
func sampleActivity(name string, date time.Time) *models.Activity {
	a := models.NewActivity(name, "running", models.FormatTCX)
	a.Date = date
	a.Device = "Forerunner"
	for li := 0; li < 2; li++ {
		lap := models.Lap{
			Index:     li,
			StartTime: date.Add(time.Duration(li) * time.Minute),
			Calories:  models.Int(40),
			Intensity: "Active",
		}
		for k := 0; k < 3; k++ {
			idx := li*3 + k
			lap.Tracks = append(lap.Tracks, models.TrackPoint{
				Index:     idx,
				Time:      date.Add(time.Duration(idx) * 10 * time.Second),
				Position:  &models.Position{Latitude: 43 + float64(idx)*0.001, Longitude: -5.8},
				Distance:  models.Float(float64(idx) * 111.2),
				HeartRate: models.Int(120 + idx),
			})
		}
		a.Laps = append(a.Laps, lap)
	}
	return a
}

func TestNewSQLiteDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %s, want %s", db.Path(), dbPath)
	}
}

func TestNewSQLiteDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested", "path")
	dbPath := filepath.Join(nestedDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
		t.Error("nested directory was not created")
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	version, dirty, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("SchemaVersion() = %d, dirty=%v; want 2, false", version, dirty)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	a := sampleActivity("first", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	_ = db.Close()

	db, err = NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer db.Close()

	if _, err := db.GetActivity(a.ID); err != nil {
		t.Errorf("activity lost after reopen: %v", err)
	}
}

func TestSaveAndGetActivity(t *testing.T) {
	db := testDB(t)

	a := sampleActivity("morning run", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save activity: %v", err)
	}

	got, err := db.GetActivity(a.ID)
	if err != nil {
		t.Fatalf("failed to get activity: %v", err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("stored activity differs (-want +got):\n%s", diff)
	}
}

func TestSaveActivity_ReplacesDocument(t *testing.T) {
	db := testDB(t)

	a := sampleActivity("run", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save activity: %v", err)
	}

	a.Name = "renamed"
	a.Laps = a.Laps[:1]
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to resave activity: %v", err)
	}

	got, err := db.GetActivity(a.ID)
	if err != nil {
		t.Fatalf("failed to get activity: %v", err)
	}
	if got.Name != "renamed" || len(got.Laps) != 1 {
		t.Errorf("got name=%q laps=%d, want renamed with 1 lap", got.Name, len(got.Laps))
	}

	all, err := db.ListActivities()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d activities, want 1", len(all))
	}
}

func TestGetActivity_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetActivity(uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestListActivities_NewestFirst(t *testing.T) {
	db := testDB(t)

	older := sampleActivity("older", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	newer := sampleActivity("newer", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	for _, a := range []*models.Activity{older, newer} {
		if err := db.SaveActivity(a); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	got, err := db.ListActivities()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d activities, want 2", len(got))
	}
	if got[0].Name != "newer" || got[1].Name != "older" {
		t.Errorf("got order %s, %s; want newer, older", got[0].Name, got[1].Name)
	}
}

func TestListActivities_Empty(t *testing.T) {
	db := testDB(t)

	got, err := db.ListActivities()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestDeleteActivity(t *testing.T) {
	db := testDB(t)

	a := sampleActivity("run", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := db.SaveOriginal(&Original{ActivityID: a.ID, Format: models.FormatTCX, Data: []byte("<x/>")}); err != nil {
		t.Fatalf("failed to save original: %v", err)
	}

	if err := db.DeleteActivity(a.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := db.GetActivity(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("activity still present: %v", err)
	}
	if _, err := db.GetOriginal(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("original still present: %v", err)
	}

	if err := db.DeleteActivity(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete got %v, want ErrNotFound", err)
	}
}

func TestSaveAndGetOriginal(t *testing.T) {
	db := testDB(t)

	id := uuid.New()
	orig := &Original{ActivityID: id, Format: models.FormatGPX, Filename: "ride.gpx", Data: []byte("<gpx/>")}
	if err := db.SaveOriginal(orig); err != nil {
		t.Fatalf("failed to save original: %v", err)
	}
	if orig.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	got, err := db.GetOriginal(id)
	if err != nil {
		t.Fatalf("failed to get original: %v", err)
	}
	if string(got.Data) != "<gpx/>" || got.Format != models.FormatGPX || got.Filename != "ride.gpx" {
		t.Errorf("got %+v", got)
	}

	if _, err := db.GetOriginal(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	db := testDB(t)

	a := sampleActivity("run", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := db.Reset(); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}

	got, err := db.ListActivities()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d activities after reset, want 0", len(got))
	}
}

func TestSync_NoOp(t *testing.T) {
	db := testDB(t)
	if err := db.Sync(); err != nil {
		t.Errorf("Sync() = %v, want nil", err)
	}
}
