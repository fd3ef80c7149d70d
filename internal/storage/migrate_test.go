// ABOUTME: Tests for data migration between activity backends
// ABOUTME: Covers copying activities and originals plus directory checks

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/trackedit/internal/models"
)

func mustNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMigrateData(t *testing.T) {
	src := testDB(t)
	dst := testDB(t)

	a := sampleActivity("one", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	b := sampleActivity("two", time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC))
	mustNoError(t, src.SaveActivity(a))
	mustNoError(t, src.SaveActivity(b))
	mustNoError(t, src.SaveOriginal(&Original{ActivityID: a.ID, Format: models.FormatTCX, Data: []byte("<x/>")}))

	summary, err := MigrateData(src, dst)
	mustNoError(t, err)

	if summary.Activities != 2 {
		t.Errorf("migrated %d activities, want 2", summary.Activities)
	}
	if summary.Originals != 1 {
		t.Errorf("migrated %d originals, want 1", summary.Originals)
	}

	for _, want := range []*models.Activity{a, b} {
		got, err := dst.GetActivity(want.ID)
		if err != nil {
			t.Errorf("activity %s not found in destination: %v", want.Name, err)
			continue
		}
		if got.PointCount() != want.PointCount() {
			t.Errorf("activity %s has %d points, want %d", want.Name, got.PointCount(), want.PointCount())
		}
	}
	if _, err := dst.GetOriginal(a.ID); err != nil {
		t.Errorf("original not migrated: %v", err)
	}
}

func TestMigrateData_Idempotent(t *testing.T) {
	src := testDB(t)
	dst := testDB(t)
	mustNoError(t, src.SaveActivity(sampleActivity("one", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))))

	_, err := MigrateData(src, dst)
	mustNoError(t, err)
	_, err = MigrateData(src, dst)
	mustNoError(t, err)

	all, err := dst.ListActivities()
	mustNoError(t, err)
	if len(all) != 1 {
		t.Errorf("got %d activities after two migrations, want 1", len(all))
	}
}

func TestMigrateData_EmptySource(t *testing.T) {
	summary, err := MigrateData(testDB(t), testDB(t))
	mustNoError(t, err)
	if summary.Activities != 0 || summary.Originals != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	got, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	mustNoError(t, err)
	if got {
		t.Error("missing directory reported non-empty")
	}

	got, err = IsDirNonEmpty(dir)
	mustNoError(t, err)
	if got {
		t.Error("empty directory reported non-empty")
	}

	mustNoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600))
	got, err = IsDirNonEmpty(dir)
	mustNoError(t, err)
	if !got {
		t.Error("populated directory reported empty")
	}
}
