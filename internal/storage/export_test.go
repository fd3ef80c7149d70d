// ABOUTME: Tests for backup and restore functionality
// ABOUTME: Covers the YAML backup format and round trips between databases

package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harper/trackedit/internal/models"
)

func TestExportToYAML(t *testing.T) {
	db := testDB(t)

	a := sampleActivity("harbour loop", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := db.SaveOriginal(&Original{ActivityID: a.ID, Format: models.FormatTCX, Data: []byte("<TrainingCenterDatabase/>")}); err != nil {
		t.Fatalf("failed to save original: %v", err)
	}

	data, err := ExportToYAML(db)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	yamlStr := string(data)

	if !strings.Contains(yamlStr, "version: \"1.0\"") {
		t.Error("missing version header")
	}
	if !strings.Contains(yamlStr, "tool: trackedit") {
		t.Error("missing tool header")
	}
	if !strings.Contains(yamlStr, "exported_at:") {
		t.Error("missing exported_at header")
	}
	if !strings.Contains(yamlStr, "name: harbour loop") {
		t.Error("missing activity name")
	}
	if !strings.Contains(yamlStr, "heart_rate: 120") {
		t.Error("missing track point data")
	}
	if !strings.Contains(yamlStr, "originals:") {
		t.Error("missing originals")
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := testDB(t)

	a := sampleActivity("harbour loop", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	b := sampleActivity("hill repeats", time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC))
	for _, act := range []*models.Activity{a, b} {
		if err := src.SaveActivity(act); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}
	raw := []byte("<gpx>\x00binary-safe</gpx>")
	if err := src.SaveOriginal(&Original{ActivityID: b.ID, Format: models.FormatGPX, Filename: "hills.gpx", Data: raw}); err != nil {
		t.Fatalf("failed to save original: %v", err)
	}

	data, err := ExportToYAML(src)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	dst := testDB(t)
	summary, err := ImportFromYAML(dst, data)
	if err != nil {
		t.Fatalf("failed to import: %v", err)
	}
	if summary.Activities != 2 || summary.Originals != 1 {
		t.Errorf("summary = %+v, want 2 activities and 1 original", summary)
	}

	for _, want := range []*models.Activity{a, b} {
		got, err := dst.GetActivity(want.ID)
		if err != nil {
			t.Fatalf("restored activity %s missing: %v", want.Name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("restored %s differs (-want +got):\n%s", want.Name, diff)
		}
	}

	orig, err := dst.GetOriginal(b.ID)
	if err != nil {
		t.Fatalf("restored original missing: %v", err)
	}
	if string(orig.Data) != string(raw) || orig.Filename != "hills.gpx" {
		t.Errorf("restored original = %+v", orig)
	}
}

func TestImportFromYAML_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad version", "version: \"9.9\"\ntool: trackedit\n", "unsupported backup version"},
		{"wrong tool", "version: \"1.0\"\ntool: position\n", "wrong tool"},
		{"not yaml", "version: [unclosed", "parse yaml"},
		{"missing id", "version: \"1.0\"\ntool: trackedit\nactivities:\n  - name: x\n", "without id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			_, err := ImportFromYAML(db, []byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got error %v, want containing %q", err, tt.want)
			}
		})
	}
}
