// ABOUTME: Integration tests for full workflow
// ABOUTME: Builds the binary and drives import, edit, export, and delete end-to-end

package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const workflowGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="Forerunner 255" xmlns="http://www.topografix.com/GPX/1/1">
  <metadata><name>Harbour loop</name></metadata>
  <trk>
    <type>running</type>
    <trkseg>
      <trkpt lat="43.36029" lon="-5.84476"><ele>230</ele><time>2024-05-01T10:00:00Z</time></trkpt>
      <trkpt lat="43.36129" lon="-5.84476"><ele>231</ele><time>2024-05-01T10:00:10Z</time></trkpt>
      <trkpt lat="43.36229" lon="-5.84476"><ele>232</ele><time>2024-05-01T10:00:20Z</time></trkpt>
      <trkpt lat="43.36329" lon="-5.84476"><ele>233</ele><time>2024-05-01T10:00:30Z</time></trkpt>
      <trkpt lat="43.36429" lon="-5.84476"><ele>234</ele><time>2024-05-01T10:00:40Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

var shortIDPattern = regexp.MustCompile(`as ([0-9a-f]{8})`)

func TestFullWorkflow(t *testing.T) {
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	binary := filepath.Join(t.TempDir(), "trackedit")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/trackedit")
	buildCmd.Dir = projectRoot
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build: %v\nOutput: %s", err, buildOutput)
	}

	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"TRACKEDIT_BACKEND=sqlite",
		"TRACKEDIT_DATA_DIR="+filepath.Join(tmpDir, "data", "trackedit"),
		"TRACKEDIT_ELEVATION_URL=",
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	gpxPath := filepath.Join(tmpDir, "harbour.gpx")
	if err := os.WriteFile(gpxPath, []byte(workflowGPX), 0600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	// Import
	output, err := run("import", gpxPath)
	if err != nil {
		t.Fatalf("Failed to import: %v\n%s", err, output)
	}
	match := shortIDPattern.FindStringSubmatch(output)
	if match == nil {
		t.Fatalf("Expected short id in import output:\n%s", output)
	}
	id := match[1]

	// List should show the activity
	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Harbour loop") {
		t.Error("Expected activity in list")
	}

	// Split at the third point
	output, err = run("split", id, "--lat", "43.36229", "--lng", "-5.84476", "--time", "1714557620000")
	if err != nil {
		t.Fatalf("Failed to split: %v\n%s", err, output)
	}

	output, err = run("show", id)
	if err != nil {
		t.Fatalf("Failed to show: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Lap 1") {
		t.Errorf("Expected two laps after split:\n%s", output)
	}

	// Remove the fourth point, leaving two points in each lap
	output, err = run("remove-point", id, "--lat", "43.36329", "--lng", "-5.84476", "--time", "1714557630000")
	if err != nil {
		t.Fatalf("Failed to remove point: %v\n%s", err, output)
	}

	// Export GeoJSON
	output, err = run("export", id, "--format", "geojson")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal([]byte(output), &fc); err != nil {
		t.Fatalf("Export is not JSON: %v\n%s", err, output)
	}
	if len(fc.Features) != 2 {
		t.Errorf("Expected one feature per lap, got %d", len(fc.Features))
	}

	// Delete
	output, err = run("delete", id, "--confirm")
	if err != nil {
		t.Fatalf("Failed to delete: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Deleted") {
		t.Error("Expected deletion confirmation")
	}

	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if strings.Contains(output, "Harbour loop") {
		t.Error("Activity should be removed")
	}

	t.Log("Integration test passed!")
}
