// ABOUTME: Tests for the activity editing service
// ABOUTME: Runs imports and edits against a real SQLite store

package edit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/trackedit/internal/activities"
	"github.com/harper/trackedit/internal/codec"
	"github.com/harper/trackedit/internal/elevation"
	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/storage"
)

var start = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// sampleGPX builds a two-segment track without elevations, three points per
// segment, ten seconds apart.
func sampleGPX() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="Forerunner 255" xmlns="http://www.topografix.com/GPX/1/1"
  xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1">
  <metadata><name>Hill repeats</name></metadata>
  <trk><type>running</type>`)
	k := 0
	for seg := 0; seg < 2; seg++ {
		b.WriteString("<trkseg>")
		for p := 0; p < 3; p++ {
			fmt.Fprintf(&b, `<trkpt lat="%.3f" lon="-5.8"><time>%s</time><extensions><gpxtpx:TrackPointExtension><gpxtpx:hr>%d</gpxtpx:hr></gpxtpx:TrackPointExtension></extensions></trkpt>`,
				43+float64(k)*0.001, pointTime(k).Format(time.RFC3339), 120+k)
			k++
		}
		b.WriteString("</trkseg>")
	}
	b.WriteString("</trk></gpx>")
	return b.String()
}

func pointTime(k int) time.Time {
	return start.Add(time.Duration(k) * 10 * time.Second)
}

func pointParams(k int) PointParams {
	return PointParams{
		Latitude:   strconv.FormatFloat(43+float64(k)*0.001, 'f', 3, 64),
		Longitude:  "-5.8",
		TimeMillis: strconv.FormatInt(pointTime(k).UnixMilli(), 10),
	}
}

func elevationTable() *elevation.Static {
	table := map[string]string{}
	for k := 0; k < 6; k++ {
		table[elevation.Key(43+float64(k)*0.001, -5.8)] = strconv.Itoa(200 + k)
	}
	return &elevation.Static{Table: table}
}

func newTestService(t *testing.T, lookup elevation.Lookup) (*Service, *storage.SQLiteDB) {
	t.Helper()
	db, err := storage.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db, lookup, log.New(&strings.Builder{}))
	svc.now = func() time.Time { return start.Add(24 * time.Hour) }
	return svc, db
}

func importSample(t *testing.T, svc *Service) *models.Activity {
	t.Helper()
	a, err := svc.Import(context.Background(), "/tmp/uploads/hills.gpx", []byte(sampleGPX()))
	require.NoError(t, err)
	return a
}

func TestImport(t *testing.T) {
	lookup := elevationTable()
	svc, db := newTestService(t, lookup)

	a := importSample(t, svc)
	assert.Equal(t, "Hill repeats", a.Name)
	assert.Equal(t, models.FormatGPX, a.SourceFormat)
	require.Len(t, a.Laps, 2)
	assert.Equal(t, 2, lookup.Calls, "one batched lookup per lap")

	for _, lap := range a.Laps {
		require.NotNil(t, lap.Distance)
		require.NotNil(t, lap.TotalTime)
		assert.InDelta(t, 20, *lap.TotalTime, 1e-9)
		require.NotNil(t, lap.MaximumHeartRate)
		for _, p := range lap.Tracks {
			require.NotNil(t, p.Distance)
			require.NotNil(t, p.Speed)
			require.NotNil(t, p.Altitude)
		}
	}
	assert.InDelta(t, 205, *a.Laps[1].Tracks[2].Altitude, 1e-9)
	assert.Equal(t, 0.0, *a.Laps[0].Tracks[0].Speed)
	assert.Greater(t, *a.Laps[1].Tracks[0].Distance, *a.Laps[0].Tracks[2].Distance, "distance continues across laps")

	stored, err := db.GetActivity(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.PointCount(), stored.PointCount())

	orig, err := svc.Original(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "hills.gpx", orig.Filename)
	assert.Equal(t, models.FormatGPX, orig.Format)
	assert.Equal(t, sampleGPX(), string(orig.Data))
}

func TestImport_ElevationWithoutResults(t *testing.T) {
	lookup := &elevation.Static{Status: "ZERO_RESULTS"}
	svc, _ := newTestService(t, lookup)

	a := importSample(t, svc)
	for _, lap := range a.Laps {
		for _, p := range lap.Tracks {
			assert.Nil(t, p.Altitude)
		}
	}
}

type failingLookup struct{}

func (failingLookup) Elevations(context.Context, []models.Position) (elevation.Response, error) {
	return elevation.Response{}, errors.New("connection refused")
}

func TestImport_ElevationFailureIsNotFatal(t *testing.T) {
	svc, _ := newTestService(t, failingLookup{})

	a := importSample(t, svc)
	assert.Len(t, a.Laps, 2)
	assert.Nil(t, a.Laps[0].Tracks[0].Altitude)
}

func TestImport_UnknownFormat(t *testing.T) {
	svc, db := newTestService(t, nil)

	_, err := svc.Import(context.Background(), "notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)

	all, err := db.ListActivities()
	require.NoError(t, err)
	assert.Empty(t, all)
}

// faultyRepo fails selected writes of an otherwise working store.
type faultyRepo struct {
	storage.Repository
	saveActivityErr error
	saveOriginalErr error
	lastID          uuid.UUID
}

func (r *faultyRepo) SaveActivity(a *models.Activity) error {
	r.lastID = a.ID
	if r.saveActivityErr != nil {
		return r.saveActivityErr
	}
	return r.Repository.SaveActivity(a)
}

func (r *faultyRepo) SaveOriginal(o *storage.Original) error {
	if r.saveOriginalErr != nil {
		return r.saveOriginalErr
	}
	return r.Repository.SaveOriginal(o)
}

func TestImport_FailedSaveLeavesNothingBehind(t *testing.T) {
	diskFull := errors.New("disk full")

	tests := []struct {
		name string
		repo func(storage.Repository) *faultyRepo
	}{
		{"activity", func(r storage.Repository) *faultyRepo { return &faultyRepo{Repository: r, saveActivityErr: diskFull} }},
		{"original", func(r storage.Repository) *faultyRepo { return &faultyRepo{Repository: r, saveOriginalErr: diskFull} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, db := newTestService(t, nil)
			repo := tt.repo(db)
			svc := NewService(repo, nil, log.New(&strings.Builder{}))
			svc.now = base.now

			a, err := svc.Import(context.Background(), "hills.gpx", []byte(sampleGPX()))
			require.ErrorIs(t, err, diskFull)
			assert.Nil(t, a)

			all, err := db.ListActivities()
			require.NoError(t, err)
			assert.Empty(t, all)

			require.NotEqual(t, uuid.Nil, repo.lastID)
			_, err = db.GetOriginal(repo.lastID)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestImport_NameFromFilename(t *testing.T) {
	svc, _ := newTestService(t, nil)

	data := strings.Replace(sampleGPX(), "<metadata><name>Hill repeats</name></metadata>", "", 1)
	a, err := svc.Import(context.Background(), "sunday-long.gpx", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, "sunday-long", a.Name)
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name    string
		params  PointParams
		want    models.Criteria
		wantErr bool
	}{
		{
			name:   "all blank",
			params: PointParams{Latitude: " ", Longitude: ""},
		},
		{
			name:   "position and time",
			params: PointParams{Latitude: "43.5", Longitude: "-5.25", TimeMillis: "1714557600000"},
			want: models.Criteria{
				Latitude:   models.Float(43.5),
				Longitude:  models.Float(-5.25),
				TimeMillis: int64Ptr(1714557600000),
			},
		},
		{
			name:   "index only",
			params: PointParams{Index: " 7 "},
			want:   models.Criteria{Index: models.Int(7)},
		},
		{name: "bad latitude", params: PointParams{Latitude: "north"}, wantErr: true},
		{name: "bad longitude", params: PointParams{Longitude: "1.2.3"}, wantErr: true},
		{name: "bad time", params: PointParams{TimeMillis: "yesterday"}, wantErr: true},
		{name: "bad index", params: PointParams{Index: "2.5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestParseStartTimes(t *testing.T) {
	got, err := ParseStartTimes([]string{"1714557600000", " ", "42"})
	require.NoError(t, err)
	assert.Equal(t, []*int64{int64Ptr(1714557600000), nil, int64Ptr(42)}, got)

	got, err = ParseStartTimes(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseStartTimes([]string{"noon"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestRemovePoint(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	out, err := svc.RemovePoint(a.ID, pointParams(1))
	require.NoError(t, err)
	assert.Equal(t, 5, out.PointCount())
	assert.True(t, out.UpdatedAt.Equal(start.Add(24*time.Hour)))

	stored, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.PointCount())
	assert.Len(t, stored.Laps[0].Tracks, 2)
}

func TestRemovePoint_Rejections(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	_, err := svc.RemovePoint(a.ID, PointParams{Latitude: "x"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	p := pointParams(1)
	p.Longitude = "-5.9"
	_, err = svc.RemovePoint(a.ID, p)
	assert.ErrorIs(t, err, activities.ErrNotApplicable)

	_, err = svc.RemovePoint(uuid.New(), pointParams(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	stored, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.PointCount(), "rejected edits leave the stored activity alone")
}

func TestSplitAndJoin(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	split, err := svc.SplitLap(a.ID, pointParams(4))
	require.NoError(t, err)
	require.Len(t, split.Laps, 3)
	assert.Len(t, split.Laps[1].Tracks, 1)
	assert.Len(t, split.Laps[2].Tracks, 2)

	_, err = svc.SplitLap(a.ID, pointParams(0))
	assert.ErrorIs(t, err, activities.ErrSplitNotApplicable)

	joined, err := svc.JoinLaps(a.ID, models.Int(2), models.Int(1))
	require.NoError(t, err)
	require.Len(t, joined.Laps, 2)
	assert.Len(t, joined.Laps[1].Tracks, 3)

	_, err = svc.JoinLaps(a.ID, models.Int(0), nil)
	assert.ErrorIs(t, err, activities.ErrInvalidJoinIndices)
}

func TestRemoveLaps(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	startMillis := a.Laps[0].StartTime.UnixMilli()
	out, err := svc.RemoveLaps(a.ID, []*int64{&startMillis}, []int{0})
	require.NoError(t, err)
	require.Len(t, out.Laps, 1)
	assert.Equal(t, 0, out.Laps[0].Index)
	assert.True(t, out.Laps[0].StartTime.Equal(pointTime(3)))
}

func TestSetLapColorsAndRename(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	out, err := svc.SetLapColors(a.ID, 1, "ff0000-ffcccc")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", out.Laps[1].Color)
	assert.Equal(t, "#ffcccc", out.Laps[1].LightColor)

	_, err = svc.SetLapColors(a.ID, 9, "ff0000-ffcccc")
	assert.ErrorIs(t, err, activities.ErrLapNotFound)

	renamed, err := svc.Rename(a.ID, "  Tempo  ")
	require.NoError(t, err)
	assert.Equal(t, "Tempo", renamed.Name)

	_, err = svc.Rename(a.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestResolve(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	id, err := svc.Resolve(a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = svc.Resolve(strings.ToUpper(a.ID.String()[:8]))
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = svc.Resolve("")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.Resolve("zzzz")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResolve_Ambiguous(t *testing.T) {
	svc, db := newTestService(t, nil)
	for _, raw := range []string{"abcd0000-0000-4000-8000-000000000001", "abcd0000-0000-4000-8000-000000000002"} {
		a := models.NewActivity("run", "running", models.FormatGPX)
		a.ID = uuid.MustParse(raw)
		require.NoError(t, db.SaveActivity(a))
	}

	_, err := svc.Resolve("abcd")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	id, err := svc.Resolve("abcd0000-0000-4000-8000-000000000002")
	require.NoError(t, err)
	assert.Equal(t, "abcd0000-0000-4000-8000-000000000002", id.String())
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	for _, format := range []string{models.FormatGPX, models.FormatTCX} {
		data, err := svc.Export(a.ID, format)
		require.NoError(t, err, format)

		detected, err := codec.Detect("", data)
		require.NoError(t, err)
		assert.Equal(t, format, detected)

		back, err := codec.Parse(format, data)
		require.NoError(t, err)
		assert.Equal(t, a.PointCount(), back.PointCount())
	}

	data, err := svc.Export(a.ID, FormatGeoJSON)
	require.NoError(t, err)
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 2)

	_, err = svc.Export(a.ID, "kml")
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	a := importSample(t, svc)

	require.NoError(t, svc.Delete(a.ID))
	_, err := svc.Get(a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.Original(a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(a.ID), storage.ErrNotFound)
}
