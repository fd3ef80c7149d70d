// ABOUTME: GPX reader and writer for activities
// ABOUTME: Maps track segments to laps and gpxtpx heart rate to points

package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/harper/trackedit/internal/models"
)

// TrackPointExtensionNS is the Garmin namespace carrying per-point heart rate.
const TrackPointExtensionNS = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"

// ErrNoTrack is returned when a document has no track points at all.
var ErrNoTrack = errors.New("gpx: no track points")

// Parse reads a GPX document. Every non-empty track segment becomes a lap.
func Parse(data []byte) (*models.Activity, error) {
	g, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	a := models.NewActivity(g.Name, "", models.FormatGPX)
	a.Device = g.Creator

	next := 0
	for _, trk := range g.Tracks {
		if a.Name == "" {
			a.Name = trk.Name
		}
		if a.Sport == "" {
			a.Sport = trk.Type
		}
		for _, seg := range trk.Segments {
			if len(seg.Points) == 0 {
				continue
			}
			var lap models.Lap
			lap, next = buildLap(seg.Points, len(a.Laps), next)
			a.Laps = append(a.Laps, lap)
		}
	}
	if len(a.Laps) == 0 {
		return nil, ErrNoTrack
	}

	switch {
	case g.Time != nil:
		a.Date = *g.Time
	default:
		a.Date = a.Laps[0].StartTime
	}
	return a, nil
}

// buildLap converts one segment. next is the index of the first point and
// the returned int is the index following the last one.
func buildLap(points []gpxgo.GPXPoint, lapIndex, next int) (models.Lap, int) {
	lap := models.Lap{
		Index:     lapIndex,
		StartTime: points[0].Timestamp,
		Tracks:    make([]models.TrackPoint, 0, len(points)),
	}
	for i := range points {
		p := &points[i]
		tp := models.TrackPoint{
			Index:    next,
			Time:     p.Timestamp,
			Position: &models.Position{Latitude: p.Latitude, Longitude: p.Longitude},
		}
		if p.Elevation.NotNull() {
			tp.Altitude = models.Float(p.Elevation.Value())
		}
		if hr, ok := heartRate(p.Extensions.Nodes); ok {
			tp.HeartRate = models.Int(hr)
		}
		lap.Tracks = append(lap.Tracks, tp)
		next++
	}
	return lap, next
}

func heartRate(nodes []gpxgo.ExtensionNode) (int, bool) {
	for _, n := range nodes {
		if n.XMLName.Local == "hr" {
			v, err := strconv.Atoi(strings.TrimSpace(n.Data))
			return v, err == nil
		}
		if v, ok := heartRate(n.Nodes); ok {
			return v, true
		}
	}
	return 0, false
}

// Encode writes the activity as GPX 1.1 with one segment per lap. Lap
// statistics have no GPX representation and are dropped; points without a
// position are skipped.
func Encode(a *models.Activity) ([]byte, error) {
	g := &gpxgo.GPX{
		Version: "1.1",
		Creator: creator(a),
		Name:    a.Name,
	}
	if !a.Date.IsZero() {
		date := a.Date.UTC()
		g.Time = &date
	}

	trk := gpxgo.GPXTrack{Name: a.Name, Type: a.Sport}
	for li := range a.Laps {
		var seg gpxgo.GPXTrackSegment
		for pi := range a.Laps[li].Tracks {
			if p, ok := encodePoint(&a.Laps[li].Tracks[pi]); ok {
				seg.Points = append(seg.Points, p)
			}
		}
		if len(seg.Points) > 0 {
			trk.Segments = append(trk.Segments, seg)
		}
	}
	g.Tracks = []gpxgo.GPXTrack{trk}

	out, err := g.ToXml(gpxgo.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return out, nil
}

func encodePoint(t *models.TrackPoint) (gpxgo.GPXPoint, bool) {
	if t.Position == nil {
		return gpxgo.GPXPoint{}, false
	}
	p := gpxgo.GPXPoint{
		Point: gpxgo.Point{Latitude: t.Position.Latitude, Longitude: t.Position.Longitude},
	}
	if !t.Time.IsZero() {
		p.Timestamp = t.Time.UTC()
	}
	if t.Altitude != nil {
		p.Elevation.SetValue(*t.Altitude)
	}
	if t.HeartRate != nil {
		p.Extensions.Nodes = []gpxgo.ExtensionNode{{
			XMLName: xml.Name{Space: TrackPointExtensionNS, Local: "TrackPointExtension"},
			Nodes: []gpxgo.ExtensionNode{{
				XMLName: xml.Name{Space: TrackPointExtensionNS, Local: "hr"},
				Data:    strconv.Itoa(*t.HeartRate),
			}},
		}}
	}
	return p, true
}

func creator(a *models.Activity) string {
	if a.Device != "" {
		return a.Device
	}
	return "trackedit"
}
