// ABOUTME: TCX reader and writer for activities
// ABOUTME: Maps Garmin training center laps, trackpoints, and vendor extensions

package tcx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"github.com/harper/trackedit/internal/models"
)

// Namespaces written on encode.
const (
	DatabaseNS  = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	ExtensionNS = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
)

// ErrNoActivity is returned when a document holds no activity.
var ErrNoActivity = errors.New("tcx: no activity")

type database struct {
	XMLName    xml.Name   `xml:"TrainingCenterDatabase"`
	XMLNS      string     `xml:"xmlns,attr,omitempty"`
	Activities []activity `xml:"Activities>Activity"`
}

type activity struct {
	Sport   string   `xml:"Sport,attr,omitempty"`
	ID      string   `xml:"Id"`
	Laps    []lap    `xml:"Lap"`
	Notes   string   `xml:"Notes,omitempty"`
	Creator *creator `xml:"Creator,omitempty"`
}

type creator struct {
	Name string `xml:"Name"`
}

type lap struct {
	StartTime        time.Time     `xml:"StartTime,attr"`
	TotalTimeSeconds *float64      `xml:"TotalTimeSeconds,omitempty"`
	DistanceMeters   *float64      `xml:"DistanceMeters,omitempty"`
	MaximumSpeed     *float64      `xml:"MaximumSpeed,omitempty"`
	Calories         *int          `xml:"Calories,omitempty"`
	AverageHeartRate *bpm          `xml:"AverageHeartRateBpm,omitempty"`
	MaximumHeartRate *bpm          `xml:"MaximumHeartRateBpm,omitempty"`
	Intensity        string        `xml:"Intensity,omitempty"`
	TriggerMethod    string        `xml:"TriggerMethod,omitempty"`
	Tracks           []track       `xml:"Track"`
	Extensions       *lapExtension `xml:"Extensions,omitempty"`
}

type track struct {
	Points []trackpoint `xml:"Trackpoint"`
}

type trackpoint struct {
	Time           *time.Time      `xml:"Time,omitempty"`
	Position       *position       `xml:"Position,omitempty"`
	AltitudeMeters *float64        `xml:"AltitudeMeters,omitempty"`
	DistanceMeters *float64        `xml:"DistanceMeters,omitempty"`
	HeartRate      *bpm            `xml:"HeartRateBpm,omitempty"`
	Extensions     *pointExtension `xml:"Extensions,omitempty"`
}

type position struct {
	Latitude  float64 `xml:"LatitudeDegrees"`
	Longitude float64 `xml:"LongitudeDegrees"`
}

type bpm struct {
	Value int `xml:"Value"`
}

type lapExtension struct {
	LX *lx `xml:"LX,omitempty"`
}

type lx struct {
	XMLNS    string   `xml:"xmlns,attr,omitempty"`
	AvgSpeed *float64 `xml:"AvgSpeed,omitempty"`
}

type pointExtension struct {
	TPX *tpx `xml:"TPX,omitempty"`
}

type tpx struct {
	XMLNS string   `xml:"xmlns,attr,omitempty"`
	Speed *float64 `xml:"Speed,omitempty"`
}

// Parse reads the first activity of a TCX document.
func Parse(data []byte) (*models.Activity, error) {
	var db database
	if err := xml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse tcx: %w", err)
	}
	if len(db.Activities) == 0 {
		return nil, ErrNoActivity
	}
	src := db.Activities[0]

	a := models.NewActivity(src.Notes, src.Sport, models.FormatTCX)
	if src.Creator != nil {
		a.Device = src.Creator.Name
	}
	if id, err := time.Parse(time.RFC3339, src.ID); err == nil {
		a.Date = id
	}
	if a.Name == "" {
		a.Name = src.ID
	}

	next := 0
	for i := range src.Laps {
		var l models.Lap
		l, next = decodeLap(&src.Laps[i], i, next)
		a.Laps = append(a.Laps, l)
	}
	if a.Date.IsZero() && len(a.Laps) > 0 {
		a.Date = a.Laps[0].StartTime
	}
	return a, nil
}

// decodeLap converts one lap. next is the index given to its first point and
// the returned int is the index following its last.
func decodeLap(src *lap, lapIndex, next int) (models.Lap, int) {
	l := models.Lap{
		Index:        lapIndex,
		StartTime:    src.StartTime,
		TotalTime:    src.TotalTimeSeconds,
		Distance:     src.DistanceMeters,
		MaximumSpeed: src.MaximumSpeed,
		Calories:     src.Calories,
		Intensity:    src.Intensity,
	}
	if src.AverageHeartRate != nil {
		l.AverageHeartRate = models.Int(src.AverageHeartRate.Value)
	}
	if src.MaximumHeartRate != nil {
		l.MaximumHeartRate = models.Int(src.MaximumHeartRate.Value)
	}
	if src.Extensions != nil && src.Extensions.LX != nil {
		l.AverageSpeed = src.Extensions.LX.AvgSpeed
	}

	for _, trk := range src.Tracks {
		for _, p := range trk.Points {
			t := models.TrackPoint{
				Index:    next,
				Altitude: p.AltitudeMeters,
				Distance: p.DistanceMeters,
			}
			if p.Time != nil {
				t.Time = *p.Time
			}
			if p.Position != nil {
				t.Position = &models.Position{Latitude: p.Position.Latitude, Longitude: p.Position.Longitude}
			}
			if p.HeartRate != nil {
				t.HeartRate = models.Int(p.HeartRate.Value)
			}
			if p.Extensions != nil && p.Extensions.TPX != nil {
				t.Speed = p.Extensions.TPX.Speed
			}
			l.Tracks = append(l.Tracks, t)
			next++
		}
	}
	return l, next
}

// Encode writes the activity as a single-activity TCX document.
func Encode(a *models.Activity) ([]byte, error) {
	act := activity{
		Sport: a.Sport,
		ID:    a.Date.UTC().Format(time.RFC3339),
		Notes: a.Name,
	}
	if a.Device != "" {
		act.Creator = &creator{Name: a.Device}
	}
	for i := range a.Laps {
		act.Laps = append(act.Laps, encodeLap(&a.Laps[i]))
	}

	db := database{XMLNS: DatabaseNS, Activities: []activity{act}}
	body, err := xml.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tcx: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeLap(l *models.Lap) lap {
	out := lap{
		StartTime:        l.StartTime.UTC(),
		TotalTimeSeconds: l.TotalTime,
		DistanceMeters:   l.Distance,
		MaximumSpeed:     l.MaximumSpeed,
		Calories:         l.Calories,
		Intensity:        l.Intensity,
		TriggerMethod:    "Manual",
	}
	if l.AverageHeartRate != nil {
		out.AverageHeartRate = &bpm{Value: *l.AverageHeartRate}
	}
	if l.MaximumHeartRate != nil {
		out.MaximumHeartRate = &bpm{Value: *l.MaximumHeartRate}
	}
	if l.AverageSpeed != nil {
		out.Extensions = &lapExtension{LX: &lx{XMLNS: ExtensionNS, AvgSpeed: l.AverageSpeed}}
	}

	var trk track
	for i := range l.Tracks {
		trk.Points = append(trk.Points, encodePoint(&l.Tracks[i]))
	}
	out.Tracks = []track{trk}
	return out
}

func encodePoint(t *models.TrackPoint) trackpoint {
	p := trackpoint{
		AltitudeMeters: t.Altitude,
		DistanceMeters: t.Distance,
	}
	if !t.Time.IsZero() {
		ts := t.Time.UTC()
		p.Time = &ts
	}
	if t.Position != nil {
		p.Position = &position{Latitude: t.Position.Latitude, Longitude: t.Position.Longitude}
	}
	if t.HeartRate != nil {
		p.HeartRate = &bpm{Value: *t.HeartRate}
	}
	if t.Speed != nil {
		p.Extensions = &pointExtension{TPX: &tpx{XMLNS: ExtensionNS, Speed: t.Speed}}
	}
	return p
}
