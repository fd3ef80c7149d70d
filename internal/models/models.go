// ABOUTME: Core data models for activities, laps, and track points
// ABOUTME: Provides constructors, validators, and deep-copy helpers

package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source formats an activity can be imported from.
const (
	FormatGPX = "gpx"
	FormatTCX = "tcx"
)

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateName checks if an activity name is valid (non-empty, within length limits).
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}
	return nil
}

// Position is a coordinate pair in decimal degrees.
// Two positions are the same point only if both coordinates are exactly equal.
type Position struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// TrackPoint is a single timestamped sample of an activity.
type TrackPoint struct {
	Time      time.Time `json:"time" yaml:"time"`
	Index     int       `json:"index" yaml:"index"`
	Position  *Position `json:"position,omitempty" yaml:"position,omitempty"`
	Altitude  *float64  `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Distance  *float64  `json:"distance,omitempty" yaml:"distance,omitempty"`
	Speed     *float64  `json:"speed,omitempty" yaml:"speed,omitempty"`
	HeartRate *int      `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
}

// Lap is a contiguous segment of an activity's track points.
type Lap struct {
	Index            int          `json:"index" yaml:"index"`
	StartTime        time.Time    `json:"start_time" yaml:"start_time"`
	TotalTime        *float64     `json:"total_time,omitempty" yaml:"total_time,omitempty"`
	Distance         *float64     `json:"distance,omitempty" yaml:"distance,omitempty"`
	Calories         *int         `json:"calories,omitempty" yaml:"calories,omitempty"`
	AverageHeartRate *int         `json:"average_heart_rate,omitempty" yaml:"average_heart_rate,omitempty"`
	MaximumHeartRate *int         `json:"maximum_heart_rate,omitempty" yaml:"maximum_heart_rate,omitempty"`
	AverageSpeed     *float64     `json:"average_speed,omitempty" yaml:"average_speed,omitempty"`
	MaximumSpeed     *float64     `json:"maximum_speed,omitempty" yaml:"maximum_speed,omitempty"`
	Intensity        string       `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Color            string       `json:"color,omitempty" yaml:"color,omitempty"`
	LightColor       string       `json:"light_color,omitempty" yaml:"light_color,omitempty"`
	Tracks           []TrackPoint `json:"tracks" yaml:"tracks"`
}

// Activity is the root record of one recorded route.
type Activity struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Device       string    `json:"device,omitempty" yaml:"device,omitempty"`
	Name         string    `json:"name" yaml:"name"`
	Date         time.Time `json:"date" yaml:"date"`
	Sport        string    `json:"sport,omitempty" yaml:"sport,omitempty"`
	SourceFormat string    `json:"source_format" yaml:"source_format"`
	Laps         []Lap     `json:"laps" yaml:"laps"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewActivity creates a new activity with generated UUID and timestamps.
func NewActivity(name, sport, format string) *Activity {
	now := time.Now()
	return &Activity{
		ID:           uuid.New(),
		Name:         name,
		Sport:        sport,
		SourceFormat: format,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Clone returns a deep copy of the track point.
func (t *TrackPoint) Clone() TrackPoint {
	c := *t
	if t.Position != nil {
		p := *t.Position
		c.Position = &p
	}
	c.Altitude = cloneFloat(t.Altitude)
	c.Distance = cloneFloat(t.Distance)
	c.Speed = cloneFloat(t.Speed)
	c.HeartRate = cloneInt(t.HeartRate)
	return c
}

// Clone returns a deep copy of the lap and all of its track points.
func (l *Lap) Clone() Lap {
	c := *l
	c.TotalTime = cloneFloat(l.TotalTime)
	c.Distance = cloneFloat(l.Distance)
	c.Calories = cloneInt(l.Calories)
	c.AverageHeartRate = cloneInt(l.AverageHeartRate)
	c.MaximumHeartRate = cloneInt(l.MaximumHeartRate)
	c.AverageSpeed = cloneFloat(l.AverageSpeed)
	c.MaximumSpeed = cloneFloat(l.MaximumSpeed)
	c.Tracks = CloneTracks(l.Tracks)
	return c
}

// Clone returns a deep copy of the activity.
func (a *Activity) Clone() *Activity {
	c := *a
	if a.Laps != nil {
		c.Laps = make([]Lap, len(a.Laps))
		for i := range a.Laps {
			c.Laps[i] = a.Laps[i].Clone()
		}
	}
	return &c
}

// CloneTracks deep-copies a slice of track points.
func CloneTracks(tracks []TrackPoint) []TrackPoint {
	if tracks == nil {
		return nil
	}
	out := make([]TrackPoint, len(tracks))
	for i := range tracks {
		out[i] = tracks[i].Clone()
	}
	return out
}

// First returns the lap's first track point, or nil for an empty lap.
func (l *Lap) First() *TrackPoint {
	if len(l.Tracks) == 0 {
		return nil
	}
	return &l.Tracks[0]
}

// Last returns the lap's last track point, or nil for an empty lap.
func (l *Lap) Last() *TrackPoint {
	if len(l.Tracks) == 0 {
		return nil
	}
	return &l.Tracks[len(l.Tracks)-1]
}

// PointCount returns the number of track points across all laps.
func (a *Activity) PointCount() int {
	n := 0
	for i := range a.Laps {
		n += len(a.Laps[i].Tracks)
	}
	return n
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
