// ABOUTME: Point-level operations on track points
// ABOUTME: Distance, speed, and identity matching between samples

package models

import (
	"math"

	"github.com/harper/trackedit/internal/geo"
)

// Criteria identifies a track point by position plus time or index.
// Nil fields are criteria that were not supplied.
type Criteria struct {
	Latitude   *float64
	Longitude  *float64
	TimeMillis *int64
	Index      *int
}

// Equals reports whether the position has exactly the given coordinates.
// A nil position or a missing coordinate never matches.
func (p *Position) Equals(lat, lng *float64) bool {
	if p == nil || lat == nil || lng == nil {
		return false
	}
	return p.Latitude == *lat && p.Longitude == *lng
}

// DistanceTo returns the great-circle distance in metres to another position.
// The second return value is false when either position is missing.
func (p *Position) DistanceTo(other *Position) (float64, bool) {
	if p == nil || other == nil {
		return 0, false
	}
	return geo.Distance(p.Latitude, p.Longitude, other.Latitude, other.Longitude), true
}

// PointDistance returns the distance in metres between two track points.
func PointDistance(a, b *TrackPoint) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return a.Position.DistanceTo(b.Position)
}

// PointSpeed returns the speed in m/s needed to travel from a to b.
// It is absent when the elapsed time is not strictly positive.
func PointSpeed(a, b *TrackPoint) (float64, bool) {
	if a == nil || b == nil || a.Time.IsZero() || b.Time.IsZero() {
		return 0, false
	}
	elapsed := b.Time.Sub(a.Time).Seconds()
	if elapsed <= 0 {
		return 0, false
	}
	d, ok := PointDistance(a, b)
	if !ok {
		return 0, false
	}
	return math.Abs(d) / elapsed, true
}

// TimeMillis returns the point's timestamp as epoch milliseconds.
func (t *TrackPoint) TimeMillis() int64 {
	return t.Time.UnixMilli()
}

// Matches reports whether the point sits at the criteria's position and has
// either the criteria's timestamp or its index.
func (t *TrackPoint) Matches(c Criteria) bool {
	if !t.Position.Equals(c.Latitude, c.Longitude) {
		return false
	}
	if c.TimeMillis != nil && !t.Time.IsZero() && t.TimeMillis() == *c.TimeMillis {
		return true
	}
	return c.Index != nil && t.Index == *c.Index
}
