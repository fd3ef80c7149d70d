// ABOUTME: Whole-activity summary statistics
// ABOUTME: Rolls lap totals and aggregates up to the activity

package activities

import (
	"time"

	"github.com/harper/trackedit/internal/models"
)

// Summary is an activity-level roll-up of its laps.
type Summary struct {
	Laps             int           `json:"laps"`
	Points           int           `json:"points"`
	Distance         float64       `json:"distance_m"`
	Duration         time.Duration `json:"duration"`
	Calories         int           `json:"calories"`
	MaximumHeartRate *int          `json:"maximum_heart_rate,omitempty"`
	MaximumSpeed     *float64      `json:"maximum_speed,omitempty"`
	AverageSpeed     *float64      `json:"average_speed,omitempty"`
}

// Summarize rolls up lap statistics. Missing lap values count as zero.
func Summarize(a *models.Activity) Summary {
	s := Summary{Laps: len(a.Laps), Points: a.PointCount()}
	for i := range a.Laps {
		l := &a.Laps[i]
		if l.Distance != nil {
			s.Distance += *l.Distance
		}
		if l.TotalTime != nil {
			s.Duration += time.Duration(*l.TotalTime * float64(time.Second))
		}
		if l.Calories != nil {
			s.Calories += *l.Calories
		}
		if l.MaximumHeartRate != nil && (s.MaximumHeartRate == nil || *l.MaximumHeartRate > *s.MaximumHeartRate) {
			s.MaximumHeartRate = models.Int(*l.MaximumHeartRate)
		}
		if l.MaximumSpeed != nil && (s.MaximumSpeed == nil || *l.MaximumSpeed > *s.MaximumSpeed) {
			s.MaximumSpeed = models.Float(*l.MaximumSpeed)
		}
	}
	if secs := s.Duration.Seconds(); secs > 0 {
		s.AverageSpeed = models.Float(s.Distance / secs)
	}
	return s
}
