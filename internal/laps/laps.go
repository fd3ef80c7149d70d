// ABOUTME: Lap-level derived metrics and structural edits
// ABOUTME: Distance/speed propagation, aggregates, totals, split, join, colors

// Package laps computes and maintains per-lap statistics.
//
// Functions that take a *models.Lap mutate it in place; callers that need
// the original intact pass a clone. Split and Join build new laps from
// independent copies of their inputs.
package laps

import (
	"math"
	"slices"
	"strings"

	"github.com/harper/trackedit/internal/models"
)

// FillDistance recomputes the cumulative distance of every point in the lap.
// prev is the last point of the preceding lap, or nil for the first lap.
func FillDistance(lap *models.Lap, prev *models.TrackPoint) {
	for i := range lap.Tracks {
		cur := &lap.Tracks[i]
		before := predecessor(lap, i, prev)
		if before == nil {
			cur.Distance = models.Float(0)
			continue
		}

		base := 0.0
		if before.Distance != nil {
			base = *before.Distance
		}
		step, _ := models.PointDistance(before, cur)
		cur.Distance = models.Float(base + step)
	}
}

// FillSpeed fills missing point speeds from each point's predecessor, then
// brings the lap's totals and speed aggregates up to date.
func FillSpeed(lap *models.Lap, prev *models.TrackPoint) {
	for i := range lap.Tracks {
		cur := &lap.Tracks[i]
		if cur.Speed != nil {
			continue
		}
		before := predecessor(lap, i, prev)
		if before == nil {
			cur.Speed = models.Float(0)
			continue
		}
		if s, ok := models.PointSpeed(before, cur); ok {
			cur.Speed = models.Float(s)
		}
	}

	SetTotals(lap)
	AggregateSpeed(lap)
}

func predecessor(lap *models.Lap, i int, prev *models.TrackPoint) *models.TrackPoint {
	if i > 0 {
		return &lap.Tracks[i-1]
	}
	return prev
}

// SetTotals fills the lap's missing distance and elapsed time from its
// first and last points.
func SetTotals(lap *models.Lap) {
	first, last := lap.First(), lap.Last()
	if first == nil {
		return
	}
	if lap.Distance == nil && first.Distance != nil && last.Distance != nil {
		lap.Distance = models.Float(*last.Distance - *first.Distance)
	}
	if lap.TotalTime == nil && !first.Time.IsZero() && !last.Time.IsZero() {
		lap.TotalTime = models.Float(last.Time.Sub(first.Time).Seconds())
	}
}

// ResetTotals clears the lap's distance and elapsed time.
func ResetTotals(lap *models.Lap) {
	lap.Distance = nil
	lap.TotalTime = nil
}

// ResetAggregates clears the lap's heart rate and speed aggregates.
func ResetAggregates(lap *models.Lap) {
	lap.AverageHeartRate = nil
	lap.MaximumHeartRate = nil
	lap.AverageSpeed = nil
	lap.MaximumSpeed = nil
}

// AggregateHeartRate sets average and maximum heart rate when every point
// carries a heart rate. Populated values are kept unless the stored maximum
// no longer matches any point.
func AggregateHeartRate(lap *models.Lap) {
	if len(lap.Tracks) == 0 {
		return
	}
	values := make([]int, 0, len(lap.Tracks))
	for i := range lap.Tracks {
		if lap.Tracks[i].HeartRate == nil {
			return
		}
		values = append(values, *lap.Tracks[i].HeartRate)
	}

	if lap.AverageHeartRate != nil && lap.MaximumHeartRate != nil && slices.Contains(values, *lap.MaximumHeartRate) {
		return
	}

	maxHR, sum := values[0], 0
	for _, v := range values {
		sum += v
		if v > maxHR {
			maxHR = v
		}
	}
	lap.MaximumHeartRate = models.Int(maxHR)
	lap.AverageHeartRate = models.Int(int(math.Round(float64(sum) / float64(len(values)))))
}

// AggregateSpeed sets average and maximum speed when every point carries a
// speed, with the same keep-unless-stale rule as AggregateHeartRate.
func AggregateSpeed(lap *models.Lap) {
	if len(lap.Tracks) == 0 {
		return
	}
	values := make([]float64, 0, len(lap.Tracks))
	for i := range lap.Tracks {
		if lap.Tracks[i].Speed == nil {
			return
		}
		values = append(values, *lap.Tracks[i].Speed)
	}

	if lap.AverageSpeed != nil && lap.MaximumSpeed != nil && slices.Contains(values, *lap.MaximumSpeed) {
		return
	}

	maxSpeed, sum := values[0], 0.0
	for _, v := range values {
		sum += v
		if v > maxSpeed {
			maxSpeed = v
		}
	}
	lap.MaximumSpeed = models.Float(maxSpeed)
	lap.AverageSpeed = models.Float(sum / float64(len(values)))
}

// Aggregate recomputes totals and both aggregates where they are missing.
func Aggregate(lap *models.Lap) {
	SetTotals(lap)
	AggregateHeartRate(lap)
	AggregateSpeed(lap)
}

// Split builds a new lap from the half-open track range [start, end) of lap.
func Split(lap *models.Lap, start, end, newIndex int) models.Lap {
	out := models.Lap{
		Index:     newIndex,
		Intensity: lap.Intensity,
		Tracks:    models.CloneTracks(lap.Tracks[start:end]),
	}
	renumber(out.Tracks)

	if lap.Calories != nil && len(lap.Tracks) > 0 {
		ratio := float64(len(out.Tracks)) / float64(len(lap.Tracks))
		out.Calories = models.Int(int(math.Round(float64(*lap.Calories) * ratio)))
	}
	if first := out.First(); first != nil {
		out.StartTime = first.Time
	}

	Aggregate(&out)
	return out
}

// Join merges right onto the end of left into a new lap.
func Join(left, right *models.Lap) models.Lap {
	tracks := make([]models.TrackPoint, 0, len(left.Tracks)+len(right.Tracks))
	tracks = append(tracks, models.CloneTracks(left.Tracks)...)
	tracks = append(tracks, models.CloneTracks(right.Tracks)...)
	renumber(tracks)

	out := models.Lap{
		Index:      left.Index,
		Calories:   sumInt(left.Calories, right.Calories),
		TotalTime:  sumFloat(left.TotalTime, right.TotalTime),
		Distance:   sumFloat(left.Distance, right.Distance),
		Intensity:  joinIntensity(left, right),
		Color:      left.Color,
		LightColor: left.LightColor,
		Tracks:     tracks,
	}
	if first := out.First(); first != nil {
		out.StartTime = first.Time
	}

	AggregateHeartRate(&out)
	AggregateSpeed(&out)
	return out
}

func joinIntensity(left, right *models.Lap) string {
	if left.Intensity == right.Intensity {
		return left.Intensity
	}
	if valueOf(right.Distance) > valueOf(left.Distance) {
		return right.Intensity
	}
	return left.Intensity
}

// SetColors applies a "primary-secondary" color pair to the lap.
func SetColors(lap *models.Lap, colors string) {
	primary, secondary, _ := strings.Cut(colors, "-")
	lap.Color = "#" + primary
	lap.LightColor = "#" + secondary
}

// renumber makes track indices contiguous, starting at the first track's index.
func renumber(tracks []models.TrackPoint) {
	if len(tracks) == 0 {
		return
	}
	start := tracks[0].Index
	for i := range tracks {
		tracks[i].Index = start + i
	}
}

func sumInt(a, b *int) *int {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return models.Int(*b)
	case b == nil:
		return models.Int(*a)
	}
	return models.Int(*a + *b)
}

func sumFloat(a, b *float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return models.Float(*b)
	case b == nil:
		return models.Float(*a)
	}
	return models.Float(*a + *b)
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
