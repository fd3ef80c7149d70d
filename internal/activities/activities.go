// ABOUTME: Activity-level editing across the lap list
// ABOUTME: Locate, remove point, split, join, remove laps, whole-activity fill

// Package activities orchestrates structural edits of an activity.
//
// Every mutating function works on a deep copy of its input and returns the
// edited copy. A rejected edit returns an error wrapping ErrNotApplicable and
// leaves the caller's activity untouched.
package activities

import (
	"errors"
	"fmt"
	"slices"

	"github.com/harper/trackedit/internal/laps"
	"github.com/harper/trackedit/internal/models"
)

// ErrNotApplicable is wrapped by every domain-level rejection.
var ErrNotApplicable = errors.New("not applicable")

// Rejection reasons.
var (
	ErrActivityMissing    = fmt.Errorf("%w: activity missing", ErrNotApplicable)
	ErrLapNotFound        = fmt.Errorf("%w: lap not found", ErrNotApplicable)
	ErrPointNotFound      = fmt.Errorf("%w: point not found", ErrNotApplicable)
	ErrSplitNotApplicable = fmt.Errorf("%w: split point must be inside the lap", ErrNotApplicable)
	ErrInvalidJoinIndices = fmt.Errorf("%w: invalid join indices", ErrNotApplicable)
)

// LocateLap returns the position of the first lap holding a point that
// matches c.
func LocateLap(a *models.Activity, c models.Criteria) (int, bool) {
	if a == nil {
		return -1, false
	}
	for i := range a.Laps {
		for j := range a.Laps[i].Tracks {
			if a.Laps[i].Tracks[j].Matches(c) {
				return i, true
			}
		}
	}
	return -1, false
}

// LocatePointIndex returns the position of the first matching point within
// the lap at lapIndex.
func LocatePointIndex(a *models.Activity, lapIndex int, c models.Criteria) (int, bool) {
	if a == nil || lapIndex < 0 || lapIndex >= len(a.Laps) {
		return -1, false
	}
	tracks := a.Laps[lapIndex].Tracks
	for j := range tracks {
		if tracks[j].Matches(c) {
			return j, true
		}
	}
	return -1, false
}

func locate(a *models.Activity, c models.Criteria) (lapIdx, pointIdx int, err error) {
	if a == nil {
		return -1, -1, ErrActivityMissing
	}
	lapIdx, ok := LocateLap(a, c)
	if !ok {
		return -1, -1, ErrLapNotFound
	}
	pointIdx, ok = LocatePointIndex(a, lapIdx, c)
	if !ok {
		return -1, -1, ErrPointNotFound
	}
	return lapIdx, pointIdx, nil
}

// RemovePoint deletes the point matching c. A lap left without points is
// removed entirely. Otherwise the point that followed the removed one gets a
// fresh distance and speed from its new predecessor, every later distance is
// shifted by the same amount, and the laps whose points changed have their
// statistics recomputed.
func RemovePoint(a *models.Activity, c models.Criteria) (*models.Activity, error) {
	li, pi, err := locate(a, c)
	if err != nil {
		return nil, err
	}

	out := a.Clone()
	if len(out.Laps[li].Tracks) == 1 {
		out.Laps = slices.Delete(out.Laps, li, li+1)
		Reindex(out)
		return out, nil
	}

	lap := &out.Laps[li]
	lap.Tracks = slices.Delete(lap.Tracks, pi, pi+1)
	lap.StartTime = lap.Tracks[0].Time

	touched := []int{li}
	if sl, sp, ok := successor(out, li, pi); ok {
		rebase(out, sl, sp)
		if sl != li {
			touched = append(touched, sl)
		}
	}
	for _, i := range touched {
		laps.ResetTotals(&out.Laps[i])
		laps.ResetAggregates(&out.Laps[i])
		laps.Aggregate(&out.Laps[i])
	}
	return out, nil
}

// successor locates the point that now sits where the removed point (li, pi)
// was, in activity order.
func successor(a *models.Activity, li, pi int) (int, int, bool) {
	if pi < len(a.Laps[li].Tracks) {
		return li, pi, true
	}
	if li+1 < len(a.Laps) && len(a.Laps[li+1].Tracks) > 0 {
		return li + 1, 0, true
	}
	return -1, -1, false
}

// previous returns the point before (li, pi) in activity order.
func previous(a *models.Activity, li, pi int) *models.TrackPoint {
	if pi > 0 {
		return &a.Laps[li].Tracks[pi-1]
	}
	for i := li - 1; i >= 0; i-- {
		if last := a.Laps[i].Last(); last != nil {
			return last
		}
	}
	return nil
}

// rebase recomputes the distance and speed of the point at (li, pi) from its
// predecessor and shifts every later distance by the change, keeping the
// rest of the distance stream as recorded.
func rebase(a *models.Activity, li, pi int) {
	cur := &a.Laps[li].Tracks[pi]
	prev := previous(a, li, pi)

	old := cur.Distance
	fresh := 0.0
	if prev != nil {
		if prev.Distance != nil {
			fresh = *prev.Distance
		}
		step, _ := models.PointDistance(prev, cur)
		fresh += step
	}
	cur.Distance = models.Float(fresh)

	cur.Speed = nil
	if prev == nil {
		cur.Speed = models.Float(0)
	} else if s, ok := models.PointSpeed(prev, cur); ok {
		cur.Speed = models.Float(s)
	}

	if old == nil {
		return
	}
	delta := fresh - *old
	for i := li; i < len(a.Laps); i++ {
		tracks := a.Laps[i].Tracks
		from := 0
		if i == li {
			from = pi + 1
		}
		for j := from; j < len(tracks); j++ {
			if tracks[j].Distance != nil {
				tracks[j].Distance = models.Float(*tracks[j].Distance + delta)
			}
		}
	}
}

// SplitLap divides the lap holding the point matching c into two laps. The
// matched point becomes the first point of the second lap, so it must be
// neither the first nor the last point of its lap.
func SplitLap(a *models.Activity, c models.Criteria) (*models.Activity, error) {
	li, pi, err := locate(a, c)
	if err != nil {
		if errors.Is(err, ErrActivityMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSplitNotApplicable, err)
	}
	original := &a.Laps[li]
	n := len(original.Tracks)
	if pi <= 0 || pi >= n-1 {
		return nil, ErrSplitNotApplicable
	}

	left := laps.Split(original, 0, pi, original.Index)
	right := laps.Split(original, pi, n, original.Index+1)

	out := a.Clone()
	for i := li + 1; i < len(out.Laps); i++ {
		out.Laps[i].Index++
	}
	out.Laps = slices.Replace(out.Laps, li, li+1, left, right)
	return out, nil
}

// JoinLaps merges two adjacent laps into one lap placed at the lower index.
// Argument order does not matter.
func JoinLaps(a *models.Activity, i, j *int) (*models.Activity, error) {
	if a == nil {
		return nil, ErrActivityMissing
	}
	if i == nil || j == nil {
		return nil, ErrInvalidJoinIndices
	}
	left, right := min(*i, *j), max(*i, *j)
	if left < 0 || right >= len(a.Laps) || right-left != 1 {
		return nil, ErrInvalidJoinIndices
	}

	merged := laps.Join(&a.Laps[left], &a.Laps[right])
	merged.Index = left

	out := a.Clone()
	for k := right + 1; k < len(out.Laps); k++ {
		out.Laps[k].Index--
	}
	out.Laps = slices.Delete(out.Laps, right, right+1)
	out.Laps[left] = merged
	return out, nil
}

// RemoveLaps removes every lap named by a (start time, index) pair. A nil
// start time matches on index alone; start times are epoch milliseconds.
// Indices refer to the activity as passed in, and the remaining laps are
// renumbered afterwards.
func RemoveLaps(a *models.Activity, startTimes []*int64, indices []int) (*models.Activity, error) {
	if a == nil {
		return nil, ErrActivityMissing
	}
	if len(startTimes) != 0 && len(startTimes) != len(indices) {
		return nil, fmt.Errorf("%w: %d start times for %d indices", ErrNotApplicable, len(startTimes), len(indices))
	}

	out := a.Clone()
	out.Laps = slices.DeleteFunc(out.Laps, func(l models.Lap) bool {
		for k, idx := range indices {
			if l.Index != idx {
				continue
			}
			if k < len(startTimes) && startTimes[k] != nil && l.StartTime.UnixMilli() != *startTimes[k] {
				continue
			}
			return true
		}
		return false
	})
	Reindex(out)
	return out, nil
}

// FillDistanceSpeed fills distances and speeds across the whole activity.
// It does nothing unless every point has a timestamp. Distances are only
// filled when no point has one yet, and speeds likewise.
func FillDistanceSpeed(a *models.Activity) *models.Activity {
	if a == nil {
		return nil
	}
	out := a.Clone()
	if !allPoints(out, func(t *models.TrackPoint) bool { return !t.Time.IsZero() }) {
		return out
	}

	if noPoint(out, func(t *models.TrackPoint) bool { return t.Distance != nil }) {
		eachLap(out, laps.FillDistance)
	}
	if noPoint(out, func(t *models.TrackPoint) bool { return t.Speed != nil }) {
		eachLap(out, laps.FillSpeed)
	}
	return out
}

func eachLap(a *models.Activity, fn func(*models.Lap, *models.TrackPoint)) {
	var prev *models.TrackPoint
	for i := range a.Laps {
		fn(&a.Laps[i], prev)
		if last := a.Laps[i].Last(); last != nil {
			prev = last
		}
	}
}

func allPoints(a *models.Activity, pred func(*models.TrackPoint) bool) bool {
	for i := range a.Laps {
		for j := range a.Laps[i].Tracks {
			if !pred(&a.Laps[i].Tracks[j]) {
				return false
			}
		}
	}
	return true
}

func noPoint(a *models.Activity, pred func(*models.TrackPoint) bool) bool {
	return allPoints(a, func(t *models.TrackPoint) bool { return !pred(t) })
}

// Reindex sets every lap's index to its position in the lap list.
func Reindex(a *models.Activity) {
	for i := range a.Laps {
		a.Laps[i].Index = i
	}
}

// SetLapColors applies a "primary-secondary" color pair to one lap.
func SetLapColors(a *models.Activity, lapIndex int, colors string) (*models.Activity, error) {
	if a == nil {
		return nil, ErrActivityMissing
	}
	if lapIndex < 0 || lapIndex >= len(a.Laps) {
		return nil, ErrLapNotFound
	}
	out := a.Clone()
	laps.SetColors(&out.Laps[lapIndex], colors)
	return out, nil
}

// PrepareLaps fills each lap's missing totals and aggregates.
func PrepareLaps(a *models.Activity) *models.Activity {
	out := a.Clone()
	for i := range out.Laps {
		laps.Aggregate(&out.Laps[i])
	}
	return out
}
