// ABOUTME: Altitude backfill for laps recorded without elevation
// ABOUTME: One batched elevation lookup per lap

package laps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harper/trackedit/internal/elevation"
	"github.com/harper/trackedit/internal/models"
)

// BackfillAltitude fills point altitudes from the elevation service.
//
// It only runs when no point in the lap has an altitude and every point has
// a position. A response with a non-OK status leaves the lap unchanged.
func BackfillAltitude(ctx context.Context, lap *models.Lap, lookup elevation.Lookup) error {
	if lookup == nil || len(lap.Tracks) == 0 {
		return nil
	}
	positions := make([]models.Position, 0, len(lap.Tracks))
	for i := range lap.Tracks {
		t := &lap.Tracks[i]
		if t.Altitude != nil || t.Position == nil {
			return nil
		}
		positions = append(positions, *t.Position)
	}

	resp, err := lookup.Elevations(ctx, positions)
	if err != nil {
		return fmt.Errorf("lookup elevations for lap %d: %w", lap.Index, err)
	}
	if !resp.OK() {
		return nil
	}

	for i := range lap.Tracks {
		t := &lap.Tracks[i]
		if t.Altitude != nil {
			continue
		}
		raw, ok := resp.Elevations[elevation.Key(t.Position.Latitude, t.Position.Longitude)]
		if !ok {
			continue
		}
		alt, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		t.Altitude = models.Float(alt)
	}
	return nil
}
