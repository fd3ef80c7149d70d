// ABOUTME: GeoJSON generation for activities
// ABOUTME: Builds lap LineStrings and track point features with orb

package geojson

import (
	"encoding/json"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/harper/trackedit/internal/models"
)

// ToLineFeatureCollection converts each lap to a LineString feature carrying
// the lap statistics as properties. Laps with fewer than two positioned
// points are skipped. The collection's bbox covers every emitted line.
func ToLineFeatureCollection(a *models.Activity) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var bound orb.Bound
	for li := range a.Laps {
		lap := &a.Laps[li]
		line := lapLine(lap)
		if len(line) < 2 {
			continue
		}

		f := geojson.NewFeature(line)
		f.Properties["activity"] = a.Name
		f.Properties["lap"] = lap.Index
		f.Properties["start_time"] = lap.StartTime.Format(time.RFC3339)
		f.Properties["point_count"] = len(line)
		setFloat(f.Properties, "distance", lap.Distance)
		setFloat(f.Properties, "total_time", lap.TotalTime)
		setFloat(f.Properties, "average_speed", lap.AverageSpeed)
		setFloat(f.Properties, "maximum_speed", lap.MaximumSpeed)
		setInt(f.Properties, "calories", lap.Calories)
		setInt(f.Properties, "average_heart_rate", lap.AverageHeartRate)
		setInt(f.Properties, "maximum_heart_rate", lap.MaximumHeartRate)
		if lap.Intensity != "" {
			f.Properties["intensity"] = lap.Intensity
		}
		if lap.Color != "" {
			f.Properties["stroke"] = lap.Color
		}
		fc.Append(f)

		if len(fc.Features) == 1 {
			bound = line.Bound()
		} else {
			bound = bound.Union(line.Bound())
		}
	}

	if len(fc.Features) > 0 {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

// ToPointsFeatureCollection emits one Point feature per positioned track
// point, so a client can pick a point to edit.
func ToPointsFeatureCollection(a *models.Activity) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for li := range a.Laps {
		for _, t := range a.Laps[li].Tracks {
			if t.Position == nil {
				continue
			}
			f := geojson.NewFeature(orb.Point{t.Position.Longitude, t.Position.Latitude})
			f.Properties["lap"] = a.Laps[li].Index
			f.Properties["index"] = t.Index
			if !t.Time.IsZero() {
				f.Properties["time"] = t.Time.Format(time.RFC3339)
				f.Properties["time_ms"] = t.TimeMillis()
			}
			setFloat(f.Properties, "altitude", t.Altitude)
			setFloat(f.Properties, "distance", t.Distance)
			setFloat(f.Properties, "speed", t.Speed)
			setInt(f.Properties, "heart_rate", t.HeartRate)
			fc.Append(f)
		}
	}
	return fc
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func ToJSONIndent(fc *geojson.FeatureCollection) ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}

func lapLine(lap *models.Lap) orb.LineString {
	line := make(orb.LineString, 0, len(lap.Tracks))
	for _, t := range lap.Tracks {
		if t.Position != nil {
			line = append(line, orb.Point{t.Position.Longitude, t.Position.Latitude})
		}
	}
	return line
}

func setFloat(props geojson.Properties, key string, v *float64) {
	if v != nil {
		props[key] = *v
	}
}

func setInt(props geojson.Properties, key string, v *int) {
	if v != nil {
		props[key] = *v
	}
}
