// ABOUTME: Wire shapes returned by MCP tools and resources
// ABOUTME: Flattens activities into plain JSON-friendly structs

package mcp

import (
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/trackedit/internal/activities"
	"github.com/harper/trackedit/internal/models"
)

// SummaryOutput is the activity-level roll-up.
type SummaryOutput struct {
	Laps             int      `json:"laps"`
	Points           int      `json:"points"`
	DistanceMetres   float64  `json:"distance_m"`
	DurationSeconds  float64  `json:"duration_s"`
	Calories         int      `json:"calories"`
	MaximumHeartRate *int     `json:"maximum_heart_rate,omitempty"`
	MaximumSpeed     *float64 `json:"maximum_speed,omitempty"`
	AverageSpeed     *float64 `json:"average_speed,omitempty"`
}

// PointOutput is one track point.
type PointOutput struct {
	Index      int       `json:"index"`
	Time       time.Time `json:"time"`
	TimeMillis int64     `json:"time_ms"`
	Latitude   *float64  `json:"lat,omitempty"`
	Longitude  *float64  `json:"lng,omitempty"`
	Altitude   *float64  `json:"altitude,omitempty"`
	Distance   *float64  `json:"distance,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	HeartRate  *int      `json:"heart_rate,omitempty"`
}

// LapOutput is one lap with its statistics.
type LapOutput struct {
	Index            int           `json:"index"`
	StartTime        time.Time     `json:"start_time"`
	StartTimeMillis  int64         `json:"start_time_ms"`
	PointCount       int           `json:"point_count"`
	TotalTime        *float64      `json:"total_time,omitempty"`
	Distance         *float64      `json:"distance,omitempty"`
	Calories         *int          `json:"calories,omitempty"`
	AverageHeartRate *int          `json:"average_heart_rate,omitempty"`
	MaximumHeartRate *int          `json:"maximum_heart_rate,omitempty"`
	AverageSpeed     *float64      `json:"average_speed,omitempty"`
	MaximumSpeed     *float64      `json:"maximum_speed,omitempty"`
	Intensity        string        `json:"intensity,omitempty"`
	Color            string        `json:"color,omitempty"`
	LightColor       string        `json:"light_color,omitempty"`
	Points           []PointOutput `json:"points,omitempty"`
}

// ActivityOutput describes an activity. Laps are omitted from list views.
type ActivityOutput struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Sport        string        `json:"sport,omitempty"`
	Device       string        `json:"device,omitempty"`
	SourceFormat string        `json:"source_format"`
	Date         time.Time     `json:"date"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Summary      SummaryOutput `json:"summary"`
	Laps         []LapOutput   `json:"laps,omitempty"`
}

// ListActivitiesOutput defines output for list_activities and the
// activities resource.
type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
	Count      int              `json:"count"`
}

func summaryOutput(a *models.Activity) SummaryOutput {
	s := activities.Summarize(a)
	return SummaryOutput{
		Laps:             s.Laps,
		Points:           s.Points,
		DistanceMetres:   s.Distance,
		DurationSeconds:  s.Duration.Seconds(),
		Calories:         s.Calories,
		MaximumHeartRate: s.MaximumHeartRate,
		MaximumSpeed:     s.MaximumSpeed,
		AverageSpeed:     s.AverageSpeed,
	}
}

func activityOutput(a *models.Activity, withLaps, withPoints bool) ActivityOutput {
	out := ActivityOutput{
		ID:           a.ID.String(),
		Name:         a.Name,
		Sport:        a.Sport,
		Device:       a.Device,
		SourceFormat: a.SourceFormat,
		Date:         a.Date,
		UpdatedAt:    a.UpdatedAt,
		Summary:      summaryOutput(a),
	}
	if !withLaps {
		return out
	}
	out.Laps = make([]LapOutput, len(a.Laps))
	for i := range a.Laps {
		out.Laps[i] = lapOutput(&a.Laps[i], withPoints)
	}
	return out
}

func lapOutput(l *models.Lap, withPoints bool) LapOutput {
	out := LapOutput{
		Index:            l.Index,
		StartTime:        l.StartTime,
		StartTimeMillis:  l.StartTime.UnixMilli(),
		PointCount:       len(l.Tracks),
		TotalTime:        l.TotalTime,
		Distance:         l.Distance,
		Calories:         l.Calories,
		AverageHeartRate: l.AverageHeartRate,
		MaximumHeartRate: l.MaximumHeartRate,
		AverageSpeed:     l.AverageSpeed,
		MaximumSpeed:     l.MaximumSpeed,
		Intensity:        l.Intensity,
		Color:            l.Color,
		LightColor:       l.LightColor,
	}
	if !withPoints {
		return out
	}
	out.Points = make([]PointOutput, len(l.Tracks))
	for i := range l.Tracks {
		t := &l.Tracks[i]
		p := PointOutput{
			Index:      t.Index,
			Time:       t.Time,
			TimeMillis: t.TimeMillis(),
			Altitude:   t.Altitude,
			Distance:   t.Distance,
			Speed:      t.Speed,
			HeartRate:  t.HeartRate,
		}
		if t.Position != nil {
			p.Latitude = models.Float(t.Position.Latitude)
			p.Longitude = models.Float(t.Position.Longitude)
		}
		out.Points[i] = p
	}
	return out
}

func listOutput(all []*models.Activity) ListActivitiesOutput {
	out := ListActivitiesOutput{Activities: make([]ActivityOutput, len(all)), Count: len(all)}
	for i, a := range all {
		out.Activities[i] = activityOutput(a, false, false)
	}
	return out
}

// textResult renders output as indented JSON text content.
func textResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}
