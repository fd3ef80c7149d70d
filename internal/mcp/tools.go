// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents inspect activities and apply lap and point edits

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/trackedit/internal/edit"
	"github.com/harper/trackedit/internal/models"
)

func (s *Server) registerTools() {
	s.registerListActivitiesTool()
	s.registerGetActivityTool()
	s.registerRemovePointTool()
	s.registerSplitLapTool()
	s.registerJoinLapsTool()
	s.registerRemoveLapsTool()
	s.registerSetLapColorsTool()
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var activityIDProp = prop("string", "Activity ID, or a unique prefix of it")

func pointProps() map[string]interface{} {
	return map[string]interface{}{
		"id":    activityIDProp,
		"lat":   prop("string", "Latitude of the point, exactly as stored"),
		"lng":   prop("string", "Longitude of the point, exactly as stored"),
		"time":  prop("string", "Point time in epoch milliseconds"),
		"index": prop("string", "Point index; used when time does not match"),
	}
}

func (s *Server) resolve(ref string) (uuid.UUID, error) {
	id, err := s.svc.Resolve(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("activity '%s': %w", ref, err)
	}
	return id, nil
}

func (s *Server) editResult(op string, a *models.Activity, err error) (*mcp.CallToolResult, ActivityOutput, error) {
	if err != nil {
		s.logger.Warn("tool failed", "tool", op, "err", err)
		return nil, ActivityOutput{}, fmt.Errorf("%s: %w", op, err)
	}
	output := activityOutput(a, true, false)
	return textResult(output), output, nil
}

// ListActivitiesInput is empty but required for type.
type ListActivitiesInput struct{}

func (s *Server) registerListActivitiesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_activities",
		Description: "List all stored activities, most recent first, with summary statistics.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListActivities)
}

func (s *Server) handleListActivities(_ context.Context, _ *mcp.CallToolRequest, _ ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	all, err := s.svc.List()
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}
	output := listOutput(all)
	return textResult(output), output, nil
}

// GetActivityInput defines input for get_activity tool.
type GetActivityInput struct {
	ID            string `json:"id"`
	IncludePoints bool   `json:"include_points,omitempty"`
}

func (s *Server) registerGetActivityTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_activity",
		Description: "Get an activity with its laps. Set include_points to also return every track point, which is needed to address points in edits.",
		InputSchema: objectSchema(map[string]interface{}{
			"id":             activityIDProp,
			"include_points": prop("boolean", "Include track points for every lap"),
		}, "id"),
	}, s.handleGetActivity)
}

func (s *Server) handleGetActivity(_ context.Context, _ *mcp.CallToolRequest, input GetActivityInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.Get(id)
	if err != nil {
		return nil, ActivityOutput{}, fmt.Errorf("failed to get activity: %w", err)
	}
	output := activityOutput(a, true, input.IncludePoints)
	return textResult(output), output, nil
}

// PointInput addresses one track point of an activity.
type PointInput struct {
	ID    string `json:"id"`
	Lat   string `json:"lat"`
	Lng   string `json:"lng"`
	Time  string `json:"time,omitempty"`
	Index string `json:"index,omitempty"`
}

func (in PointInput) params() edit.PointParams {
	return edit.PointParams{Latitude: in.Lat, Longitude: in.Lng, TimeMillis: in.Time, Index: in.Index}
}

func (s *Server) registerRemovePointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_point",
		Description: "Remove one track point. A lap left empty is removed; distances, speeds and lap statistics are recomputed.",
		InputSchema: objectSchema(pointProps(), "id", "lat", "lng"),
	}, s.handleRemovePoint)
}

func (s *Server) handleRemovePoint(_ context.Context, _ *mcp.CallToolRequest, input PointInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.RemovePoint(id, input.params())
	return s.editResult("remove_point", a, err)
}

func (s *Server) registerSplitLapTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "split_lap",
		Description: "Split a lap in two at a point. The point starts the second lap and must not be the first or last point of its lap.",
		InputSchema: objectSchema(pointProps(), "id", "lat", "lng"),
	}, s.handleSplitLap)
}

func (s *Server) handleSplitLap(_ context.Context, _ *mcp.CallToolRequest, input PointInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.SplitLap(id, input.params())
	return s.editResult("split_lap", a, err)
}

// JoinLapsInput defines input for join_laps tool.
type JoinLapsInput struct {
	ID     string `json:"id"`
	First  *int   `json:"first"`
	Second *int   `json:"second"`
}

func (s *Server) registerJoinLapsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "join_laps",
		Description: "Merge two adjacent laps into one placed at the lower index. Order of the two indices does not matter.",
		InputSchema: objectSchema(map[string]interface{}{
			"id":     activityIDProp,
			"first":  prop("integer", "Index of one lap"),
			"second": prop("integer", "Index of the other lap"),
		}, "id", "first", "second"),
	}, s.handleJoinLaps)
}

func (s *Server) handleJoinLaps(_ context.Context, _ *mcp.CallToolRequest, input JoinLapsInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.JoinLaps(id, input.First, input.Second)
	return s.editResult("join_laps", a, err)
}

// RemoveLapsInput defines input for remove_laps tool. StartTimes, when
// given, pairs with Indices; a blank entry matches on index alone.
type RemoveLapsInput struct {
	ID         string   `json:"id"`
	Indices    []int    `json:"indices"`
	StartTimes []string `json:"start_times,omitempty"`
}

func (s *Server) registerRemoveLapsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_laps",
		Description: "Remove laps by index, optionally confirmed by each lap's start time in epoch milliseconds. Remaining laps are renumbered.",
		InputSchema: objectSchema(map[string]interface{}{
			"id": activityIDProp,
			"indices": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "integer"},
				"description": "Indices of the laps to remove",
			},
			"start_times": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Start times paired with indices, epoch milliseconds; blank skips the check",
			},
		}, "id", "indices"),
	}, s.handleRemoveLaps)
}

func (s *Server) handleRemoveLaps(_ context.Context, _ *mcp.CallToolRequest, input RemoveLapsInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	startTimes, err := edit.ParseStartTimes(input.StartTimes)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.RemoveLaps(id, startTimes, input.Indices)
	return s.editResult("remove_laps", a, err)
}

// SetLapColorsInput defines input for set_lap_colors tool.
type SetLapColorsInput struct {
	ID     string `json:"id"`
	Lap    int    `json:"lap"`
	Colors string `json:"colors"`
}

func (s *Server) registerSetLapColorsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_lap_colors",
		Description: "Set a lap's display colors from 'primary-secondary' hex values without '#', e.g. 'ff0000-ffcccc'.",
		InputSchema: objectSchema(map[string]interface{}{
			"id":     activityIDProp,
			"lap":    prop("integer", "Lap index"),
			"colors": prop("string", "Colors as 'primary-secondary'"),
		}, "id", "lap", "colors"),
	}, s.handleSetLapColors)
}

func (s *Server) handleSetLapColors(_ context.Context, _ *mcp.CallToolRequest, input SetLapColorsInput) (*mcp.CallToolResult, ActivityOutput, error) {
	id, err := s.resolve(input.ID)
	if err != nil {
		return nil, ActivityOutput{}, err
	}
	a, err := s.svc.SetLapColors(id, input.Lap, strings.TrimPrefix(input.Colors, "#"))
	return s.editResult("set_lap_colors", a, err)
}
