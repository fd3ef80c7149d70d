// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only activity listing for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const activitiesURI = "trackedit://activities"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        activitiesURI,
		Description: "All stored activities with their summary statistics",
		URI:         activitiesURI,
		MIMEType:    "application/json",
	}, s.handleActivitiesResource)
}

func (s *Server) handleActivitiesResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	all, err := s.svc.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	jsonBytes, _ := json.MarshalIndent(listOutput(all), "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      activitiesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
