// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes activity editing tools and resources to AI agents

package mcp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/trackedit/internal/edit"
)

// Server wraps the MCP server around the editing service.
type Server struct {
	mcp    *mcp.Server
	svc    *edit.Service
	logger *log.Logger
}

// NewServer creates MCP server with all capabilities.
func NewServer(svc *edit.Service, logger *log.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("edit service is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trackedit",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		svc:    svc,
		logger: logger.WithPrefix("mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
