// ABOUTME: MCP server setup for the healthlife tracker.
// ABOUTME: Wraps MCP server with the hydration, gym and measurement adapters.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tr        *tracker.Tracker
}

// NewServer creates a new MCP server over tr.
func NewServer(tr *tracker.Tracker) (*Server, error) {
	if tr == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthlife",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tr:        tr,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// day resolves an optional YYYY-MM-DD argument; empty means now.
func (s *Server) day(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return s.tr.Calendar.Now(), nil
	}
	return s.tr.Calendar.ParseDay(date)
}
