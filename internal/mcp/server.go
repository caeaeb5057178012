// ABOUTME: MCP server setup for the gymlog workout tracker.
// ABOUTME: Wraps MCP server with storage Repository and session manager access.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage and session access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	sessions  *session.Manager
	logger    *log.Logger
}

// NewServer creates a new MCP server over repo and sessions.
func NewServer(repo storage.Repository, sessions *session.Manager, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gymlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		sessions:  sessions,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
