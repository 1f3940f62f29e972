package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aawilson/rputils/internal/services/roller"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server.
	serverName = "rputils-dice"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server wraps an MCP server with the dice tools registered.
type Server struct {
	mcpServer *mcp.Server
}

// New builds a Server whose tools roll through svc.
func New(svc *roller.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("roller service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, RollNotationTool(), RollNotationHandler(svc))
	return &Server{mcpServer: mcpServer}, nil
}

// ServeStdio serves MCP over the process stdin/stdout until ctx ends.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve runs the MCP server on transport until ctx ends or the peer disconnects.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
