package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/storyteller.space/internal/engine"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Storyteller Dice MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over the dice engine.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server exposing the engine's tools.
func New(eng *engine.Engine) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, RollTool(), RollHandler(eng))
	mcp.AddTool(mcpServer, InitiativeTool(), InitiativeHandler(eng))
	mcp.AddTool(mcpServer, MacroListTool(), MacroListHandler(eng))
	mcp.AddTool(mcpServer, MacroDeleteAllTool(), MacroDeleteAllHandler(eng))
	mcp.AddTool(mcpServer, SettingsGetTool(), SettingsGetHandler(eng))
	mcp.AddTool(mcpServer, SettingsSetTool(), SettingsSetHandler(eng))

	return &Server{mcpServer: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends. Context cancellation is a clean shutdown, not an error.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
