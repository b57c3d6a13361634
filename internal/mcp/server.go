package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rangedeck/internal/service"
)

// EventEmitter mirrors service.EventEmitter so the MCP server can notify
// the frontend without importing wailsRuntime.
type EventEmitter = service.EventEmitter

// Server is the MCP server for the layout editor. It exposes tools so AI
// agents can inspect rooms, read layouts, and place target markers.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter

	// Services (injected from app layer)
	rooms   *service.RoomService
	layouts *service.LayoutService
	devices *service.DeviceService

	// Active room context (set by set_active_room tool)
	activeRoomID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter EventEmitter
	Rooms   *service.RoomService
	Layouts *service.LayoutService
	Devices *service.DeviceService
}

// New creates and configures a new MCP server with all tools.
func New(ctx context.Context, deps Deps) *Server {
	s := &Server{
		emitter: deps.Emitter,
		rooms:   deps.Rooms,
		layouts: deps.Layouts,
		devices: deps.Devices,
	}

	s.mcp = server.NewMCPServer(
		"rangedeck-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerRoomTools()
	s.registerLayoutTools()
	s.registerDeviceTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitLayoutChanged notifies the frontend that a room's layout changed.
func (s *Server) emitLayoutChanged(ctx context.Context, roomID string) {
	s.emitter.Emit(ctx, "mcp:layout-changed", map[string]string{"roomId": roomID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveRoomID returns the roomId from tool args or falls back to the
// active room.
func (s *Server) resolveRoomID(req mcp.CallToolRequest) (string, error) {
	if rid := req.GetString("roomId", ""); rid != "" {
		return rid, nil
	}
	if s.activeRoomID != "" {
		return s.activeRoomID, nil
	}
	return "", fmt.Errorf("no roomId provided and no active room set (use set_active_room first)")
}
