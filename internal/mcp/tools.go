package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"rangedeck/internal/domain"
	"rangedeck/internal/editor"
	"rangedeck/internal/geometry"
)

func (s *Server) registerRoomTools() {
	// ── list_rooms ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_rooms",
		mcp.WithDescription("List all range rooms"),
	), s.handleListRooms)

	// ── create_room ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_room",
		mcp.WithDescription("Create a new range room"),
		mcp.WithString("name",
			mcp.Description("Name of the new room"),
			mcp.Required(),
		),
	), s.handleCreateRoom)

	// ── set_active_room ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_room",
		mcp.WithDescription("Set the active room for subsequent tool calls. Tools that accept roomId will default to this."),
		mcp.WithString("roomId",
			mcp.Description("ID of the room to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveRoom)
}

func (s *Server) registerLayoutTools() {
	// ── get_layout ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_layout",
		mcp.WithDescription("Get a room's floor plan: walls, doors, windows, and placed targets"),
		mcp.WithString("roomId",
			mcp.Description("ID of the room (defaults to the active room)"),
		),
	), s.handleGetLayout)

	// ── place_target ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("place_target",
		mcp.WithDescription("Place a target device marker on a room's floor plan. The position snaps to the layout grid."),
		mcp.WithString("deviceId",
			mcp.Description("ID of the target device to place"),
			mcp.Required(),
		),
		mcp.WithNumber("x",
			mcp.Description("X position on the canvas"),
			mcp.Required(),
		),
		mcp.WithNumber("y",
			mcp.Description("Y position on the canvas"),
			mcp.Required(),
		),
		mcp.WithString("label",
			mcp.Description("Optional display label for the marker"),
		),
		mcp.WithString("roomId",
			mcp.Description("ID of the room (defaults to the active room)"),
		),
	), s.handlePlaceTarget)
}

func (s *Server) registerDeviceTools() {
	// ── list_devices ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_devices",
		mcp.WithDescription("List the cached target device inventory"),
	), s.handleListDevices)

	// ── refresh_devices ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("refresh_devices",
		mcp.WithDescription("Refresh the device inventory from all configured sources"),
	), s.handleRefreshDevices)
}

func (s *Server) handleListRooms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rooms, err := s.rooms.ListRooms()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return jsonResult(rooms)
}

func (s *Server) handleCreateRoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	room, err := s.rooms.CreateRoom(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	// Auto-set as active room
	s.activeRoomID = room.ID
	return jsonResult(room)
}

func (s *Server) handleSetActiveRoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID := req.GetString("roomId", "")
	if roomID == "" {
		return nil, fmt.Errorf("roomId is required")
	}
	if _, err := s.rooms.GetRoom(roomID); err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	s.activeRoomID = roomID
	return textResult(fmt.Sprintf("Active room set to %s", roomID)), nil
}

func (s *Server) handleGetLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := s.resolveRoomID(req)
	if err != nil {
		return nil, err
	}
	rl, err := s.layouts.LoadLayout(roomID)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if rl == nil {
		return jsonResult(editor.NormalizeLayout(domain.Layout{}))
	}
	return jsonResult(editor.NormalizeLayout(rl.Layout))
}

func (s *Server) handlePlaceTarget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := s.resolveRoomID(req)
	if err != nil {
		return nil, err
	}
	deviceID := req.GetString("deviceId", "")
	if deviceID == "" {
		return nil, fmt.Errorf("deviceId is required")
	}
	x := req.GetFloat("x", 0)
	y := req.GetFloat("y", 0)
	label := req.GetString("label", "")

	rl, err := s.layouts.LoadLayout(roomID)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	layout := domain.Layout{}
	viewport := domain.Viewport{Scale: 1}
	if rl != nil {
		layout = rl.Layout
		viewport = rl.Viewport
	}
	layout = editor.NormalizeLayout(layout)

	target := domain.PlacedTarget{
		ID:             uuid.New().String(),
		TargetDeviceID: deviceID,
		X:              geometry.SnapToGrid(x, layout.GridSize),
		Y:              geometry.SnapToGrid(y, layout.GridSize),
		Label:          label,
	}
	layout.Targets = append(layout.Targets, target)

	if err := s.layouts.SaveLayout(ctx, roomID, layout, viewport); err != nil {
		return nil, fmt.Errorf("save layout: %w", err)
	}
	s.emitLayoutChanged(ctx, roomID)
	return jsonResult(target)
}

func (s *Server) handleListDevices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.devices.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if devices == nil {
		devices = []domain.TargetDevice{}
	}
	return jsonResult(devices)
}

func (s *Server) handleRefreshDevices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.devices.RefreshInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh devices: %w", err)
	}
	return textResult(fmt.Sprintf("Refreshed %d devices", len(devices))), nil
}
