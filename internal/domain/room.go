package domain

import "time"

// Room is one physical range room whose floor plan can be edited.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomStore manages room records.
type RoomStore interface {
	CreateRoom(r *Room) error
	GetRoom(id string) (*Room, error)
	ListRooms() ([]Room, error)
	UpdateRoom(r *Room) error
	DeleteRoom(id string) error
}

// RoomLayout is a stored layout plus the viewport the operator left it at.
type RoomLayout struct {
	RoomID    string    `json:"roomId"`
	Layout    Layout    `json:"layout"`
	Viewport  Viewport  `json:"viewport"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LayoutStore persists room layouts. Save must be idempotent under retry;
// Load returns (nil, nil) when the room has no layout yet.
type LayoutStore interface {
	SaveLayout(roomID string, layout Layout, viewport Viewport) error
	LoadLayout(roomID string) (*RoomLayout, error)
	DeleteLayout(roomID string) error
}
