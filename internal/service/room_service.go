package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rangedeck/internal/domain"
	"rangedeck/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Room Service — business logic for range rooms
// ─────────────────────────────────────────────────────────────

// RoomService manages the rooms whose floor plans can be edited.
type RoomService struct {
	store   *storage.RoomStore
	layouts *LayoutService
	emitter EventEmitter
}

// NewRoomService creates a RoomService.
func NewRoomService(store *storage.RoomStore, layouts *LayoutService, emitter EventEmitter) *RoomService {
	return &RoomService{store: store, layouts: layouts, emitter: emitter}
}

func (s *RoomService) ListRooms() ([]domain.Room, error) {
	return s.store.ListRooms()
}

func (s *RoomService) GetRoom(id string) (*domain.Room, error) {
	return s.store.GetRoom(id)
}

func (s *RoomService) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	r := &domain.Room{
		ID:   uuid.New().String(),
		Name: name,
		Icon: "🎯",
	}
	if err := s.store.CreateRoom(r); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.emitter.Emit(ctx, "room:created", r)
	return r, nil
}

func (s *RoomService) RenameRoom(ctx context.Context, id, name string) error {
	r, err := s.store.GetRoom(id)
	if err != nil {
		return err
	}
	r.Name = name
	if err := s.store.UpdateRoom(r); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "room:updated", r)
	return nil
}

func (s *RoomService) SetRoomIcon(ctx context.Context, id, icon string) error {
	r, err := s.store.GetRoom(id)
	if err != nil {
		return err
	}
	r.Icon = icon
	if err := s.store.UpdateRoom(r); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "room:updated", r)
	return nil
}

// DeleteRoom removes the room along with its stored layout and recovery
// snapshots.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.layouts.DeleteLayout(id); err != nil {
		return err
	}
	if err := s.store.DeleteRoom(id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "room:deleted", id)
	return nil
}
