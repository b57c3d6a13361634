package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rangedeck/internal/domain"
)

// LayoutStore implements domain.LayoutStore using SQLite. Layouts are
// stored as one JSON document per room.
type LayoutStore struct {
	db *DB
}

func NewLayoutStore(db *DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// SaveLayout upserts the room's layout. Calling it twice with the same
// arguments leaves the same single row behind.
func (s *LayoutStore) SaveLayout(roomID string, layout domain.Layout, viewport domain.Viewport) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	_, err = s.db.conn.Exec(
		`INSERT INTO room_layouts (room_id, layout_json, viewport_x, viewport_y, viewport_scale, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(room_id) DO UPDATE SET
			layout_json = excluded.layout_json,
			viewport_x = excluded.viewport_x,
			viewport_y = excluded.viewport_y,
			viewport_scale = excluded.viewport_scale,
			updated_at = excluded.updated_at`,
		roomID, string(data), viewport.X, viewport.Y, viewport.Scale, time.Now(),
	)
	return err
}

// LoadLayout returns the room's stored layout, or (nil, nil) when the room
// has no layout yet.
func (s *LayoutStore) LoadLayout(roomID string) (*domain.RoomLayout, error) {
	var (
		layoutJSON string
		rl         = domain.RoomLayout{RoomID: roomID}
	)
	err := s.db.conn.QueryRow(
		`SELECT layout_json, viewport_x, viewport_y, viewport_scale, updated_at FROM room_layouts WHERE room_id = ?`,
		roomID,
	).Scan(&layoutJSON, &rl.Viewport.X, &rl.Viewport.Y, &rl.Viewport.Scale, &rl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if err := json.Unmarshal([]byte(layoutJSON), &rl.Layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &rl, nil
}

func (s *LayoutStore) DeleteLayout(roomID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM room_layouts WHERE room_id = ?`, roomID)
	return err
}

// RecoverySnapshot is one periodic crash-recovery copy of a room's layout.
type RecoverySnapshot struct {
	ID        string        `json:"id"`
	RoomID    string        `json:"roomId"`
	Layout    domain.Layout `json:"layout"`
	CreatedAt time.Time     `json:"createdAt"`
}

// SaveRecoverySnapshot records a recovery copy and prunes old ones, keeping
// the most recent `keep` snapshots per room.
func (s *LayoutStore) SaveRecoverySnapshot(id, roomID string, layout domain.Layout, keep int) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := s.db.conn.Exec(
		`INSERT INTO recovery_snapshots (id, room_id, layout_json, created_at) VALUES (?, ?, ?, ?)`,
		id, roomID, string(data), time.Now(),
	); err != nil {
		return err
	}
	if keep <= 0 {
		return nil
	}
	_, err = s.db.conn.Exec(
		`DELETE FROM recovery_snapshots WHERE room_id = ? AND id NOT IN (
			SELECT id FROM recovery_snapshots WHERE room_id = ? ORDER BY created_at DESC LIMIT ?
		)`,
		roomID, roomID, keep,
	)
	return err
}

// LatestRecoverySnapshot returns the newest recovery copy for a room, or
// (nil, nil) when none exists.
func (s *LayoutStore) LatestRecoverySnapshot(roomID string) (*RecoverySnapshot, error) {
	var (
		layoutJSON string
		snap       = RecoverySnapshot{RoomID: roomID}
	)
	err := s.db.conn.QueryRow(
		`SELECT id, layout_json, created_at FROM recovery_snapshots WHERE room_id = ? ORDER BY created_at DESC LIMIT 1`,
		roomID,
	).Scan(&snap.ID, &layoutJSON, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recovery snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(layoutJSON), &snap.Layout); err != nil {
		return nil, fmt.Errorf("decode recovery snapshot: %w", err)
	}
	return &snap, nil
}

// DeleteRecoverySnapshots drops all recovery copies for a room.
func (s *LayoutStore) DeleteRecoverySnapshots(roomID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM recovery_snapshots WHERE room_id = ?`, roomID)
	return err
}
