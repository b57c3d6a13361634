package storage

import (
	"fmt"
	"time"

	"rangedeck/internal/domain"
)

// RoomStore implements domain.RoomStore using SQLite.
type RoomStore struct {
	db *DB
}

func NewRoomStore(db *DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) CreateRoom(r *domain.Room) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO rooms (id, name, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Icon, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *RoomStore) GetRoom(id string) (*domain.Room, error) {
	r := &domain.Room{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, icon, created_at, updated_at FROM rooms WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Icon, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return r, nil
}

func (s *RoomStore) ListRooms() ([]domain.Room, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, icon, created_at, updated_at FROM rooms ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var r domain.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Icon, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *RoomStore) UpdateRoom(r *domain.Room) error {
	r.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE rooms SET name = ?, icon = ?, updated_at = ? WHERE id = ?`,
		r.Name, r.Icon, r.UpdatedAt, r.ID,
	)
	return err
}

func (s *RoomStore) DeleteRoom(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM rooms WHERE id = ?`, id)
	return err
}
