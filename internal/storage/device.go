package storage

import (
	"database/sql"
	"fmt"
	"time"

	"rangedeck/internal/domain"
)

// DeviceSourceStore implements domain.DeviceSourceStore using SQLite.
// Passwords never touch this table; they live in the system keychain.
type DeviceSourceStore struct {
	db *DB
}

func NewDeviceSourceStore(db *DB) *DeviceSourceStore {
	return &DeviceSourceStore{db: db}
}

func (s *DeviceSourceStore) CreateSource(src *domain.DeviceSource) error {
	now := time.Now()
	src.CreatedAt = now
	src.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO device_sources (id, name, driver, host, port, database_name, username, ssl_mode, device_table, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.Driver, src.Host, src.Port, src.Database, src.Username, src.SSLMode, src.Table, src.CreatedAt, src.UpdatedAt,
	)
	return err
}

func (s *DeviceSourceStore) GetSource(id string) (*domain.DeviceSource, error) {
	src := &domain.DeviceSource{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, device_table, created_at, updated_at
		 FROM device_sources WHERE id = ?`, id,
	).Scan(&src.ID, &src.Name, &src.Driver, &src.Host, &src.Port, &src.Database, &src.Username, &src.SSLMode, &src.Table, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get device source: %w", err)
	}
	return src, nil
}

func (s *DeviceSourceStore) ListSources() ([]domain.DeviceSource, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, device_table, created_at, updated_at
		 FROM device_sources ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []domain.DeviceSource
	for rows.Next() {
		var src domain.DeviceSource
		if err := rows.Scan(&src.ID, &src.Name, &src.Driver, &src.Host, &src.Port, &src.Database, &src.Username, &src.SSLMode, &src.Table, &src.CreatedAt, &src.UpdatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (s *DeviceSourceStore) UpdateSource(src *domain.DeviceSource) error {
	src.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE device_sources SET name = ?, driver = ?, host = ?, port = ?, database_name = ?, username = ?, ssl_mode = ?, device_table = ?, updated_at = ? WHERE id = ?`,
		src.Name, src.Driver, src.Host, src.Port, src.Database, src.Username, src.SSLMode, src.Table, src.UpdatedAt, src.ID,
	)
	return err
}

func (s *DeviceSourceStore) DeleteSource(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM device_sources WHERE id = ?`, id)
	return err
}

// DeviceCacheStore implements domain.DeviceCacheStore using SQLite.
type DeviceCacheStore struct {
	db *DB
}

func NewDeviceCacheStore(db *DB) *DeviceCacheStore {
	return &DeviceCacheStore{db: db}
}

// ReplaceDevices swaps the whole cache for the freshly fetched inventory.
func (s *DeviceCacheStore) ReplaceDevices(devices []domain.TargetDevice) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM device_cache`); err != nil {
		return err
	}
	for _, d := range devices {
		if _, err := tx.Exec(
			`INSERT INTO device_cache (device_id, name, status, last_seen) VALUES (?, ?, ?, ?)`,
			d.DeviceID, d.Name, d.Status, d.LastSeen,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *DeviceCacheStore) ListDevices() ([]domain.TargetDevice, error) {
	rows, err := s.db.conn.Query(`SELECT device_id, name, status, last_seen FROM device_cache ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.TargetDevice
	for rows.Next() {
		var (
			d        domain.TargetDevice
			lastSeen sql.NullTime
		)
		if err := rows.Scan(&d.DeviceID, &d.Name, &d.Status, &lastSeen); err != nil {
			return nil, err
		}
		if lastSeen.Valid {
			d.LastSeen = lastSeen.Time
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}
