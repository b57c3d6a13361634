package app

import (
	"rangedeck/internal/domain"
)

// ============================================================
// Rooms
// ============================================================

func (a *App) ListRooms() ([]domain.Room, error) {
	return a.rooms.ListRooms()
}

func (a *App) CreateRoom(name string) (*domain.Room, error) {
	return a.rooms.CreateRoom(a.ctx, name)
}

func (a *App) RenameRoom(id, name string) error {
	return a.rooms.RenameRoom(a.ctx, id, name)
}

func (a *App) SetRoomIcon(id, icon string) error {
	return a.rooms.SetRoomIcon(a.ctx, id, icon)
}

func (a *App) DeleteRoom(id string) error {
	if id == a.activeRoomID {
		a.activeRoomID = ""
		a.session.Reset()
	}
	return a.rooms.DeleteRoom(a.ctx, id)
}

// ============================================================
// Device sources and inventory
// ============================================================

// DeviceSourceInput is the frontend input for creating/updating a device
// source. The password travels separately from the stored metadata.
type DeviceSourceInput struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	Table    string `json:"table"`
}

func (a *App) ListDeviceSources() ([]domain.DeviceSource, error) {
	return a.devices.ListSources()
}

func (a *App) CreateDeviceSource(input DeviceSourceInput) (*domain.DeviceSource, error) {
	return a.devices.CreateSource(&domain.DeviceSource{
		Name:     input.Name,
		Driver:   domain.DeviceDriver(input.Driver),
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
		Table:    input.Table,
	}, input.Password)
}

func (a *App) UpdateDeviceSource(id string, input DeviceSourceInput) error {
	return a.devices.UpdateSource(&domain.DeviceSource{
		ID:       id,
		Name:     input.Name,
		Driver:   domain.DeviceDriver(input.Driver),
		Host:     input.Host,
		Port:     input.Port,
		Database: input.Database,
		Username: input.Username,
		SSLMode:  input.SSLMode,
		Table:    input.Table,
	}, input.Password)
}

func (a *App) DeleteDeviceSource(id string) error {
	return a.devices.DeleteSource(id)
}

func (a *App) TestDeviceSource(id string) error {
	return a.devices.TestSource(a.ctx, id)
}

func (a *App) RefreshDevices() ([]domain.TargetDevice, error) {
	return a.devices.RefreshInventory(a.ctx)
}

func (a *App) ListDevices() ([]domain.TargetDevice, error) {
	return a.devices.ListDevices()
}

// ListUnplacedDevices returns devices without a marker in the open room.
func (a *App) ListUnplacedDevices() ([]domain.TargetDevice, error) {
	return a.devices.ListUnplacedDevices(a.session.Snapshot())
}
