package domain

import "time"

// DeviceStatus is the last known reachability of a target device.
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
	DeviceStatusUnknown DeviceStatus = "unknown"
)

// TargetDevice is a networked shooting target known to the installation.
// The editor only uses it to populate "unplaced target" choices; it does
// not validate that a placed marker's device still exists.
type TargetDevice struct {
	DeviceID string       `json:"deviceId"`
	Name     string       `json:"name"`
	Status   DeviceStatus `json:"status"`
	LastSeen time.Time    `json:"lastSeen"`
}

// DeviceDriver identifies the database engine a device inventory lives in.
type DeviceDriver string

const (
	DeviceDriverSQLite   DeviceDriver = "sqlite"
	DeviceDriverMySQL    DeviceDriver = "mysql"
	DeviceDriverPostgres DeviceDriver = "postgres"
	DeviceDriverMongoDB  DeviceDriver = "mongodb"
)

// DeviceSource holds the metadata for connecting to a site's device
// inventory database. The password is stored separately in the SecretStore.
type DeviceSource struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Driver    DeviceDriver `json:"driver"`
	Host      string       `json:"host"`     // hostname or file path (sqlite)
	Port      int          `json:"port"`     // 0 for sqlite
	Database  string       `json:"database"` // db name, empty for sqlite
	Username  string       `json:"username"`
	SSLMode   string       `json:"sslMode"`
	Table     string       `json:"table"` // table/collection holding devices
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// DeviceSourceStore manages device source records.
type DeviceSourceStore interface {
	CreateSource(s *DeviceSource) error
	GetSource(id string) (*DeviceSource, error)
	ListSources() ([]DeviceSource, error)
	UpdateSource(s *DeviceSource) error
	DeleteSource(id string) error
}

// DeviceCacheStore caches the merged device inventory locally so the
// editor works when inventory databases are unreachable.
type DeviceCacheStore interface {
	ReplaceDevices(devices []TargetDevice) error
	ListDevices() ([]TargetDevice, error)
}
