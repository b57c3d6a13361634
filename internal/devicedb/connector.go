package devicedb

import (
	"context"
	"fmt"

	"rangedeck/internal/domain"
)

// Connector abstracts one external device inventory database. A site keeps
// its target fleet in whatever engine it already runs; the editor only
// needs to read the device rows out of it.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// FetchDevices reads the full device inventory.
	FetchDevices(ctx context.Context) ([]domain.TargetDevice, error)

	// Close closes the connection.
	Close() error
}

// NewConnector creates a Connector for the given device source.
// The password must be provided separately (from SecretStore).
func NewConnector(src *domain.DeviceSource, password string) (Connector, error) {
	switch src.Driver {
	case domain.DeviceDriverSQLite:
		return newSQLConnector("sqlite", src.Host, src.Table)
	case domain.DeviceDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(src, password), src.Table)
	case domain.DeviceDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(src, password), src.Table)
	case domain.DeviceDriverMongoDB:
		return newMongoConnector(src, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", src.Driver)
	}
}
