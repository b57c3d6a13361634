package devicedb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"rangedeck/internal/domain"
)

// sqlConnector is the shared implementation for SQLite, MySQL, and Postgres.
type sqlConnector struct {
	driverName string
	table      string
	db         *sql.DB
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// newSQLConnector creates a generic SQL connector reading devices from the
// named table. The table name is interpolated into queries, so it is
// restricted to a plain identifier.
func newSQLConnector(driverName, dsn, table string) (*sqlConnector, error) {
	if table == "" {
		table = "devices"
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid device table name: %q", table)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConnector{driverName: driverName, table: table, db: db}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *sqlConnector) FetchDevices(ctx context.Context) ([]domain.TargetDevice, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT device_id, name, status, last_seen FROM %s`, c.table))
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.TargetDevice
	for rows.Next() {
		var (
			d        domain.TargetDevice
			name     sql.NullString
			status   sql.NullString
			lastSeen sql.NullTime
		)
		if err := rows.Scan(&d.DeviceID, &name, &status, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		d.Name = name.String
		d.Status = normalizeStatus(status.String)
		if lastSeen.Valid {
			d.LastSeen = lastSeen.Time
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}

// normalizeStatus maps arbitrary inventory status strings onto the three
// states the editor understands.
func normalizeStatus(s string) domain.DeviceStatus {
	switch domain.DeviceStatus(s) {
	case domain.DeviceStatusOnline, domain.DeviceStatusOffline:
		return domain.DeviceStatus(s)
	default:
		return domain.DeviceStatusUnknown
	}
}
