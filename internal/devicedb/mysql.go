package devicedb

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"rangedeck/internal/domain"
)

// buildMySQLDSN constructs a MySQL DSN from a DeviceSource.
func buildMySQLDSN(src *domain.DeviceSource, password string) string {
	port := src.Port
	if port == 0 {
		port = 3306
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		src.Username, password, src.Host, port, src.Database,
	)
	if src.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}
