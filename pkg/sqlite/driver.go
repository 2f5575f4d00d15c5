// Package sqlite registers the SQLite drivers the catalog can run on and builds
// their connection strings.
package sqlite

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite, usable with CGO_ENABLED=0.
	DriverPure = "sqlite"

	MemoryPath = ":memory:"

	busyTimeoutMillis = 5000
)

// DSN returns the data source name for path with WAL and a busy timeout applied.
// The two drivers spell pragmas differently.
func DSN(driver, path string) (string, error) {
	if path == MemoryPath {
		return path, nil
	}

	switch driver {
	case DriverCGO:
		return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on", path, busyTimeoutMillis), nil
	case DriverPure:
		return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", path, busyTimeoutMillis), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (want %q or %q)", driver, DriverCGO, DriverPure)
	}
}

// IsBusyError reports SQLITE_BUSY / "database is locked" failures from either driver.
// Both are transient lock contention that a short retry resolves.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// IsUniqueViolation reports a UNIQUE constraint failure from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
