//go:build !purego

package storage

// Default build: github.com/mattn/go-sqlite3, requires CGO.

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
