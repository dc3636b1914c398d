//go:build sqlite_cgo

package sqlite

// Built with CGO_ENABLED=1 go build -tags sqlite_cgo ./...
// Driver: github.com/mattn/go-sqlite3.

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver registered by this build.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)
