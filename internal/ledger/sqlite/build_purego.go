//go:build !sqlite_cgo

package sqlite

// Default build, no C toolchain required.
// Driver: modernc.org/sqlite.

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver registered by this build.
	DriverName = "sqlite"

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)
