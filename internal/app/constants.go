package app

import "time"

// File system permissions
const (
	// DirPermission is the permission mode for newly created directories
	DirPermission = 0o755

	// FilePermission is the permission mode for saved documents
	FilePermission = 0o644
)

// Watcher constants
const (
	// DefaultPeopleWatchInterval is the poll interval for the people file when
	// the configuration does not set one.
	DefaultPeopleWatchInterval = 2 * time.Second
)
