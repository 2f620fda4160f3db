package domain

import "time"

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store exists.
	IsInitialized() bool
}

// SnapshotStore persists the task graph as a flat ordered list.
// The core treats storage as an opaque snapshot medium; round-tripping a
// snapshot must reproduce an identical graph.
type SnapshotStore interface {
	// Load reads the full ordered task list. Returns ErrNotInitialized if
	// the store does not exist.
	Load() ([]Task, error)

	// Save replaces the stored task list atomically.
	Save(tasks []Task) error
}

// Logger records application events.
type Logger interface {
	// Debug logs a debug message under a category.
	Debug(category, msg string)

	// Info logs an info message under a category.
	Info(category, msg string)

	// Warn logs a warning message under a category.
	Warn(category, msg string)

	// Error logs an error message under a category.
	Error(category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
