package domain

import "time"

// ScheduleWeights tunes the prioritized-ready scoring heuristic.
// The values are heuristics, not invariants; changing them never affects
// graph correctness.
// Fields are ordered to minimize memory padding.
type ScheduleWeights struct {
	AgingAfter           time.Duration `toml:"aging_after"`           // Age before a manual task earns the aging bonus
	Unblock              int           `toml:"unblock"`               // Multiplier for the direct unblock score
	Transitive           int           `toml:"transitive"`            // Multiplier for the transitive unblock score
	Priority             int           `toml:"priority"`              // Multiplier for (4 - priority)
	AutoBonus            int           `toml:"auto_bonus"`            // Flat bonus for automation-eligible tasks
	AgingBonus           int           `toml:"aging_bonus"`           // Flat bonus for long-open manual tasks
	ImportanceSaturation int           `toml:"importance_saturation"` // Weighted units at which blocker importance saturates to 1.0
}

// DefaultScheduleWeights returns the default scoring weights.
func DefaultScheduleWeights() ScheduleWeights {
	return ScheduleWeights{
		Unblock:              10,
		Transitive:           2,
		Priority:             5,
		AutoBonus:            3,
		AgingBonus:           2,
		AgingAfter:           7 * 24 * time.Hour,
		ImportanceSaturation: 10,
	}
}

// Config represents the application configuration.
type Config struct {
	Schedule ScheduleWeights // [schedule] scoring weights
	Log      LogConfig       // [log] settings
	Store    StoreConfig     // [store] settings
	Warnings []string        // Non-fatal problems found while loading
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// StoreConfig holds persistence settings from the [store] section.
type StoreConfig struct {
	Path string // Override for the tasks file path (relative to the loom dir)
}

// NewDefaultConfig returns a Config with all defaults applied.
func NewDefaultConfig() *Config {
	return &Config{
		Schedule: DefaultScheduleWeights(),
		Log:      LogConfig{Level: "info"},
		Store:    StoreConfig{Path: "tasks.json"},
	}
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the configuration with defaults applied for missing values.
	Load() (*Config, error)
}
