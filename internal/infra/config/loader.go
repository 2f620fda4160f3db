// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okatsu/loom/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the config file name inside the loom directory.
const ConfigFileName = "config.toml"

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from a TOML file in the loom directory.
type Loader struct {
	loomDir string
}

// NewLoader creates a new Loader.
func NewLoader(loomDir string) *Loader {
	return &Loader{loomDir: loomDir}
}

// fileConfig mirrors the TOML file structure. All fields are optional;
// missing values fall back to the defaults.
type fileConfig struct {
	Schedule scheduleSection `toml:"schedule"`
	Log      logSection      `toml:"log"`
	Store    storeSection    `toml:"store"`
}

type scheduleSection struct {
	Unblock              *int `toml:"unblock"`
	Transitive           *int `toml:"transitive"`
	Priority             *int `toml:"priority"`
	AutoBonus            *int `toml:"auto_bonus"`
	AgingBonus           *int `toml:"aging_bonus"`
	AgingAfterDays       *int `toml:"aging_after_days"`
	ImportanceSaturation *int `toml:"importance_saturation"`
}

type logSection struct {
	Level *string `toml:"level"`
}

type storeSection struct {
	Path *string `toml:"path"`
}

// Load returns the configuration with defaults applied for missing values.
// A missing file is not an error; the defaults are returned as-is.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	path := filepath.Join(l.loomDir, ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applySchedule(cfg, file.Schedule)

	if file.Log.Level != nil {
		switch *file.Log.Level {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = *file.Log.Level
		default:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown log level %q, using %q", *file.Log.Level, cfg.Log.Level))
		}
	}
	if file.Store.Path != nil && *file.Store.Path != "" {
		cfg.Store.Path = *file.Store.Path
	}

	return cfg, nil
}

// applySchedule overlays file values onto the default weights. Negative
// weights are kept out; the scoring heuristic assumes non-negative terms.
func applySchedule(cfg *domain.Config, s scheduleSection) {
	setInt := func(dst *int, src *int) {
		if src != nil && *src >= 0 {
			*dst = *src
		}
	}
	setInt(&cfg.Schedule.Unblock, s.Unblock)
	setInt(&cfg.Schedule.Transitive, s.Transitive)
	setInt(&cfg.Schedule.Priority, s.Priority)
	setInt(&cfg.Schedule.AutoBonus, s.AutoBonus)
	setInt(&cfg.Schedule.AgingBonus, s.AgingBonus)
	setInt(&cfg.Schedule.ImportanceSaturation, s.ImportanceSaturation)
	if s.AgingAfterDays != nil && *s.AgingAfterDays >= 0 {
		cfg.Schedule.AgingAfter = time.Duration(*s.AgingAfterDays) * 24 * time.Hour
	}
}

// Example returns a commented example config suitable for writing at init.
func Example() string {
	return `# loom configuration

[schedule]
# Scoring weights for 'loom next' / 'loom ready'. Heuristics, not invariants.
# unblock = 10
# transitive = 2
# priority = 5
# auto_bonus = 3
# aging_bonus = 2
# aging_after_days = 7
# importance_saturation = 10

[log]
# level = "info"   # debug, info, warn, error

[store]
# path = "tasks.json"
`
}
