package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okatsu/loom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) *Loader {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	return NewLoader(dir)
}

func TestLoader_Load_MissingFileUsesDefaults(t *testing.T) {
	loader := NewLoader(t.TempDir())

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScheduleWeights(), cfg.Schedule)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "tasks.json", cfg.Store.Path)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_OverridesWeights(t *testing.T) {
	loader := writeConfig(t, `
[schedule]
unblock = 20
aging_after_days = 3

[log]
level = "debug"

[store]
path = "graph.json"
`)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Schedule.Unblock)
	assert.Equal(t, 3*24*time.Hour, cfg.Schedule.AgingAfter)
	// Untouched weights keep their defaults
	assert.Equal(t, 2, cfg.Schedule.Transitive)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "graph.json", cfg.Store.Path)
}

func TestLoader_Load_NegativeWeightIgnored(t *testing.T) {
	loader := writeConfig(t, `
[schedule]
priority = -5
`)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Schedule.Priority)
}

func TestLoader_Load_UnknownLogLevelWarns(t *testing.T) {
	loader := writeConfig(t, `
[log]
level = "verbose"
`)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "verbose")
}

func TestLoader_Load_MalformedFile(t *testing.T) {
	loader := writeConfig(t, "[schedule\nbroken")

	_, err := loader.Load()

	assert.Error(t, err)
}

func TestExample_ParsesAsValidConfig(t *testing.T) {
	// The example written at init must itself load cleanly.
	loader := writeConfig(t, Example())

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.DefaultScheduleWeights(), cfg.Schedule)
}
