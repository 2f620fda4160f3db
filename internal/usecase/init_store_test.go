package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInitializer struct {
	initialized bool
	initCalls   int
}

func (m *mockInitializer) Initialize() error {
	m.initCalls++
	m.initialized = true
	return nil
}

func (m *mockInitializer) IsInitialized() bool {
	return m.initialized
}

func TestInitStore_Execute_FirstInit(t *testing.T) {
	// Setup
	loomDir := filepath.Join(t.TempDir(), ".loom")
	init := &mockInitializer{}
	uc := NewInitStore(init)

	// Execute
	out, err := uc.Execute(context.Background(), InitStoreInput{
		LoomDir:       loomDir,
		ConfigExample: "# loom configuration\n",
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.AlreadyInitialized)
	assert.Equal(t, loomDir, out.LoomDir)
	assert.Equal(t, 1, init.initCalls)

	assert.DirExists(t, filepath.Join(loomDir, "logs"))
	content, err := os.ReadFile(filepath.Join(loomDir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "loom configuration")
}

func TestInitStore_Execute_AlreadyInitialized(t *testing.T) {
	// Setup
	loomDir := filepath.Join(t.TempDir(), ".loom")
	init := &mockInitializer{initialized: true}
	uc := NewInitStore(init)

	// Execute
	out, err := uc.Execute(context.Background(), InitStoreInput{
		LoomDir:       loomDir,
		ConfigExample: "# loom configuration\n",
	})

	// Assert: reported, store left to Initialize's own idempotence
	require.NoError(t, err)
	assert.True(t, out.AlreadyInitialized)
	assert.NoFileExists(t, filepath.Join(loomDir, "config.toml"))
}

func TestInitStore_Execute_SkipsExistingConfig(t *testing.T) {
	// Setup: a config file the user already wrote
	loomDir := filepath.Join(t.TempDir(), ".loom")
	require.NoError(t, os.MkdirAll(loomDir, 0o750))
	configPath := filepath.Join(loomDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("custom = true\n"), 0o600))
	uc := NewInitStore(&mockInitializer{})

	// Execute
	_, err := uc.Execute(context.Background(), InitStoreInput{
		LoomDir:       loomDir,
		ConfigExample: "# loom configuration\n",
	})

	// Assert
	require.NoError(t, err)
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "custom = true\n", string(content))
}
