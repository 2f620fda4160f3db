package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okatsu/loom/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	LoomDir       string // Path to the .loom directory
	ConfigExample string // Commented config written on first init, skipped if empty
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	LoomDir            string // Path to the created loom directory
	AlreadyInitialized bool   // True if the store already existed
}

// InitStore initializes a directory for loom.
type InitStore struct {
	storeInit domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer) *InitStore {
	return &InitStore{storeInit: storeInit}
}

// Execute creates the .loom/ directory with an empty snapshot, a commented
// config file and a logs directory. Running it again is safe: an existing
// store is left untouched and only reported as already initialized.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	alreadyInitialized := uc.storeInit.IsInitialized()

	if !alreadyInitialized {
		if err := os.MkdirAll(in.LoomDir, 0o750); err != nil {
			return nil, fmt.Errorf("create loom directory: %w", err)
		}
		logsDir := filepath.Join(in.LoomDir, "logs")
		if err := os.MkdirAll(logsDir, 0o750); err != nil {
			return nil, fmt.Errorf("create logs directory: %w", err)
		}
		if in.ConfigExample != "" {
			configPath := filepath.Join(in.LoomDir, "config.toml")
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := os.WriteFile(configPath, []byte(in.ConfigExample), 0o600); err != nil {
					return nil, fmt.Errorf("create config.toml: %w", err)
				}
			}
		}
	}

	if err := uc.storeInit.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize task store: %w", err)
	}

	return &InitStoreOutput{
		LoomDir:            in.LoomDir,
		AlreadyInitialized: alreadyInitialized,
	}, nil
}
