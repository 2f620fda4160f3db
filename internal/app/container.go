// Package app provides the dependency injection container for the application.
package app

import (
	"os"
	"path/filepath"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/infra/config"
	"github.com/okatsu/loom/internal/infra/jsonstore"
	"github.com/okatsu/loom/internal/infra/logging"
	"github.com/okatsu/loom/internal/usecase"
)

// LoomDirName is the data directory created next to the work being tracked.
const LoomDirName = ".loom"

// Config holds the application paths.
type Config struct {
	WorkDir   string // Directory the loom dir was resolved from
	LoomDir   string // Path to the .loom directory
	StorePath string // Path to tasks.json
}

// FindLoomDir walks up from dir looking for an existing .loom directory.
// When none is found it falls back to dir/.loom, so init creates the store
// where the command was run.
func FindLoomDir(dir string) string {
	cur := dir
	for {
		candidate := filepath.Join(cur, LoomDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return filepath.Join(dir, LoomDirName)
		}
		cur = parent
	}
}

// newConfig resolves the application paths for dir.
func newConfig(dir string, appConfig *domain.Config) Config {
	loomDir := FindLoomDir(dir)
	storePath := appConfig.Store.Path
	if !filepath.IsAbs(storePath) {
		storePath = filepath.Join(loomDir, storePath)
	}
	return Config{
		WorkDir:   dir,
		LoomDir:   loomDir,
		StorePath: storePath,
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.SnapshotStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	Logger           domain.Logger
	ConfigLoader     domain.ConfigLoader

	// Loaded configuration
	AppConfig *domain.Config

	// Resolved paths
	Config Config
}

// New creates a new Container rooted at the given directory.
func New(dir string) (*Container, error) {
	loomDir := FindLoomDir(dir)

	configLoader := config.NewLoader(loomDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg := newConfig(dir, appConfig)
	store := jsonstore.New(cfg.StorePath)
	logger := logging.New(loomDir, logging.ParseLevel(appConfig.Log.Level))

	return &Container{
		Store:            store,
		StoreInitializer: store,
		Clock:            domain.RealClock{},
		Logger:           logger,
		ConfigLoader:     configLoader,
		AppConfig:        appConfig,
		Config:           cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, store domain.SnapshotStore, storeInit domain.StoreInitializer, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Clock:            clock,
		Logger:           logger,
		AppConfig:        domain.NewDefaultConfig(),
		Config:           cfg,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if closer, ok := c.Logger.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Store, c.Clock, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Clock, c.Logger)
}

// SetStatusUseCase returns a new SetStatus use case.
func (c *Container) SetStatusUseCase() *usecase.SetStatus {
	return usecase.NewSetStatus(c.Store, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.Clock, c.Logger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store, c.Clock, c.AppConfig.Schedule, c.Logger)
}

// AddDependencyUseCase returns a new AddDependency use case.
func (c *Container) AddDependencyUseCase() *usecase.AddDependency {
	return usecase.NewAddDependency(c.Store, c.Clock, c.Logger)
}

// RemoveDependencyUseCase returns a new RemoveDependency use case.
func (c *Container) RemoveDependencyUseCase() *usecase.RemoveDependency {
	return usecase.NewRemoveDependency(c.Store, c.Clock, c.Logger)
}

// ReverseDependencyUseCase returns a new ReverseDependency use case.
func (c *Container) ReverseDependencyUseCase() *usecase.ReverseDependency {
	return usecase.NewReverseDependency(c.Store, c.Clock, c.Logger)
}

// BreakCycleUseCase returns a new BreakCycle use case.
func (c *Container) BreakCycleUseCase() *usecase.BreakCycle {
	return usecase.NewBreakCycle(c.Store, c.Clock, c.Logger)
}

// DecomposeUseCase returns a new Decompose use case.
func (c *Container) DecomposeUseCase() *usecase.Decompose {
	return usecase.NewDecompose(c.Store, c.Clock, c.Logger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Store, c.Clock, c.Logger)
}

// NextTaskUseCase returns a new NextTask use case.
func (c *Container) NextTaskUseCase() *usecase.NextTask {
	return usecase.NewNextTask(c.Store, c.Clock, c.AppConfig.Schedule, c.Logger)
}

// BlockedTasksUseCase returns a new BlockedTasks use case.
func (c *Container) BlockedTasksUseCase() *usecase.BlockedTasks {
	return usecase.NewBlockedTasks(c.Store, c.Clock, c.AppConfig.Schedule, c.Logger)
}

// GraphHealthUseCase returns a new GraphHealth use case.
func (c *Container) GraphHealthUseCase() *usecase.GraphHealth {
	return usecase.NewGraphHealth(c.Store, c.Clock, c.Logger)
}

// RepairGraphUseCase returns a new RepairGraph use case.
func (c *Container) RepairGraphUseCase() *usecase.RepairGraph {
	return usecase.NewRepairGraph(c.Store, c.Clock, c.Logger)
}
