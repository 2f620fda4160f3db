package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
	"gopkg.in/yaml.v3"
)

// ImportTasksInput contains the parameters for a bulk import.
type ImportTasksInput struct {
	Content []byte // YAML batch document (required)
	DryRun  bool   // Validate and order without creating tasks
}

// ImportTasksOutput contains the result of a bulk import.
type ImportTasksOutput struct {
	Tasks    []graph.ImportedTask // Committed tasks, in commit (topological) order
	Warnings []string             // Dropped unknown existing-task edges, if any
	DryRun   bool                 // True when nothing was persisted
}

// ImportTasks is the use case for bulk-importing a batch of tasks that
// reference each other by temporary ids. An invalid batch (internal cycle,
// unresolved temp id) is rejected before any task is created.
type ImportTasks struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *ImportTasks {
	return &ImportTasks{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// batchFile mirrors the YAML batch document.
//
//	tasks:
//	  - id: setup
//	    title: Set up the environment
//	  - id: build
//	    title: Build the service
//	    priority: 1
//	    depends_on: [setup]
//	    depends_on_existing: [<task id>]
type batchFile struct {
	Tasks []batchTask `yaml:"tasks"`
}

type batchTask struct {
	ID                string   `yaml:"id"`
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	Kind              string   `yaml:"kind"`
	Execution         string   `yaml:"execution"`
	DependsOn         []string `yaml:"depends_on"`
	DependsOnExisting []string `yaml:"depends_on_existing"`
	Priority          int      `yaml:"priority"`
}

// Execute imports the batch.
func (uc *ImportTasks) Execute(_ context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	var file batchFile
	if err := yaml.Unmarshal(in.Content, &file); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}

	batch := make([]graph.ImportSpec, 0, len(file.Tasks))
	for _, t := range file.Tasks {
		batch = append(batch, graph.ImportSpec{
			TempID:            t.ID,
			Title:             t.Title,
			Description:       t.Description,
			Kind:              domain.Kind(t.Kind),
			Execution:         domain.ExecutionMode(t.Execution),
			DependsOnTemp:     t.DependsOn,
			DependsOnExisting: t.DependsOnExisting,
			Priority:          t.Priority,
		})
	}

	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	tasks, warnings, err := g.Import(batch)
	if err != nil {
		return nil, err
	}

	if in.DryRun {
		// Validation and ordering ran against real state; skipping the save
		// discards the uncommitted graph.
		return &ImportTasksOutput{Tasks: tasks, Warnings: warnings, DryRun: true}, nil
	}
	logNotes(uc.logger, "import", warnings)

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("import", fmt.Sprintf("created %d task(s)", len(tasks)))
	}

	return &ImportTasksOutput{Tasks: tasks, Warnings: warnings}, nil
}
