package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// CreateTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Title        string               // Task title (required)
	Description  string               // Task description (optional)
	Kind         domain.Kind          // Work-item kind (optional, default task)
	Execution    domain.ExecutionMode // Execution mode (optional, default manual)
	Dependencies []string             // IDs of tasks this one depends on
	Priority     int                  // 0 (highest) .. 4 (lowest); clamped
}

// CreateTaskOutput contains the result of creating a new task.
type CreateTaskOutput struct {
	Task     domain.Task // The created (or already-existing) task
	Warnings []string    // Non-fatal repairs applied to the input
}

// CreateTask is the use case for creating a new task.
type CreateTask struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
func (uc *CreateTask) Execute(_ context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	task, warnings, err := g.Create(graph.CreateSpec{
		Title:        in.Title,
		Description:  in.Description,
		Kind:         in.Kind,
		Execution:    in.Execution,
		Dependencies: in.Dependencies,
		Priority:     in.Priority,
	})
	if err != nil {
		return nil, err
	}
	logNotes(uc.logger, "task", warnings)

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("task", fmt.Sprintf("created %s: %q", task.ID, task.Title))
	}

	return &CreateTaskOutput{Task: task, Warnings: warnings}, nil
}
