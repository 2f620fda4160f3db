package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional; nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title        *string
	Description  *string
	Priority     *int
	Kind         *domain.Kind
	Execution    *domain.ExecutionMode
	Dependencies *[]string // Full replacement of the dependency set
	TaskID       string    // Task ID to edit (required)
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task     domain.Task // The updated task
	Warnings []string    // Edges dropped from the update, if any
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *EditTask {
	return &EditTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	task, warnings, err := g.UpdateTask(in.TaskID, graph.Update{
		Title:        in.Title,
		Description:  in.Description,
		Priority:     in.Priority,
		Kind:         in.Kind,
		Execution:    in.Execution,
		Dependencies: in.Dependencies,
	})
	if err != nil {
		return nil, err
	}
	logNotes(uc.logger, "task", warnings)

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("task", fmt.Sprintf("updated %s", task.ID))
	}

	return &EditTaskOutput{Task: task, Warnings: warnings}, nil
}
