package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID to delete (required)
}

// DeleteTask is the use case for deleting a task. Deleting scrubs the task
// from every other task's dependency set; no orphaned edge survives.
type DeleteTask struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute deletes a task.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) error {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return err
	}

	if !g.Delete(in.TaskID) {
		return domain.ErrTaskNotFound
	}

	if err := saveGraph(uc.store, g); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info("task", fmt.Sprintf("deleted %s", in.TaskID))
	}
	return nil
}
