package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
)

// SetStatusInput contains the parameters for a status change.
// Fields are ordered to minimize memory padding.
type SetStatusInput struct {
	TaskID        string        // Task ID (required)
	Status        domain.Status // New status (required)
	FailureReason string        // Required context when Status is failed
}

// SetStatusOutput contains the result of a status change.
type SetStatusOutput struct {
	Task domain.Task // The task after the change
}

// SetStatus is the use case for authoring a task's status.
type SetStatus struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewSetStatus creates a new SetStatus use case.
func NewSetStatus(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *SetStatus {
	return &SetStatus{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute changes a task's status.
func (uc *SetStatus) Execute(_ context.Context, in SetStatusInput) (*SetStatusOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	if err := g.SetStatus(in.TaskID, in.Status, in.FailureReason); err != nil {
		return nil, err
	}

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	task, _ := g.Get(in.TaskID)
	if uc.logger != nil {
		uc.logger.Info("status", fmt.Sprintf("%s -> %s", in.TaskID, in.Status))
	}

	return &SetStatusOutput{Task: task}, nil
}
