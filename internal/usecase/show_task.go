package usecase

import (
	"context"

	"github.com/okatsu/loom/internal/domain"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID (required)
}

// ShowTaskOutput contains a task with its full graph context.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task           domain.Task
	Effective      domain.Status // Derived status
	Children       []domain.Task // Direct children, creation order
	Blockers       []domain.Task // Direct unclosed dependencies
	Blocking       []domain.Task // Open direct dependents held up by this task
	TransitiveDeps []string      // Everything this task ultimately waits on
	Dependents     []string      // Everything that ultimately waits on this task
	Importance     float64       // Blocker importance in [0,1]
	UnblockScore   int           // Dependents made ready by closing this task
}

// ShowTask is the use case for inspecting a single task.
type ShowTask struct {
	store   domain.SnapshotStore
	clock   domain.Clock
	logger  domain.Logger
	weights domain.ScheduleWeights
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(store domain.SnapshotStore, clock domain.Clock, weights domain.ScheduleWeights, logger domain.Logger) *ShowTask {
	return &ShowTask{
		store:   store,
		clock:   clock,
		weights: weights,
		logger:  logger,
	}
}

// Execute gathers a task and its graph context.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	g.SetWeights(uc.weights)

	task, ok := g.Get(in.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	effective, err := g.StatusOf(in.TaskID)
	if err != nil {
		return nil, err
	}
	blockers, err := g.Blockers(in.TaskID)
	if err != nil {
		return nil, err
	}
	blocking, err := g.Blocking(in.TaskID)
	if err != nil {
		return nil, err
	}
	transitive, err := g.TransitiveDependencies(in.TaskID)
	if err != nil {
		return nil, err
	}
	dependents, err := g.TransitiveDependents(in.TaskID)
	if err != nil {
		return nil, err
	}
	unblock, err := g.UnblockScore(in.TaskID)
	if err != nil {
		return nil, err
	}
	importance, err := g.BlockerImportance(in.TaskID)
	if err != nil {
		return nil, err
	}

	return &ShowTaskOutput{
		Task:           task,
		Effective:      effective,
		Children:       g.Children(in.TaskID),
		Blockers:       blockers,
		Blocking:       blocking,
		TransitiveDeps: transitive,
		Dependents:     dependents,
		Importance:     importance,
		UnblockScore:   unblock,
	}, nil
}
