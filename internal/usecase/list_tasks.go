package usecase

import (
	"context"

	"github.com/okatsu/loom/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Status          *domain.Status // Filter by effective status (nil = all)
	Kind            *domain.Kind   // Filter by kind (nil = all)
	IncludeTerminal bool           // Include closed/failed tasks
}

// TaskView is a task together with its derived read-time fields.
// Fields are ordered to minimize memory padding.
type TaskView struct {
	Task      domain.Task
	Effective domain.Status // Derived status (differs from Task.Status for containers)
	Children  int           // Number of direct children
	Ready     bool          // Open with every dependency closed
	Blocked   bool          // Open with at least one unclosed dependency
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []TaskView
}

// ListTasks is the use case for listing tasks with their derived state.
type ListTasks struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *ListTasks {
	return &ListTasks{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute lists tasks matching the input, in creation order.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	ready := make(map[string]bool)
	for _, t := range g.Ready() {
		ready[t.ID] = true
	}
	blocked := make(map[string]bool)
	for _, t := range g.Blocked() {
		blocked[t.ID] = true
	}

	out := &ListTasksOutput{}
	for _, t := range g.Tasks() {
		effective, err := g.StatusOf(t.ID)
		if err != nil {
			return nil, err
		}
		if !in.IncludeTerminal && effective.IsTerminal() && in.Status == nil {
			continue
		}
		if in.Status != nil && effective != *in.Status {
			continue
		}
		if in.Kind != nil && t.Kind != *in.Kind {
			continue
		}
		out.Tasks = append(out.Tasks, TaskView{
			Task:      t,
			Effective: effective,
			Children:  len(g.Children(t.ID)),
			Ready:     ready[t.ID],
			Blocked:   blocked[t.ID],
		})
	}
	return out, nil
}
