package usecase

import (
	"context"
	"sort"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// NextTaskInput contains the parameters for the scheduling query.
type NextTaskInput struct {
	All bool // Return the whole prioritized ready list, not just the top task
}

// NextTaskOutput contains the scheduling result.
type NextTaskOutput struct {
	Next  *graph.ScoredTask  // Top entry, nil when nothing is ready
	Ready []graph.ScoredTask // Full prioritized list when All was requested
}

// NextTask is the use case for answering "what is safe to work on next".
type NextTask struct {
	store   domain.SnapshotStore
	clock   domain.Clock
	logger  domain.Logger
	weights domain.ScheduleWeights
}

// NewNextTask creates a new NextTask use case.
func NewNextTask(store domain.SnapshotStore, clock domain.Clock, weights domain.ScheduleWeights, logger domain.Logger) *NextTask {
	return &NextTask{
		store:   store,
		clock:   clock,
		weights: weights,
		logger:  logger,
	}
}

// Execute runs the prioritized-ready query.
func (uc *NextTask) Execute(_ context.Context, in NextTaskInput) (*NextTaskOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	g.SetWeights(uc.weights)

	out := &NextTaskOutput{Next: g.NextTask()}
	if in.All {
		out.Ready = g.PrioritizedReady()
	}
	return out, nil
}

// BlockedTasksOutput contains every blocked task with what it is stuck on.
type BlockedTasksOutput struct {
	Blocked []BlockedTask
}

// BlockedTask pairs a blocked task with its current blockers, ranked by
// importance.
// Fields are ordered to minimize memory padding.
type BlockedTask struct {
	Task     domain.Task
	Blockers []RankedBlocker
}

// RankedBlocker is a blocker with its importance score.
type RankedBlocker struct {
	Task       domain.Task
	Importance float64
}

// BlockedTasks is the use case for listing blocked tasks and why they are
// stuck.
type BlockedTasks struct {
	store   domain.SnapshotStore
	clock   domain.Clock
	logger  domain.Logger
	weights domain.ScheduleWeights
}

// NewBlockedTasks creates a new BlockedTasks use case.
func NewBlockedTasks(store domain.SnapshotStore, clock domain.Clock, weights domain.ScheduleWeights, logger domain.Logger) *BlockedTasks {
	return &BlockedTasks{
		store:   store,
		clock:   clock,
		weights: weights,
		logger:  logger,
	}
}

// Execute lists blocked tasks; each task's blockers are sorted most important
// first.
func (uc *BlockedTasks) Execute(_ context.Context) (*BlockedTasksOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	g.SetWeights(uc.weights)

	out := &BlockedTasksOutput{}
	for _, t := range g.Blocked() {
		blockers, err := g.Blockers(t.ID)
		if err != nil {
			return nil, err
		}
		ranked := make([]RankedBlocker, 0, len(blockers))
		for _, b := range blockers {
			importance, err := g.BlockerImportance(b.ID)
			if err != nil {
				return nil, err
			}
			ranked = append(ranked, RankedBlocker{Task: b, Importance: importance})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Importance > ranked[j].Importance
		})
		out.Blocked = append(out.Blocked, BlockedTask{Task: t, Blockers: ranked})
	}
	return out, nil
}
