package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// BreakCycleInput contains the parameters for adding a dependency while
// breaking the cycle it would form.
// Fields are ordered to minimize memory padding.
type BreakCycleInput struct {
	Chosen graph.Edge // Existing edge to remove, picked from the break options
	From   string     // Dependent task ID (required)
	To     string     // Dependency task ID (required)
}

// BreakCycle is the use case for the break-then-add operation. The caller
// chooses the break point; the graph never picks one silently.
type BreakCycle struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewBreakCycle creates a new BreakCycle use case.
func NewBreakCycle(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *BreakCycle {
	return &BreakCycle{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute removes the chosen edge, then adds From -> To. If the add still
// fails, the graph is restored and the error returned.
func (uc *BreakCycle) Execute(_ context.Context, in BreakCycleInput) error {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return err
	}

	if err := g.AddDependencyBreakingCycle(in.From, in.To, in.Chosen); err != nil {
		return err
	}

	if err := saveGraph(uc.store, g); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info("dep", fmt.Sprintf("added %s -> %s after removing %s", in.From, in.To, in.Chosen))
	}
	return nil
}
