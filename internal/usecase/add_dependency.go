package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// AddDependencyInput contains the parameters for adding a dependency edge.
type AddDependencyInput struct {
	From string // Dependent task ID (required)
	To   string // Dependency task ID (required)
}

// AddDependencyOutput contains the result of adding a dependency.
// When the edge is rejected as cycle-forming, Cycle carries the path and the
// break options so the caller can choose which dependency to relax.
type AddDependencyOutput struct {
	Cycle *graph.CycleError // Set only on cycle rejection
}

// AddDependency is the use case for adding a dependency edge.
type AddDependency struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewAddDependency creates a new AddDependency use case.
func NewAddDependency(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *AddDependency {
	return &AddDependency{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute adds the dependency edge From -> To. A cycle rejection is returned
// both as the error and, decoded, in the output so callers can render the
// break options without re-deriving them.
func (uc *AddDependency) Execute(_ context.Context, in AddDependencyInput) (*AddDependencyOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	if err := g.AddDependency(in.From, in.To); err != nil {
		var cycleErr *graph.CycleError
		if errors.As(err, &cycleErr) {
			if uc.logger != nil {
				uc.logger.Warn("dep", err.Error())
			}
			return &AddDependencyOutput{Cycle: cycleErr}, err
		}
		return nil, err
	}

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("dep", fmt.Sprintf("added %s -> %s", in.From, in.To))
	}
	return &AddDependencyOutput{}, nil
}
