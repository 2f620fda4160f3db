package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
)

// RemoveDependencyInput contains the parameters for removing a dependency edge.
type RemoveDependencyInput struct {
	From string // Dependent task ID (required)
	To   string // Dependency task ID (required)
}

// RemoveDependency is the use case for removing a dependency edge.
type RemoveDependency struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewRemoveDependency creates a new RemoveDependency use case.
func NewRemoveDependency(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *RemoveDependency {
	return &RemoveDependency{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute removes the dependency edge From -> To.
func (uc *RemoveDependency) Execute(_ context.Context, in RemoveDependencyInput) error {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return err
	}

	if err := g.RemoveDependency(in.From, in.To); err != nil {
		return err
	}

	if err := saveGraph(uc.store, g); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info("dep", fmt.Sprintf("removed %s -> %s", in.From, in.To))
	}
	return nil
}
