package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
)

// ReverseDependencyInput contains the parameters for reversing a dependency.
type ReverseDependencyInput struct {
	From string // Current dependent task ID (required)
	To   string // Current dependency task ID (required)
}

// ReverseDependency is the use case for flipping a dependency edge. The
// reversal is atomic: if the reverse edge would be invalid, the original edge
// is left exactly as it was.
type ReverseDependency struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewReverseDependency creates a new ReverseDependency use case.
func NewReverseDependency(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *ReverseDependency {
	return &ReverseDependency{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute reverses the dependency edge From -> To into To -> From.
func (uc *ReverseDependency) Execute(_ context.Context, in ReverseDependencyInput) error {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return err
	}

	if err := g.ReverseDependency(in.From, in.To); err != nil {
		return err
	}

	if err := saveGraph(uc.store, g); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info("dep", fmt.Sprintf("reversed %s -> %s", in.From, in.To))
	}
	return nil
}
