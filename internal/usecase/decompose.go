package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// DecomposeInput contains the parameters for decomposing a task into
// children.
// Fields are ordered to minimize memory padding.
type DecomposeInput struct {
	ParentID string                   // Task to decompose (required)
	Type     domain.DecompositionType // Combinator for derived status (required)
	Children []graph.ChildSpec        // Child tasks to create (at least one)
}

// DecomposeOutput contains the result of a decomposition.
type DecomposeOutput struct {
	Children []domain.Task // The created children
	Warnings []string      // Sibling/existing edges dropped, if any
}

// Decompose is the use case for turning a task into a container.
type Decompose struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewDecompose creates a new Decompose use case.
func NewDecompose(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *Decompose {
	return &Decompose{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute decomposes a task into children.
func (uc *Decompose) Execute(_ context.Context, in DecomposeInput) (*DecomposeOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	children, warnings, err := g.Decompose(in.ParentID, in.Children, in.Type)
	if err != nil {
		return nil, err
	}
	logNotes(uc.logger, "decompose", warnings)

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("decompose", fmt.Sprintf("%s into %d %s child(ren)", in.ParentID, len(children), in.Type))
	}

	return &DecomposeOutput{Children: children, Warnings: warnings}, nil
}
