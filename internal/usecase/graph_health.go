package usecase

import (
	"context"
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// GraphHealthOutput contains the structural health report.
type GraphHealthOutput struct {
	Report graph.HealthReport
}

// GraphHealth is the use case for the read-only structural health check.
// It never mutates the graph; repairs go through RepairGraph.
type GraphHealth struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewGraphHealth creates a new GraphHealth use case.
func NewGraphHealth(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *GraphHealth {
	return &GraphHealth{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute runs all health checks.
func (uc *GraphHealth) Execute(_ context.Context) (*GraphHealthOutput, error) {
	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	return &GraphHealthOutput{Report: g.Health()}, nil
}

// RepairGraphInput selects which repairs to apply.
type RepairGraphInput struct {
	FixInvalid   bool // Remove dangling dependency edges
	FixRedundant bool // Remove transitively implied direct edges
}

// RepairGraphOutput reports what was repaired.
type RepairGraphOutput struct {
	InvalidRemoved   int
	RedundantRemoved int
}

// RepairGraph is the use case for the explicit, separately invocable graph
// repairs.
type RepairGraph struct {
	store  domain.SnapshotStore
	clock  domain.Clock
	logger domain.Logger
}

// NewRepairGraph creates a new RepairGraph use case.
func NewRepairGraph(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) *RepairGraph {
	return &RepairGraph{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute applies the selected repairs and persists the result.
func (uc *RepairGraph) Execute(_ context.Context, in RepairGraphInput) (*RepairGraphOutput, error) {
	if !in.FixInvalid && !in.FixRedundant {
		return &RepairGraphOutput{}, nil
	}

	g, err := loadGraph(uc.store, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	out := &RepairGraphOutput{}
	if in.FixInvalid {
		out.InvalidRemoved = g.RemoveInvalidDependencies()
	}
	if in.FixRedundant {
		out.RedundantRemoved = g.RemoveRedundantDependencies()
	}

	if err := saveGraph(uc.store, g); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("health", fmt.Sprintf("repair removed %d invalid and %d redundant edge(s)",
			out.InvalidRemoved, out.RedundantRemoved))
	}
	return out, nil
}
