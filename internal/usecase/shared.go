// Package usecase contains application use cases.
package usecase

import (
	"fmt"

	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
)

// loadGraph rebuilds the task graph from the snapshot store. Repair notes
// from snapshot scrubbing are logged, not surfaced as errors: external
// storage may have been hand-edited and the graph repairs forward.
func loadGraph(store domain.SnapshotStore, clock domain.Clock, logger domain.Logger) (*graph.Graph, error) {
	tasks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	g, notes := graph.Load(tasks, clock)
	if logger != nil {
		for _, note := range notes {
			logger.Warn("snapshot", note)
		}
	}
	return g, nil
}

// saveGraph persists the graph back through the snapshot store.
func saveGraph(store domain.SnapshotStore, g *graph.Graph) error {
	if err := store.Save(g.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// logNotes records repair notes produced by a mutation.
func logNotes(logger domain.Logger, category string, notes []string) {
	if logger == nil {
		return
	}
	for _, note := range notes {
		logger.Warn(category, note)
	}
}
