package graph

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okatsu/loom/internal/domain"
)

// Edge is a directed dependency edge (dependent -> dependency).
type Edge struct {
	From string
	To   string
}

func (e Edge) String() string {
	return e.From + " -> " + e.To
}

// CycleError reports a rejected cycle-forming edge. It carries the existing
// path that would close the cycle and the break options a caller can choose
// from; the graph never picks a break point on its own.
type CycleError struct {
	Proposed Edge     // The edge that was rejected
	Path     []string // Existing path Proposed.To -> ... -> Proposed.From
	Options  []Edge   // Existing edges whose removal breaks the cycle
}

func (e *CycleError) Error() string {
	cycle := append(slices.Clone(e.Path), e.Proposed.To)
	return fmt.Sprintf("dependency %s would create a cycle: %s", e.Proposed, strings.Join(cycle, " -> "))
}

func (e *CycleError) Unwrap() error { return domain.ErrCycleWouldForm }

// AddDependency adds the edge from -> to. Cycle-forming edges are the one
// structural violation that is hard-rejected instead of repaired forward:
// silently dropping "the wrong" edge of a cycle would be an unrecoverable
// guess, so the caller gets a CycleError with explicit break options instead.
// Adding an existing edge is a no-op.
func (g *Graph) AddDependency(from, to string) error {
	if from == to {
		return domain.ErrSelfReference
	}
	src, ok := g.tasks[from]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, from)
	}
	if _, ok := g.tasks[to]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, to)
	}
	if src.DependsOn(to) {
		return nil
	}

	if path := g.FindCyclePath(from, to); path != nil {
		return &CycleError{
			Proposed: Edge{From: from, To: to},
			Path:     path,
			Options:  breakOptions(path),
		}
	}

	src.Dependencies = append(src.Dependencies, to)
	src.Updated = g.clock.Now()
	return nil
}

// RemoveDependency removes the edge from -> to.
func (g *Graph) RemoveDependency(from, to string) error {
	src, ok := g.tasks[from]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, from)
	}
	if !src.DependsOn(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrDependencyNotFound, from, to)
	}
	src.Dependencies = slices.DeleteFunc(src.Dependencies, func(d string) bool { return d == to })
	if len(src.Dependencies) == 0 {
		src.Dependencies = nil
	}
	src.Updated = g.clock.Now()
	return nil
}

// WouldCreateCycle reports whether adding the edge from -> to would close a
// cycle, i.e. whether from is already reachable from to over existing edges.
// A self edge always counts.
func (g *Graph) WouldCreateCycle(from, to string) bool {
	if from == to {
		return true
	}
	return g.FindCyclePath(from, to) != nil
}

// FindCyclePath searches from to over existing dependency edges and, if from
// is reachable, returns the path to -> ... -> from. This path plus the
// proposed edge from -> to is the cycle. Returns nil when no cycle would
// form. BFS with parent pointers, O(V+E).
func (g *Graph) FindCyclePath(from, to string) []string {
	if g.tasks[from] == nil || g.tasks[to] == nil {
		return nil
	}
	parent := map[string]string{to: ""}
	queue := []string{to}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == from {
			// Reconstruct to -> ... -> from.
			var path []string
			for node := from; node != ""; node = parent[node] {
				path = append(path, node)
			}
			slices.Reverse(path)
			return path
		}
		for _, dep := range g.tasks[cur].Dependencies {
			if g.tasks[dep] == nil {
				continue
			}
			if _, seen := parent[dep]; seen {
				continue
			}
			parent[dep] = cur
			queue = append(queue, dep)
		}
	}
	return nil
}

// CycleBreakOptions returns the existing edges along the cycle that adding
// from -> to would close. Removing any one of them breaks the cycle; the
// choice of which dependency to relax belongs to the caller.
func (g *Graph) CycleBreakOptions(from, to string) []Edge {
	path := g.FindCyclePath(from, to)
	if path == nil {
		return nil
	}
	return breakOptions(path)
}

// breakOptions converts a path into its constituent edges.
func breakOptions(path []string) []Edge {
	opts := make([]Edge, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		opts = append(opts, Edge{From: path[i], To: path[i+1]})
	}
	return opts
}

// AddDependencyBreakingCycle removes the chosen existing edge, then performs
// the original add. The add is re-validated rather than assumed to succeed;
// if it still fails (the chosen edge was not on every cycle path), the
// removed edge is restored so the graph is left exactly as before.
func (g *Graph) AddDependencyBreakingCycle(from, to string, chosen Edge) error {
	src, ok := g.tasks[chosen.From]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, chosen.From)
	}
	idx := slices.Index(src.Dependencies, chosen.To)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrDependencyNotFound, chosen)
	}

	prev := src.Updated
	if err := g.RemoveDependency(chosen.From, chosen.To); err != nil {
		return err
	}
	if err := g.AddDependency(from, to); err != nil {
		g.restoreEdge(chosen, idx, prev)
		return err
	}
	return nil
}

// ReverseDependency removes the edge from -> to and adds to -> from. The
// operation is atomic from the caller's point of view: if the reverse edge is
// itself invalid, the original edge is restored unchanged.
func (g *Graph) ReverseDependency(from, to string) error {
	src, ok := g.tasks[from]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, from)
	}
	idx := slices.Index(src.Dependencies, to)
	if idx < 0 {
		return fmt.Errorf("%w: %s -> %s", domain.ErrDependencyNotFound, from, to)
	}

	prev := src.Updated
	if err := g.RemoveDependency(from, to); err != nil {
		return err
	}
	if err := g.AddDependency(to, from); err != nil {
		g.restoreEdge(Edge{From: from, To: to}, idx, prev)
		return err
	}
	return nil
}

// restoreEdge reinserts a previously removed edge at its original position and
// rolls the source task's Updated back to its pre-removal value.
func (g *Graph) restoreEdge(e Edge, idx int, updated time.Time) {
	src := g.tasks[e.From]
	src.Dependencies = slices.Insert(src.Dependencies, idx, e.To)
	src.Updated = updated
}
