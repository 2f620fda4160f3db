package graph

import (
	"slices"

	"github.com/okatsu/loom/internal/domain"
)

// HealthReport aggregates the structural health checks. Findings are
// informational: producing a report never mutates the graph, and repairs are
// explicit, separately invocable calls.
type HealthReport struct {
	Redundant []Edge     // Direct edges already implied transitively
	Invalid   []Edge     // Edges whose target no longer resolves
	Cycles    [][]string // Dependency cycles, as id paths
	Healthy   bool
}

// Health runs all structural checks and summarizes them.
func (g *Graph) Health() HealthReport {
	r := HealthReport{
		Redundant: g.RedundantDependencies(),
		Invalid:   g.InvalidDependencies(),
		Cycles:    g.ExistingCycles(),
	}
	r.Healthy = len(r.Redundant) == 0 && len(r.Invalid) == 0 && len(r.Cycles) == 0
	return r
}

// RedundantDependencies reports direct edges that are implied by another
// direct dependency's transitive closure: A -> C is redundant when A -> B and
// B reaches C. Reported, never auto-removed.
func (g *Graph) RedundantDependencies() []Edge {
	var out []Edge
	for _, id := range g.order {
		t := g.tasks[id]
		if len(t.Dependencies) < 2 {
			continue
		}
		for _, dep := range t.Dependencies {
			if g.reachableThroughOther(t.Dependencies, dep) {
				out = append(out, Edge{From: id, To: dep})
			}
		}
	}
	return out
}

// reachableThroughOther reports whether target is reachable from any direct
// dependency other than target itself.
func (g *Graph) reachableThroughOther(deps []string, target string) bool {
	for _, other := range deps {
		if other == target || g.tasks[other] == nil {
			continue
		}
		closure := g.reach(other, func(t *domain.Task) []string { return t.Dependencies })
		if slices.Contains(closure, target) {
			return true
		}
	}
	return false
}

// InvalidDependencies reports edges whose target id no longer resolves to a
// live task, plus self edges. Neither can arise through the mutation path;
// they indicate an externally corrupted snapshot.
func (g *Graph) InvalidDependencies() []Edge {
	var out []Edge
	for _, id := range g.order {
		for _, dep := range g.tasks[id].Dependencies {
			if g.tasks[dep] == nil || dep == id {
				out = append(out, Edge{From: id, To: dep})
			}
		}
	}
	return out
}

// ExistingCycles runs a full-graph DFS with a recursion stack and reports
// every cycle found. A clean mutation path makes cycles structurally
// impossible; this is the last-resort check over loaded state.
func (g *Graph) ExistingCycles() [][]string {
	const (
		white = iota // unvisited
		gray         // on the recursion stack
		black        // done
	)

	color := make(map[string]int, len(g.tasks))
	var stack []string
	var cycles [][]string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, dep := range g.tasks[id].Dependencies {
			if g.tasks[dep] == nil {
				continue
			}
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				// Back edge: the cycle is the stack segment from dep onward.
				start := slices.Index(stack, dep)
				cycles = append(cycles, slices.Clone(stack[start:]))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}

// RemoveInvalidDependencies scrubs every dangling and self edge and returns
// the number removed.
func (g *Graph) RemoveInvalidDependencies() int {
	removed := 0
	now := g.clock.Now()
	for _, id := range g.order {
		t := g.tasks[id]
		before := len(t.Dependencies)
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(d string) bool { return g.tasks[d] == nil || d == id })
		if len(t.Dependencies) == 0 {
			t.Dependencies = nil
		}
		if len(t.Dependencies) != before {
			removed += before - len(t.Dependencies)
			t.Updated = now
		}
	}
	return removed
}

// RemoveRedundantDependencies removes every transitively implied direct edge
// and returns the number removed.
func (g *Graph) RemoveRedundantDependencies() int {
	removed := 0
	now := g.clock.Now()
	for _, e := range g.RedundantDependencies() {
		t := g.tasks[e.From]
		if !t.DependsOn(e.To) {
			continue // already removed through an earlier finding
		}
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(d string) bool { return d == e.To })
		if len(t.Dependencies) == 0 {
			t.Dependencies = nil
		}
		t.Updated = now
		removed++
	}
	return removed
}
