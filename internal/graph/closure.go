package graph

import (
	"sort"

	"github.com/okatsu/loom/internal/domain"
)

// TransitiveDependencies returns every task this task ultimately waits on,
// excluding itself. BFS over dependency edges, O(V+E). The result is sorted
// for determinism.
func (g *Graph) TransitiveDependencies(id string) ([]string, error) {
	if _, ok := g.tasks[id]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	return g.reach(id, func(t *domain.Task) []string { return t.Dependencies }), nil
}

// TransitiveDependents returns every task that ultimately waits on this task,
// excluding itself. BFS over the inverse edge direction.
func (g *Graph) TransitiveDependents(id string) ([]string, error) {
	if _, ok := g.tasks[id]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	return g.reach(id, g.directDependents), nil
}

// reach collects all nodes reachable from start over next, excluding start.
func (g *Graph) reach(start string, next func(*domain.Task) []string) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next(g.tasks[cur]) {
			if seen[n] || g.tasks[n] == nil {
				continue
			}
			seen[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	sort.Strings(out)
	return out
}

// directDependents returns the ids of tasks that directly depend on t.
func (g *Graph) directDependents(t *domain.Task) []string {
	var out []string
	for _, id := range g.order {
		if g.tasks[id].DependsOn(t.ID) {
			out = append(out, id)
		}
	}
	return out
}
