package graph

import (
	"fmt"
	"sort"

	"github.com/okatsu/loom/internal/domain"
)

// Ready returns every task that is safe to work on next: effective status
// open with every dependency effectively closed. Creation order.
func (g *Graph) Ready() []domain.Task {
	var out []domain.Task
	for _, id := range g.order {
		if g.isReady(id) {
			out = append(out, copyTask(g.tasks[id]))
		}
	}
	return out
}

// Blocked returns every open task that is waiting on at least one unclosed
// dependency.
func (g *Graph) Blocked() []domain.Task {
	var out []domain.Task
	for _, id := range g.order {
		if g.statusOf(id, map[string]bool{}) != domain.StatusOpen {
			continue
		}
		if !g.depsClosed(id) {
			out = append(out, copyTask(g.tasks[id]))
		}
	}
	return out
}

// ByStatus returns every task whose effective status matches.
func (g *Graph) ByStatus(status domain.Status) []domain.Task {
	var out []domain.Task
	for _, id := range g.order {
		if g.statusOf(id, map[string]bool{}) == status {
			out = append(out, copyTask(g.tasks[id]))
		}
	}
	return out
}

// Blockers returns the direct dependencies of id that are not yet closed:
// the tasks this one is stuck on.
func (g *Graph) Blockers(id string) ([]domain.Task, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	var out []domain.Task
	for _, dep := range t.Dependencies {
		if g.tasks[dep] == nil {
			continue
		}
		if g.statusOf(dep, map[string]bool{}) != domain.StatusClosed {
			out = append(out, copyTask(g.tasks[dep]))
		}
	}
	return out, nil
}

// Blocking returns the direct dependents that this task currently holds up.
// A closed task blocks nothing.
func (g *Graph) Blocking(id string) ([]domain.Task, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if g.statusOf(id, map[string]bool{}) == domain.StatusClosed {
		return nil, nil
	}
	var out []domain.Task
	for _, dep := range g.directDependents(t) {
		if g.statusOf(dep, map[string]bool{}) == domain.StatusOpen {
			out = append(out, copyTask(g.tasks[dep]))
		}
	}
	return out, nil
}

// UnblockScore counts the direct dependents for which this task is the last
// remaining unclosed dependency: closing it makes each of them ready
// immediately.
func (g *Graph) UnblockScore(id string) (int, error) {
	t, ok := g.tasks[id]
	if !ok {
		return 0, domain.ErrTaskNotFound
	}
	score := 0
	for _, dep := range g.directDependents(t) {
		if g.lastUnclosedDependency(dep) == id {
			score++
		}
	}
	return score, nil
}

// lastUnclosedDependency returns the sole unclosed dependency of id, or ""
// when there are zero or several.
func (g *Graph) lastUnclosedDependency(id string) string {
	last := ""
	for _, dep := range g.tasks[id].Dependencies {
		if g.tasks[dep] == nil {
			continue
		}
		if g.statusOf(dep, map[string]bool{}) == domain.StatusClosed {
			continue
		}
		if last != "" {
			return ""
		}
		last = dep
	}
	return last
}

// TransitiveUnblockScore estimates the downstream importance of completing a
// task: every transitive dependent contributes its priority weight
// (priority 0 -> 5 ... priority 4 -> 1).
func (g *Graph) TransitiveUnblockScore(id string) (int, error) {
	deps, err := g.TransitiveDependents(id)
	if err != nil {
		return 0, err
	}
	score := 0
	for _, dep := range deps {
		score += priorityWeight(g.tasks[dep].Priority)
	}
	return score, nil
}

// BlockerImportance normalizes the transitive unblock score into [0,1] by a
// fixed saturation constant, for ranking why a blocked task is stuck.
func (g *Graph) BlockerImportance(id string) (float64, error) {
	score, err := g.TransitiveUnblockScore(id)
	if err != nil {
		return 0, err
	}
	importance := float64(score) / float64(g.weights.ImportanceSaturation)
	if importance > 1 {
		importance = 1
	}
	return importance, nil
}

func priorityWeight(priority int) int {
	return domain.PriorityLowest + 1 - domain.ClampPriority(priority)
}

// ScoredTask is a ready task with its schedule score and the human-readable
// reasons behind it.
type ScoredTask struct {
	Task    domain.Task
	Reasons []string
	Score   int
}

// PrioritizedReady scores every ready task and returns the list sorted by
// score descending. The scoring is a heuristic built from configurable
// weights, not a guarantee; ties break on creation order for stability.
func (g *Graph) PrioritizedReady() []ScoredTask {
	var out []ScoredTask
	for _, id := range g.order {
		if !g.isReady(id) {
			continue
		}
		out = append(out, g.score(id))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// NextTask returns the top prioritized ready task, or nil when nothing is
// ready.
func (g *Graph) NextTask() *ScoredTask {
	ready := g.PrioritizedReady()
	if len(ready) == 0 {
		return nil
	}
	return &ready[0]
}

// score computes the weighted schedule score for a ready task.
func (g *Graph) score(id string) ScoredTask {
	t := g.tasks[id]
	w := g.weights
	score := 0
	var reasons []string

	unblock, _ := g.UnblockScore(id)
	if unblock > 0 {
		score += unblock * w.Unblock
		reasons = append(reasons, fmt.Sprintf("unblocks %d task(s) immediately", unblock))
	}

	transitive, _ := g.TransitiveUnblockScore(id)
	if transitive > 0 {
		score += transitive * w.Transitive
		reasons = append(reasons, fmt.Sprintf("downstream weight %d", transitive))
	}

	bonus := (domain.PriorityLowest - t.Priority) * w.Priority
	if bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("priority %d", t.Priority))
	}

	if t.Execution == domain.ExecutionAuto {
		score += w.AutoBonus
		reasons = append(reasons, "eligible for automation")
	} else if age := g.clock.Now().Sub(t.Created); age >= w.AgingAfter {
		score += w.AgingBonus
		reasons = append(reasons, fmt.Sprintf("open for %d day(s)", int(age.Hours()/24)))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "ready with no downstream impact")
	}
	return ScoredTask{Task: copyTask(t), Score: score, Reasons: reasons}
}

// isReady reports whether a task is open with every dependency closed.
func (g *Graph) isReady(id string) bool {
	return g.statusOf(id, map[string]bool{}) == domain.StatusOpen && g.depsClosed(id)
}

// depsClosed reports whether every dependency of id is effectively closed.
// Dangling edges (possible only in a corrupted snapshot) count as not closed,
// keeping suspect tasks out of the ready set until repaired.
func (g *Graph) depsClosed(id string) bool {
	for _, dep := range g.tasks[id].Dependencies {
		if g.tasks[dep] == nil {
			return false
		}
		if g.statusOf(dep, map[string]bool{}) != domain.StatusClosed {
			return false
		}
	}
	return true
}
