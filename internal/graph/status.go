package graph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/okatsu/loom/internal/domain"
)

// StatusOf returns the effective status of a task. Leaf statuses are authored
// directly; a task with children is a container whose status is derived from
// its children according to its decomposition type. Derivation is computed on
// demand and recursively, so a child's status change is visible through the
// parent on the very next query.
func (g *Graph) StatusOf(id string) (domain.Status, error) {
	if _, ok := g.tasks[id]; !ok {
		return "", domain.ErrTaskNotFound
	}
	return g.statusOf(id, map[string]bool{}), nil
}

func (g *Graph) statusOf(id string, visiting map[string]bool) domain.Status {
	t := g.tasks[id]
	if visiting[id] {
		// Parent loops are scrubbed on load; this guard keeps a corrupted
		// in-memory state from recursing forever.
		return t.Status
	}
	visiting[id] = true
	defer delete(visiting, id)

	var children []domain.Status
	for _, cid := range g.order {
		if g.tasks[cid].ParentID == id {
			children = append(children, g.statusOf(cid, visiting))
		}
	}
	if len(children) == 0 {
		return t.Status
	}
	return deriveStatus(t.Decomposition, children)
}

// deriveStatus combines child statuses under a decomposition type. The rule
// order is part of the contract and is not commutative.
func deriveStatus(dt domain.DecompositionType, children []domain.Status) domain.Status {
	switch dt {
	case domain.DecomposeOrFallback, domain.DecomposeOrRace:
		// The two Or variants differ only in execution-order guidance to
		// callers; their derivation is identical.
		switch {
		case anyStatus(children, domain.StatusClosed):
			return domain.StatusClosed
		case allStatus(children, domain.StatusFailed):
			return domain.StatusFailed
		case anyStatus(children, domain.StatusInProgress):
			return domain.StatusInProgress
		default:
			return domain.StatusOpen
		}
	case domain.DecomposeChoice:
		// Terminal children await an external selection; the container never
		// reaches a terminal state on its own.
		if allTerminal(children) {
			return domain.StatusInProgress
		}
		return domain.StatusOpen
	default:
		// And is the default for containers without an explicit type.
		switch {
		case allStatus(children, domain.StatusClosed):
			return domain.StatusClosed
		case anyStatus(children, domain.StatusFailed) && allTerminal(children):
			// A non-failed incomplete child keeps the container out of
			// failed: the failed child may yet be retried or replaced.
			return domain.StatusFailed
		case anyStatus(children, domain.StatusInProgress) || anyStatus(children, domain.StatusClosed):
			return domain.StatusInProgress
		default:
			return domain.StatusOpen
		}
	}
}

func anyStatus(statuses []domain.Status, want domain.Status) bool {
	for _, s := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

func allStatus(statuses []domain.Status, want domain.Status) bool {
	for _, s := range statuses {
		if s != want {
			return false
		}
	}
	return true
}

func allTerminal(statuses []domain.Status) bool {
	for _, s := range statuses {
		if !s.IsTerminal() {
			return false
		}
	}
	return true
}

// ChildSpec describes one child in a decomposition.
// Fields are ordered to minimize memory padding.
type ChildSpec struct {
	Title        string
	Description  string
	Kind         domain.Kind
	Execution    domain.ExecutionMode
	Dependencies []string // Edges to existing tasks
	DependsOn    []int    // Edges to earlier siblings in this decomposition, by index
	Priority     int
}

// Decompose sets the parent's decomposition type and creates each child as an
// ordinary task with its parent set. Sibling dependencies are attached through
// the same validation as any other edge; bad references are dropped with a
// note rather than aborting the decomposition.
func (g *Graph) Decompose(parentID string, children []ChildSpec, dt domain.DecompositionType) ([]domain.Task, []string, error) {
	parent, ok := g.tasks[parentID]
	if !ok {
		return nil, nil, domain.ErrParentNotFound
	}
	if !dt.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidDecompose, dt)
	}
	if len(children) == 0 {
		return nil, nil, domain.ErrNoChildren
	}
	for i, spec := range children {
		if domain.NormalizeTitle(spec.Title) == "" {
			return nil, nil, fmt.Errorf("child %d: %w", i+1, domain.ErrEmptyTitle)
		}
	}

	parent.Decomposition = dt
	parent.Updated = g.clock.Now()

	var notes []string
	created := make([]string, 0, len(children))
	for i, spec := range children {
		child := g.createChild(parentID, spec)
		created = append(created, child)

		for _, dep := range spec.Dependencies {
			if err := g.AddDependency(child, dep); err != nil {
				notes = append(notes, fmt.Sprintf("child %d: dropped dependency %s: %v", i+1, dep, err))
			}
		}
		for _, sib := range spec.DependsOn {
			if sib < 0 || sib >= i {
				notes = append(notes, fmt.Sprintf("child %d: dropped sibling dependency %d: out of range", i+1, sib))
				continue
			}
			if err := g.AddDependency(child, created[sib]); err != nil {
				notes = append(notes, fmt.Sprintf("child %d: dropped sibling dependency %d: %v", i+1, sib, err))
			}
		}
	}

	out := make([]domain.Task, 0, len(created))
	for _, id := range created {
		out = append(out, copyTask(g.tasks[id]))
	}
	return out, notes, nil
}

// createChild inserts a decomposition child directly. Children skip the
// duplicate-title coalescing of Create: the retry race that coalescing guards
// against applies to top-level creation, and coalescing here would steal an
// unrelated task into the decomposition.
func (g *Graph) createChild(parentID string, spec ChildSpec) string {
	kind := spec.Kind
	if !kind.IsValid() {
		kind = domain.KindTask
	}
	execution := spec.Execution
	if !execution.IsValid() {
		execution = domain.ExecutionManual
	}
	now := g.clock.Now()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       spec.Title,
		Description: spec.Description,
		Status:      domain.StatusOpen,
		Kind:        kind,
		Execution:   execution,
		Priority:    domain.ClampPriority(spec.Priority),
		ParentID:    parentID,
		Created:     now,
		Updated:     now,
	}
	g.insert(t)
	return t.ID
}
