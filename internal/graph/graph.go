// Package graph implements the dependency-aware task graph: node/edge CRUD,
// cycle prevention, transitive-closure queries, derived container status,
// priority scheduling and bulk import.
//
// All mutations go through a single Graph value so every invariant
// (acyclicity, no dangling edges, one parent per node) is enforced centrally.
// Callers receive copies, never live references into the arena.
package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/okatsu/loom/internal/domain"
)

// Graph owns the task arena and all structural queries and mutations.
// It is not safe for concurrent use; callers serialize access.
type Graph struct {
	tasks   map[string]*domain.Task
	order   []string // creation order, drives snapshot ordering
	clock   domain.Clock
	weights domain.ScheduleWeights
}

// New creates an empty graph.
func New(clock domain.Clock) *Graph {
	return &Graph{
		tasks:   make(map[string]*domain.Task),
		clock:   clock,
		weights: domain.DefaultScheduleWeights(),
	}
}

// SetWeights replaces the scheduling weights.
func (g *Graph) SetWeights(w domain.ScheduleWeights) {
	g.weights = w
}

// Load rebuilds a graph from a persisted snapshot. External storage may have
// been corrupted or hand-edited, so the snapshot is validated before being
// trusted. Identity-level damage is repaired outright with a note: duplicate
// or empty ids, invalid statuses, dangling parents and parent loops have no
// dedicated repair call and would poison every query. Dangling or self
// dependency edges and dependency cycles are only noted; they stay visible
// through Health until a caller invokes the corresponding explicit repair.
func Load(tasks []domain.Task, clock domain.Clock) (*Graph, []string) {
	g := New(clock)
	var notes []string

	for i := range tasks {
		t := tasks[i]
		if t.ID == "" {
			notes = append(notes, fmt.Sprintf("dropped task %q: empty id", t.Title))
			continue
		}
		if _, exists := g.tasks[t.ID]; exists {
			notes = append(notes, fmt.Sprintf("dropped duplicate task id %s", t.ID))
			continue
		}
		t.Priority = domain.ClampPriority(t.Priority)
		if !t.Status.IsValid() {
			notes = append(notes, fmt.Sprintf("task %s: reset invalid status %q to open", t.ID, t.Status))
			t.Status = domain.StatusOpen
		}
		t.Dependencies = slices.Clone(t.Dependencies)
		g.insert(&t)
	}

	// Validate edges now that the full node set is known. Duplicate dep
	// entries are collapsed (the set semantics leave nothing to repair);
	// dangling and self edges are kept and only noted, so Health can report
	// them and an explicit repair can remove them.
	for _, id := range g.order {
		t := g.tasks[id]
		kept := t.Dependencies[:0]
		for _, dep := range t.Dependencies {
			switch {
			case slices.Contains(kept, dep):
				notes = append(notes, fmt.Sprintf("task %s: removed duplicate dependency %s", id, dep))
			case dep == id:
				notes = append(notes, fmt.Sprintf("task %s: has a self dependency", id))
				kept = append(kept, dep)
			case g.tasks[dep] == nil:
				notes = append(notes, fmt.Sprintf("task %s: has a dangling dependency %s", id, dep))
				kept = append(kept, dep)
			default:
				kept = append(kept, dep)
			}
		}
		t.Dependencies = kept
		if len(t.Dependencies) == 0 {
			t.Dependencies = nil
		}

		if t.ParentID != "" && g.tasks[t.ParentID] == nil {
			notes = append(notes, fmt.Sprintf("task %s: cleared dangling parent %s", id, t.ParentID))
			t.ParentID = ""
		}
	}

	notes = append(notes, g.breakParentLoops()...)
	return g, notes
}

// breakParentLoops enforces that the decomposition forest is a forest.
// A loop can only arise from a corrupted snapshot.
func (g *Graph) breakParentLoops() []string {
	var notes []string
	for _, id := range g.order {
		seen := map[string]bool{id: true}
		cur := g.tasks[id]
		for cur.ParentID != "" {
			next := g.tasks[cur.ParentID]
			if seen[next.ID] {
				notes = append(notes, fmt.Sprintf("task %s: cleared parent %s to break a parent loop", cur.ID, cur.ParentID))
				cur.ParentID = ""
				break
			}
			seen[next.ID] = true
			cur = next
		}
	}
	return notes
}

// Snapshot returns the full node set as a flat ordered list of copies.
// The list is the graph's entire serializable state.
func (g *Graph) Snapshot() []domain.Task {
	out := make([]domain.Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, copyTask(g.tasks[id]))
	}
	return out
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Get retrieves a copy of a task by ID.
func (g *Graph) Get(id string) (domain.Task, bool) {
	t, ok := g.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return copyTask(t), true
}

// Tasks returns copies of all tasks in creation order.
func (g *Graph) Tasks() []domain.Task {
	return g.Snapshot()
}

// Children returns copies of the direct children of a task, in creation order.
func (g *Graph) Children(id string) []domain.Task {
	var out []domain.Task
	for _, cid := range g.order {
		if g.tasks[cid].ParentID == id {
			out = append(out, copyTask(g.tasks[cid]))
		}
	}
	return out
}

// CreateSpec describes a task to create.
// Fields are ordered to minimize memory padding.
type CreateSpec struct {
	Title        string
	Description  string
	Kind         domain.Kind
	Execution    domain.ExecutionMode
	Dependencies []string
	Priority     int
}

// Create adds a new task. Structural problems in the input are repaired
// forward rather than failing the whole call: unknown or self dependency ids
// are dropped, out-of-range priorities are clamped, and a duplicate title
// (case-insensitive, trimmed) returns the already-existing task. Every repair
// is reported as a note so the caller can surface it.
func (g *Graph) Create(spec CreateSpec) (domain.Task, []string, error) {
	title := spec.Title
	if domain.NormalizeTitle(title) == "" {
		return domain.Task{}, nil, domain.ErrEmptyTitle
	}

	// Duplicate titles are coalesced instead of erroring so that a retrying
	// advisory layer cannot double-create.
	if existing := g.findByTitle(title); existing != nil {
		note := fmt.Sprintf("task with title %q already exists as %s", existing.Title, existing.ID)
		return copyTask(existing), []string{note}, nil
	}

	var notes []string
	kind := spec.Kind
	if kind == "" {
		kind = domain.KindTask
	} else if !kind.IsValid() {
		notes = append(notes, fmt.Sprintf("unknown kind %q replaced with %q", kind, domain.KindTask))
		kind = domain.KindTask
	}
	execution := spec.Execution
	if execution == "" {
		execution = domain.ExecutionManual
	} else if !execution.IsValid() {
		notes = append(notes, fmt.Sprintf("unknown execution mode %q replaced with %q", execution, domain.ExecutionManual))
		execution = domain.ExecutionManual
	}

	now := g.clock.Now()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: spec.Description,
		Status:      domain.StatusOpen,
		Kind:        kind,
		Execution:   execution,
		Priority:    domain.ClampPriority(spec.Priority),
		Created:     now,
		Updated:     now,
	}
	g.insert(t)

	// Attach edges through the same validation as AddDependency; a new node
	// has no dependents yet, but the cycle check stays on the mutation path.
	for _, dep := range spec.Dependencies {
		if err := g.AddDependency(t.ID, dep); err != nil {
			notes = append(notes, fmt.Sprintf("dropped dependency %s: %v", dep, err))
		}
	}

	return copyTask(t), notes, nil
}

// Update describes a partial task update. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type Update struct {
	Title        *string
	Description  *string
	Priority     *int
	Kind         *domain.Kind
	Execution    *domain.ExecutionMode
	Dependencies *[]string // Full replacement of the dependency set
}

// UpdateTask applies a partial update. When the dependency set is replaced,
// each new edge is validated; edges that fail validation (unknown target,
// self reference, cycle) are dropped from the update with a note rather than
// aborting it.
func (g *Graph) UpdateTask(id string, upd Update) (domain.Task, []string, error) {
	t, ok := g.tasks[id]
	if !ok {
		return domain.Task{}, nil, domain.ErrTaskNotFound
	}
	if upd.Title == nil && upd.Description == nil && upd.Priority == nil &&
		upd.Kind == nil && upd.Execution == nil && upd.Dependencies == nil {
		return domain.Task{}, nil, domain.ErrNoFieldsToUpdate
	}

	var notes []string
	if upd.Title != nil {
		if domain.NormalizeTitle(*upd.Title) == "" {
			return domain.Task{}, nil, domain.ErrEmptyTitle
		}
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Priority != nil {
		t.Priority = domain.ClampPriority(*upd.Priority)
	}
	if upd.Kind != nil {
		if !upd.Kind.IsValid() {
			notes = append(notes, fmt.Sprintf("ignored unknown kind %q", *upd.Kind))
		} else {
			t.Kind = *upd.Kind
		}
	}
	if upd.Execution != nil {
		if !upd.Execution.IsValid() {
			notes = append(notes, fmt.Sprintf("ignored unknown execution mode %q", *upd.Execution))
		} else {
			t.Execution = *upd.Execution
		}
	}

	if upd.Dependencies != nil {
		// Removal alone cannot create a cycle or a dangling edge, so the old
		// set is cleared first and the new edges re-validated one by one.
		t.Dependencies = nil
		for _, dep := range *upd.Dependencies {
			if err := g.AddDependency(id, dep); err != nil {
				notes = append(notes, fmt.Sprintf("dropped dependency %s: %v", dep, err))
			}
		}
	}

	t.Updated = g.clock.Now()
	return copyTask(t), notes, nil
}

// Delete removes a task and scrubs it from every other task's dependency
// set. Children of the deleted task become roots. Returns false if the id
// does not resolve.
func (g *Graph) Delete(id string) bool {
	if _, ok := g.tasks[id]; !ok {
		return false
	}
	delete(g.tasks, id)
	g.order = slices.DeleteFunc(g.order, func(o string) bool { return o == id })

	now := g.clock.Now()
	for _, other := range g.tasks {
		if other.DependsOn(id) {
			other.Dependencies = slices.DeleteFunc(other.Dependencies, func(d string) bool { return d == id })
			if len(other.Dependencies) == 0 {
				other.Dependencies = nil
			}
			other.Updated = now
		}
		if other.ParentID == id {
			other.ParentID = ""
			other.Updated = now
		}
	}
	return true
}

// SetStatus authors a task's status. Container tasks are rejected: their
// status is derived from children and never set directly. A failure reason
// is required context for failed and invalid for any other status.
func (g *Graph) SetStatus(id string, status domain.Status, failureReason string) error {
	t, ok := g.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if g.isContainer(id) {
		return domain.ErrContainerStatus
	}
	if failureReason != "" && status != domain.StatusFailed {
		return domain.ErrFailureReasonMisuse
	}

	t.Status = status
	t.FailureReason = ""
	if status == domain.StatusFailed {
		t.FailureReason = failureReason
	}
	t.Updated = g.clock.Now()
	return nil
}

// insert places a task into the arena.
func (g *Graph) insert(t *domain.Task) {
	g.tasks[t.ID] = t
	g.order = append(g.order, t.ID)
}

// isContainer returns true if the task has at least one child.
func (g *Graph) isContainer(id string) bool {
	for _, t := range g.tasks {
		if t.ParentID == id {
			return true
		}
	}
	return false
}

// findByTitle returns the task whose normalized title matches, or nil.
func (g *Graph) findByTitle(title string) *domain.Task {
	want := domain.NormalizeTitle(title)
	for _, id := range g.order {
		if g.tasks[id].NormalizedTitle() == want {
			return g.tasks[id]
		}
	}
	return nil
}

// copyTask returns a value copy with its own dependency slice.
func copyTask(t *domain.Task) domain.Task {
	out := *t
	out.Dependencies = slices.Clone(t.Dependencies)
	return out
}
