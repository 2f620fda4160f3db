package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/okatsu/loom/internal/domain"
)

// ImportSpec describes one proposed task in a bulk import batch. Tasks
// reference each other by temporary ids; edges into already-existing tasks
// use real ids.
// Fields are ordered to minimize memory padding.
type ImportSpec struct {
	TempID            string
	Title             string
	Description       string
	Kind              domain.Kind
	Execution         domain.ExecutionMode
	DependsOnTemp     []string
	DependsOnExisting []string
	Priority          int
}

// InvalidBatchError rejects a bulk import before any task is created.
type InvalidBatchError struct {
	Reason string
}

func (e *InvalidBatchError) Error() string {
	return "invalid import batch: " + e.Reason
}

func (e *InvalidBatchError) Unwrap() error { return domain.ErrInvalidBatch }

func invalidBatch(format string, args ...any) error {
	return &InvalidBatchError{Reason: fmt.Sprintf(format, args...)}
}

// ImportedTask pairs a committed task with the temporary id it was proposed
// under, so callers can remap their own references.
type ImportedTask struct {
	TempID string
	Task   domain.Task
}

// Import validates and commits a batch of proposed tasks. Validation runs
// against the proposed graph before anything is created: a missing or
// duplicate temp id, an unresolved temp reference or a batch-internal cycle
// rejects the whole batch. Partial creation on an invalid batch is a
// correctness failure, never a degraded mode.
//
// Unknown existing-task ids follow the repair-forward policy of Create and
// are dropped with a note.
//
// Commit walks the batch in topological order, remapping temp ids to real ids
// as each task is created. Batch nodes are brand new, so no existing task can
// reach them and the commit itself cannot form a cycle.
func (g *Graph) Import(batch []ImportSpec) ([]ImportedTask, []string, error) {
	if len(batch) == 0 {
		return nil, nil, invalidBatch("empty batch")
	}

	index := make(map[string]int, len(batch))
	for i, spec := range batch {
		if spec.TempID == "" {
			return nil, nil, invalidBatch("task %d: empty temp id", i+1)
		}
		if _, dup := index[spec.TempID]; dup {
			return nil, nil, invalidBatch("duplicate temp id %q", spec.TempID)
		}
		if domain.NormalizeTitle(spec.Title) == "" {
			return nil, nil, invalidBatch("task %q: empty title", spec.TempID)
		}
		index[spec.TempID] = i
	}
	for _, spec := range batch {
		for _, dep := range spec.DependsOnTemp {
			if dep == spec.TempID {
				return nil, nil, invalidBatch("task %q depends on itself", spec.TempID)
			}
			if _, ok := index[dep]; !ok {
				return nil, nil, invalidBatch("task %q references unknown temp id %q", spec.TempID, dep)
			}
		}
	}

	order, err := topoOrder(batch, index)
	if err != nil {
		return nil, nil, err
	}

	var notes []string
	realID := make(map[string]string, len(batch))
	created := make([]ImportedTask, 0, len(batch))
	now := g.clock.Now()

	for _, i := range order {
		spec := batch[i]
		kind := spec.Kind
		if kind == "" {
			kind = domain.KindTask
		} else if !kind.IsValid() {
			notes = append(notes, fmt.Sprintf("task %q: unknown kind %q replaced with %q", spec.TempID, kind, domain.KindTask))
			kind = domain.KindTask
		}
		execution := spec.Execution
		if !execution.IsValid() {
			execution = domain.ExecutionManual
		}

		t := &domain.Task{
			ID:          uuid.NewString(),
			Title:       spec.Title,
			Description: spec.Description,
			Status:      domain.StatusOpen,
			Kind:        kind,
			Execution:   execution,
			Priority:    domain.ClampPriority(spec.Priority),
			Created:     now,
			Updated:     now,
		}
		for _, dep := range spec.DependsOnTemp {
			id := realID[dep]
			if slices.Contains(t.Dependencies, id) {
				continue
			}
			t.Dependencies = append(t.Dependencies, id)
		}
		for _, dep := range spec.DependsOnExisting {
			switch {
			case g.tasks[dep] == nil:
				notes = append(notes, fmt.Sprintf("task %q: dropped unknown dependency %s", spec.TempID, dep))
			case slices.Contains(t.Dependencies, dep):
				// Already linked through a temp reference.
			default:
				t.Dependencies = append(t.Dependencies, dep)
			}
		}

		g.insert(t)
		realID[spec.TempID] = t.ID
		created = append(created, ImportedTask{TempID: spec.TempID, Task: copyTask(t)})
	}

	return created, notes, nil
}

// topoOrder returns batch indices in a stable topological order: a task is
// emitted only after all its batch-internal dependencies, and otherwise in
// input order. Kahn's algorithm over the proposed subgraph; leftover nodes
// mean an internal cycle.
func topoOrder(batch []ImportSpec, index map[string]int) ([]int, error) {
	indeg := make([]int, len(batch))
	dependents := make([][]int, len(batch))
	for i, spec := range batch {
		seen := make(map[int]bool, len(spec.DependsOnTemp))
		for _, dep := range spec.DependsOnTemp {
			j := index[dep]
			if seen[j] {
				continue
			}
			seen[j] = true
			indeg[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// Min-index queue keeps the order stable with respect to the input.
	var queue []int
	for i := range batch {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(batch))
	for len(queue) > 0 {
		next := slices.Min(queue)
		queue = slices.DeleteFunc(queue, func(v int) bool { return v == next })
		order = append(order, next)
		for _, dep := range dependents[next] {
			indeg[dep]--
			if indeg[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(batch) {
		var stuck []string
		for i, spec := range batch {
			if indeg[i] > 0 {
				stuck = append(stuck, spec.TempID)
			}
		}
		return nil, invalidBatch("internal cycle among %v", stuck)
	}
	return order, nil
}
