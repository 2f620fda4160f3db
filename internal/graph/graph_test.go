package graph

import (
	"testing"
	"time"

	"github.com/okatsu/loom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a test double for domain.Clock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// mustCreate creates a task and fails the test on error.
func mustCreate(t *testing.T, g *Graph, title string, deps ...string) domain.Task {
	t.Helper()
	task, notes, err := g.Create(CreateSpec{Title: title, Dependencies: deps})
	require.NoError(t, err)
	require.Empty(t, notes)
	return task
}

// mustClose sets a task's status to closed.
func mustClose(t *testing.T, g *Graph, id string) {
	t.Helper()
	require.NoError(t, g.SetStatus(id, domain.StatusClosed, ""))
}

func TestGraph_Create_Success(t *testing.T) {
	// Setup
	clock := newTestClock()
	g := New(clock)

	// Execute
	task, notes, err := g.Create(CreateSpec{
		Title:       "Design schema",
		Description: "Tables and indexes",
		Kind:        domain.KindTask,
		Priority:    1,
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Design schema", task.Title)
	assert.Equal(t, domain.StatusOpen, task.Status)
	assert.Equal(t, domain.KindTask, task.Kind)
	assert.Equal(t, domain.ExecutionManual, task.Execution)
	assert.Equal(t, 1, task.Priority)
	assert.Equal(t, clock.now, task.Created)
	assert.Equal(t, clock.now, task.Updated)
}

func TestGraph_Create_EmptyTitle(t *testing.T) {
	g := New(newTestClock())

	_, _, err := g.Create(CreateSpec{Title: "   "})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestGraph_Create_DuplicateTitleReturnsExisting(t *testing.T) {
	// Setup
	g := New(newTestClock())
	first := mustCreate(t, g, "Write migration")

	// Execute: same title modulo case and whitespace
	second, notes, err := g.Create(CreateSpec{Title: "  write MIGRATION "})

	// Assert: no second task was created
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "already exists")
	assert.Equal(t, 1, g.Len())
}

func TestGraph_Create_UnknownKindRepaired(t *testing.T) {
	g := New(newTestClock())

	task, notes, err := g.Create(CreateSpec{Title: "A", Kind: domain.Kind("epic")})

	require.NoError(t, err)
	assert.Equal(t, domain.KindTask, task.Kind)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "unknown kind")
}

func TestGraph_Create_PriorityClamped(t *testing.T) {
	g := New(newTestClock())

	task, _, err := g.Create(CreateSpec{Title: "A", Priority: 99})

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLowest, task.Priority)
}

func TestGraph_Create_UnknownDependencyDropped(t *testing.T) {
	// Setup
	g := New(newTestClock())
	dep := mustCreate(t, g, "B")

	// Execute: one valid edge, one unknown
	task, notes, err := g.Create(CreateSpec{Title: "A", Dependencies: []string{dep.ID, "no-such-id"}})

	// Assert: the valid edge survives, the unknown one is dropped with a note
	require.NoError(t, err)
	assert.Equal(t, []string{dep.ID}, task.Dependencies)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "dropped dependency")
}

func TestGraph_UpdateTask_Success(t *testing.T) {
	// Setup
	clock := newTestClock()
	g := New(clock)
	task := mustCreate(t, g, "Old title")
	clock.now = clock.now.Add(time.Hour)

	// Execute
	title := "New title"
	priority := 0
	updated, notes, err := g.UpdateTask(task.ID, Update{Title: &title, Priority: &priority})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, 0, updated.Priority)
	assert.Equal(t, clock.now, updated.Updated)
	assert.Equal(t, task.Created, updated.Created)
}

func TestGraph_UpdateTask_NoFields(t *testing.T) {
	g := New(newTestClock())
	task := mustCreate(t, g, "A")

	_, _, err := g.UpdateTask(task.ID, Update{})

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestGraph_UpdateTask_NotFound(t *testing.T) {
	g := New(newTestClock())
	title := "x"

	_, _, err := g.UpdateTask("missing", Update{Title: &title})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGraph_UpdateTask_ReplaceDependencies(t *testing.T) {
	// Setup
	g := New(newTestClock())
	b := mustCreate(t, g, "B")
	c := mustCreate(t, g, "C")
	a := mustCreate(t, g, "A", b.ID)

	// Execute: replace {B} with {C, self, unknown}
	deps := []string{c.ID, a.ID, "missing"}
	updated, notes, err := g.UpdateTask(a.ID, Update{Dependencies: &deps})

	// Assert: only the valid edge survives
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, updated.Dependencies)
	assert.Len(t, notes, 2)
}

func TestGraph_Delete_ScrubsEdges(t *testing.T) {
	// Setup: A -> B, C -> B, and B has child D
	g := New(newTestClock())
	b := mustCreate(t, g, "B")
	a := mustCreate(t, g, "A", b.ID)
	c := mustCreate(t, g, "C", b.ID)
	children, _, err := g.Decompose(b.ID, []ChildSpec{{Title: "D"}}, domain.DecomposeAnd)
	require.NoError(t, err)

	// Execute
	ok := g.Delete(b.ID)

	// Assert: no edge to B survives anywhere, D became a root
	require.True(t, ok)
	gotA, _ := g.Get(a.ID)
	gotC, _ := g.Get(c.ID)
	gotD, _ := g.Get(children[0].ID)
	assert.Empty(t, gotA.Dependencies)
	assert.Empty(t, gotC.Dependencies)
	assert.Empty(t, gotD.ParentID)
	assert.Empty(t, g.InvalidDependencies())
}

func TestGraph_Delete_NotFound(t *testing.T) {
	g := New(newTestClock())

	assert.False(t, g.Delete("missing"))
}

func TestGraph_SetStatus_Success(t *testing.T) {
	g := New(newTestClock())
	task := mustCreate(t, g, "A")

	require.NoError(t, g.SetStatus(task.ID, domain.StatusInProgress, ""))

	got, _ := g.Get(task.ID)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestGraph_SetStatus_FailedRequiresReason(t *testing.T) {
	g := New(newTestClock())
	task := mustCreate(t, g, "A")

	require.NoError(t, g.SetStatus(task.ID, domain.StatusFailed, "upstream API gone"))

	got, _ := g.Get(task.ID)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "upstream API gone", got.FailureReason)
}

func TestGraph_SetStatus_ReasonWithoutFailed(t *testing.T) {
	g := New(newTestClock())
	task := mustCreate(t, g, "A")

	err := g.SetStatus(task.ID, domain.StatusClosed, "not a failure")

	assert.ErrorIs(t, err, domain.ErrFailureReasonMisuse)
}

func TestGraph_SetStatus_ReasonClearedOnRecovery(t *testing.T) {
	// Setup
	g := New(newTestClock())
	task := mustCreate(t, g, "A")
	require.NoError(t, g.SetStatus(task.ID, domain.StatusFailed, "flaky"))

	// Execute: reopen the failed task
	require.NoError(t, g.SetStatus(task.ID, domain.StatusOpen, ""))

	// Assert
	got, _ := g.Get(task.ID)
	assert.Empty(t, got.FailureReason)
}

func TestGraph_SetStatus_ContainerRejected(t *testing.T) {
	// Setup
	g := New(newTestClock())
	parent := mustCreate(t, g, "Parent")
	_, _, err := g.Decompose(parent.ID, []ChildSpec{{Title: "Child"}}, domain.DecomposeAnd)
	require.NoError(t, err)

	// Execute
	err = g.SetStatus(parent.ID, domain.StatusClosed, "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrContainerStatus)
}

func TestGraph_SetStatus_InvalidStatus(t *testing.T) {
	g := New(newTestClock())
	task := mustCreate(t, g, "A")

	err := g.SetStatus(task.ID, domain.Status("paused"), "")

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGraph_Get_ReturnsCopy(t *testing.T) {
	// Setup
	g := New(newTestClock())
	b := mustCreate(t, g, "B")
	a := mustCreate(t, g, "A", b.ID)

	// Execute: mutate the returned copy
	got, ok := g.Get(a.ID)
	require.True(t, ok)
	got.Title = "mutated"
	got.Dependencies[0] = "mutated"

	// Assert: the graph is unaffected
	fresh, _ := g.Get(a.ID)
	assert.Equal(t, "A", fresh.Title)
	assert.Equal(t, []string{b.ID}, fresh.Dependencies)
}

func TestLoad_RoundTrip(t *testing.T) {
	// Setup: a small graph with edges, children and statuses
	clock := newTestClock()
	g := New(clock)
	b := mustCreate(t, g, "B")
	a := mustCreate(t, g, "A", b.ID)
	_, _, err := g.Decompose(a.ID, []ChildSpec{{Title: "A1"}, {Title: "A2"}}, domain.DecomposeOrRace)
	require.NoError(t, err)
	mustClose(t, g, b.ID)

	// Execute: snapshot and reload
	snapshot := g.Snapshot()
	reloaded, notes := Load(snapshot, clock)

	// Assert: identical graph, no repair notes
	assert.Empty(t, notes)
	assert.Equal(t, snapshot, reloaded.Snapshot())
}

func TestLoad_ScrubsIdentityDamage(t *testing.T) {
	// Setup: a snapshot with duplicate ids, an empty id, an invalid status
	// and a dangling parent
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "a", Title: "A", Status: domain.StatusOpen, Created: now, Updated: now},
		{ID: "a", Title: "A again", Status: domain.StatusOpen},
		{ID: "", Title: "no id", Status: domain.StatusOpen},
		{ID: "b", Title: "B", Status: domain.Status("bogus"), ParentID: "gone"},
	}

	// Execute
	g, notes := Load(tasks, newTestClock())

	// Assert
	assert.Equal(t, 2, g.Len())
	b, ok := g.Get("b")
	require.True(t, ok)
	assert.Equal(t, domain.StatusOpen, b.Status)
	assert.Empty(t, b.ParentID)
	assert.Len(t, notes, 4)
}

func TestLoad_KeepsDanglingEdgesForRepair(t *testing.T) {
	// Setup: an edge to a task that no longer exists
	tasks := []domain.Task{
		{ID: "a", Title: "A", Status: domain.StatusOpen, Dependencies: []string{"gone"}},
	}

	// Execute
	g, notes := Load(tasks, newTestClock())

	// Assert: the edge is kept, noted, and visible to the health check
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "dangling")
	a, _ := g.Get("a")
	assert.Equal(t, []string{"gone"}, a.Dependencies)
	assert.Equal(t, []Edge{{From: "a", To: "gone"}}, g.InvalidDependencies())
}

func TestLoad_CollapsesDuplicateEdges(t *testing.T) {
	tasks := []domain.Task{
		{ID: "b", Title: "B", Status: domain.StatusOpen},
		{ID: "a", Title: "A", Status: domain.StatusOpen, Dependencies: []string{"b", "b"}},
	}

	g, notes := Load(tasks, newTestClock())

	require.Len(t, notes, 1)
	a, _ := g.Get("a")
	assert.Equal(t, []string{"b"}, a.Dependencies)
}

func TestLoad_BreaksParentLoops(t *testing.T) {
	// Setup: a <-> b parent loop
	tasks := []domain.Task{
		{ID: "a", Title: "A", Status: domain.StatusOpen, ParentID: "b"},
		{ID: "b", Title: "B", Status: domain.StatusOpen, ParentID: "a"},
	}

	// Execute
	g, notes := Load(tasks, newTestClock())

	// Assert: at least one parent pointer was cleared
	require.NotEmpty(t, notes)
	a, _ := g.Get("a")
	b, _ := g.Get("b")
	assert.True(t, a.ParentID == "" || b.ParentID == "")
}
