package graph

import (
	"testing"
	"time"

	"github.com/okatsu/loom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Ready_DependenciesGate(t *testing.T) {
	// Setup: B -> A with A open
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B", a.ID)

	// Only A is ready until it closes
	ready := g.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, a.ID, ready[0].ID)

	// Execute: close A
	mustClose(t, g, a.ID)

	// Assert: now B is the ready one
	ready = g.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, b.ID, ready[0].ID)
}

func TestGraph_Ready_UsesEffectiveStatus(t *testing.T) {
	// Setup: B waits on a container whose children decide its status
	g := New(newTestClock())
	parent := mustCreate(t, g, "Parent")
	children, _, err := g.Decompose(parent.ID, []ChildSpec{{Title: "C1"}}, domain.DecomposeAnd)
	require.NoError(t, err)
	b := mustCreate(t, g, "B", parent.ID)

	// The container is open, so B is blocked
	for _, task := range g.Ready() {
		assert.NotEqual(t, b.ID, task.ID)
	}

	// Execute: closing the child closes the container
	mustClose(t, g, children[0].ID)

	// Assert: B became ready without anyone touching the container
	ids := make([]string, 0)
	for _, task := range g.Ready() {
		ids = append(ids, task.ID)
	}
	assert.Contains(t, ids, b.ID)
}

func TestGraph_Ready_InProgressNotReady(t *testing.T) {
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	require.NoError(t, g.SetStatus(a.ID, domain.StatusInProgress, ""))

	assert.Empty(t, g.Ready())
}

func TestGraph_Blocked(t *testing.T) {
	// Setup
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B", a.ID)
	mustCreate(t, g, "C")

	// Execute
	blocked := g.Blocked()

	// Assert: only B is blocked
	require.Len(t, blocked, 1)
	assert.Equal(t, b.ID, blocked[0].ID)
}

func TestGraph_Blockers(t *testing.T) {
	// Setup: C -> {A closed, B open}
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B")
	c := mustCreate(t, g, "C", a.ID, b.ID)
	mustClose(t, g, a.ID)

	// Execute
	blockers, err := g.Blockers(c.ID)

	// Assert
	require.NoError(t, err)
	require.Len(t, blockers, 1)
	assert.Equal(t, b.ID, blockers[0].ID)
}

func TestGraph_Blocking(t *testing.T) {
	// Setup: {B, C} -> A, C already in progress
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B", a.ID)
	c := mustCreate(t, g, "C", a.ID)
	require.NoError(t, g.SetStatus(c.ID, domain.StatusInProgress, ""))

	// Execute
	blocking, err := g.Blocking(a.ID)

	// Assert: only the open dependent counts
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, b.ID, blocking[0].ID)

	// A closed task blocks nothing
	mustClose(t, g, a.ID)
	blocking, err = g.Blocking(a.ID)
	require.NoError(t, err)
	assert.Empty(t, blocking)
}

func TestGraph_UnblockScore_LastRemainingDependency(t *testing.T) {
	// Setup: C -> {A, B}; D -> A. Closing A makes D ready but not C.
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B")
	mustCreate(t, g, "C", a.ID, b.ID)
	mustCreate(t, g, "D", a.ID)

	// Execute
	score, err := g.UnblockScore(a.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	// Closing B makes A the last unclosed dependency of C as well
	mustClose(t, g, b.ID)
	score, err = g.UnblockScore(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestGraph_TransitiveUnblockScore_PriorityWeighted(t *testing.T) {
	// Setup: B(priority 0) -> A, C(priority 4) -> A
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	_, _, err := g.Create(CreateSpec{Title: "B", Dependencies: []string{a.ID}, Priority: 0})
	require.NoError(t, err)
	_, _, err = g.Create(CreateSpec{Title: "C", Dependencies: []string{a.ID}, Priority: 4})
	require.NoError(t, err)

	// Execute
	score, err := g.TransitiveUnblockScore(a.ID)

	// Assert: priority 0 weighs 5, priority 4 weighs 1
	require.NoError(t, err)
	assert.Equal(t, 6, score)
}

func TestGraph_BlockerImportance_Saturates(t *testing.T) {
	// Setup: many high-priority dependents push the score past saturation
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	for i := 0; i < 5; i++ {
		_, _, err := g.Create(CreateSpec{
			Title:        string(rune('B' + i)),
			Dependencies: []string{a.ID},
			Priority:     0,
		})
		require.NoError(t, err)
	}

	// Execute
	importance, err := g.BlockerImportance(a.ID)

	// Assert: 5 dependents * weight 5 = 25, clamped to 1.0
	require.NoError(t, err)
	assert.Equal(t, 1.0, importance)
}

func TestGraph_PrioritizedReady_Ordering(t *testing.T) {
	// Setup: "Core" unblocks a chain of work, "Chore" unblocks nothing
	g := New(newTestClock())
	core := mustCreate(t, g, "Core")
	chore := mustCreate(t, g, "Chore")
	mid := mustCreate(t, g, "Mid", core.ID)
	mustCreate(t, g, "Top", mid.ID)

	// Execute
	ready := g.PrioritizedReady()

	// Assert: the unblocking task outranks the isolated one
	require.Len(t, ready, 2)
	assert.Equal(t, core.ID, ready[0].Task.ID)
	assert.Equal(t, chore.ID, ready[1].Task.ID)
	assert.Greater(t, ready[0].Score, ready[1].Score)
	assert.Contains(t, ready[0].Reasons, "unblocks 1 task(s) immediately")
}

func TestGraph_PrioritizedReady_TiesKeepCreationOrder(t *testing.T) {
	// Setup: two identical isolated tasks
	g := New(newTestClock())
	first := mustCreate(t, g, "First")
	second := mustCreate(t, g, "Second")

	// Execute
	ready := g.PrioritizedReady()

	// Assert
	require.Len(t, ready, 2)
	assert.Equal(t, ready[0].Score, ready[1].Score)
	assert.Equal(t, first.ID, ready[0].Task.ID)
	assert.Equal(t, second.ID, ready[1].Task.ID)
}

func TestGraph_NextTask(t *testing.T) {
	g := New(newTestClock())

	// Empty graph has no next task
	assert.Nil(t, g.NextTask())

	core := mustCreate(t, g, "Core")
	mustCreate(t, g, "Dependent", core.ID)

	next := g.NextTask()
	require.NotNil(t, next)
	assert.Equal(t, core.ID, next.Task.ID)
}

func TestGraph_Score_AutomationBonus(t *testing.T) {
	// Setup: identical tasks except for the execution mode
	g := New(newTestClock())
	_, _, err := g.Create(CreateSpec{Title: "Manual"})
	require.NoError(t, err)
	auto, _, err := g.Create(CreateSpec{Title: "Auto", Execution: domain.ExecutionAuto})
	require.NoError(t, err)

	// Execute
	ready := g.PrioritizedReady()

	// Assert: the automation-eligible task ranks first
	require.Len(t, ready, 2)
	assert.Equal(t, auto.ID, ready[0].Task.ID)
	assert.Contains(t, ready[0].Reasons, "eligible for automation")
}

func TestGraph_Score_AgingBonus(t *testing.T) {
	// Setup: a manual task created long ago
	clock := newTestClock()
	g := New(clock)
	old := mustCreate(t, g, "Old")
	clock.now = clock.now.Add(8 * 24 * time.Hour)
	fresh := mustCreate(t, g, "Fresh")

	// Execute
	ready := g.PrioritizedReady()

	// Assert: the aged task ranks above the fresh one
	require.Len(t, ready, 2)
	assert.Equal(t, old.ID, ready[0].Task.ID)
	assert.Equal(t, fresh.ID, ready[1].Task.ID)
	assert.Contains(t, ready[0].Reasons, "open for 8 day(s)")
}
