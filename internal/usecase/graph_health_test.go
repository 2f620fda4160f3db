package usecase

import (
	"context"
	"testing"

	"github.com/okatsu/loom/internal/graph"
	"github.com/okatsu/loom/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphHealth_Execute_ReportsWithoutMutating(t *testing.T) {
	// Setup: one dangling edge and one redundant shortcut
	a := seedTask("a", "A")
	b := seedTask("b", "B")
	b.Dependencies = []string{"a"}
	c := seedTask("c", "C")
	c.Dependencies = []string{"b", "a", "gone"}
	store := testutil.NewMockStore(a, b, c)
	uc := NewGraphHealth(store, newClock(), nil)

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Report.Healthy)
	assert.Equal(t, []graph.Edge{{From: "c", To: "a"}}, out.Report.Redundant)
	assert.Equal(t, []graph.Edge{{From: "c", To: "gone"}}, out.Report.Invalid)
	assert.Empty(t, out.Report.Cycles)

	// Read-only: the findings stay in the snapshot
	assert.Zero(t, store.SaveCalls)
	for _, task := range store.Tasks {
		if task.ID == "c" {
			assert.Equal(t, []string{"b", "a", "gone"}, task.Dependencies)
		}
	}
}

func TestGraphHealth_Execute_HealthyGraph(t *testing.T) {
	store := testutil.NewMockStore(seedTask("a", "A"))
	uc := NewGraphHealth(store, newClock(), nil)

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Report.Healthy)
}

func TestRepairGraph_Execute_RemovesAndPersists(t *testing.T) {
	// Setup
	a := seedTask("a", "A")
	b := seedTask("b", "B")
	b.Dependencies = []string{"a"}
	c := seedTask("c", "C")
	c.Dependencies = []string{"b", "a", "gone"}
	store := testutil.NewMockStore(a, b, c)
	uc := NewRepairGraph(store, newClock(), nil)

	// Execute
	out, err := uc.Execute(context.Background(), RepairGraphInput{
		FixInvalid:   true,
		FixRedundant: true,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.InvalidRemoved)
	assert.Equal(t, 1, out.RedundantRemoved)
	assert.Equal(t, 1, store.SaveCalls)
	for _, task := range store.Tasks {
		if task.ID == "c" {
			assert.Equal(t, []string{"b"}, task.Dependencies)
		}
	}
}

func TestRepairGraph_Execute_NoSelectionIsNoOp(t *testing.T) {
	store := testutil.NewMockStore(seedTask("a", "A"))
	uc := NewRepairGraph(store, newClock(), nil)

	out, err := uc.Execute(context.Background(), RepairGraphInput{})

	require.NoError(t, err)
	assert.Zero(t, out.InvalidRemoved)
	assert.Zero(t, out.RedundantRemoved)
	assert.Zero(t, store.SaveCalls)
}
