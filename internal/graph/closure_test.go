package graph

import (
	"sort"
	"testing"

	"github.com/okatsu/loom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds D -> {B, C} -> A and returns the four tasks.
func diamond(t *testing.T) (*Graph, domain.Task, domain.Task, domain.Task, domain.Task) {
	t.Helper()
	g := New(newTestClock())
	a := mustCreate(t, g, "A")
	b := mustCreate(t, g, "B", a.ID)
	c := mustCreate(t, g, "C", a.ID)
	d := mustCreate(t, g, "D", b.ID, c.ID)
	return g, a, b, c, d
}

func TestGraph_TransitiveDependencies_Diamond(t *testing.T) {
	g, a, b, c, d := diamond(t)

	deps, err := g.TransitiveDependencies(d.ID)

	require.NoError(t, err)
	want := []string{a.ID, b.ID, c.ID}
	sort.Strings(want)
	assert.Equal(t, want, deps)
}

func TestGraph_TransitiveDependencies_ExcludesSelf(t *testing.T) {
	g, a, _, _, _ := diamond(t)

	deps, err := g.TransitiveDependencies(a.ID)

	require.NoError(t, err)
	assert.Empty(t, deps)
	assert.NotContains(t, deps, a.ID)
}

func TestGraph_TransitiveDependents_Diamond(t *testing.T) {
	g, a, b, c, d := diamond(t)

	dependents, err := g.TransitiveDependents(a.ID)

	require.NoError(t, err)
	want := []string{b.ID, c.ID, d.ID}
	sort.Strings(want)
	assert.Equal(t, want, dependents)
}

func TestGraph_TransitiveDependents_Leaf(t *testing.T) {
	g, _, _, _, d := diamond(t)

	dependents, err := g.TransitiveDependents(d.ID)

	require.NoError(t, err)
	assert.Empty(t, dependents)
}

func TestGraph_TransitiveClosure_NotFound(t *testing.T) {
	g := New(newTestClock())

	_, err := g.TransitiveDependencies("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = g.TransitiveDependents("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGraph_TransitiveDependencies_NoDoubleCount(t *testing.T) {
	// The diamond reaches A over two paths; A must appear once.
	g, a, _, _, d := diamond(t)

	deps, err := g.TransitiveDependencies(d.ID)

	require.NoError(t, err)
	count := 0
	for _, id := range deps {
		if id == a.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
