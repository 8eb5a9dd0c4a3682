package layout

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexus/geometry"
	"plexus/graph"
)

// chainModel builds a line of nodes spaced so only adjacent pairs fall
// within the repulsion distance.
func chainModel(n int, spacing float64) *graph.Model {
	m := graph.NewModel()
	for i := 0; i < n; i++ {
		m.AddNode(geometry.Point{X: float64(i) * spacing, Y: 0}, fmt.Sprintf("n%d", i))
	}
	return m
}

func TestMoveDisplacesNearbyNeighbor(t *testing.T) {
	m := graph.NewModel()
	mover := m.AddNode(geometry.Point{X: 0, Y: 0}, "mover")
	near := m.AddNode(geometry.Point{X: 60, Y: 0}, "near")
	far := m.AddNode(geometry.Point{X: 1000, Y: 0}, "far")
	p := NewPropagator(m, DefaultConfig())

	p.MoveNode(mover.ID, 10, 0)

	// The displaced neighbor washes back over the mover a little, so the
	// mover only lands near its target.
	assert.InDelta(t, 10.0, mover.X, 8)
	assert.Greater(t, near.X, 60.0, "neighbor within reach must be pushed away")
	assert.Equal(t, 1000.0, far.X, "node out of reach must not move")
}

func TestCascadeStopsAtDepthCap(t *testing.T) {
	cfg := DefaultConfig()
	m := chainModel(40, cfg.RepulsionDistance-20)
	p := NewPropagator(m, cfg)

	p.MoveNode(m.Nodes[0].ID, 1, 0)

	// The cascade reaches at most one new chain link per depth level, so
	// nothing at or beyond the cap can have moved.
	for i := cfg.DepthCap + 1; i < len(m.Nodes); i++ {
		assert.Equal(t, float64(i)*(cfg.RepulsionDistance-20), m.Nodes[i].X,
			"node %d moved beyond the depth cap", i)
	}
	assert.NotEqual(t, cfg.RepulsionDistance-20, m.Nodes[1].X, "adjacent node must move")
}

func TestCascadeIsDeterministic(t *testing.T) {
	run := func() []float64 {
		m := chainModel(20, 80)
		NewPropagator(m, DefaultConfig()).MoveNode(m.Nodes[0].ID, 5, 3)
		out := make([]float64, 0, len(m.Nodes)*2)
		for _, n := range m.Nodes {
			out = append(out, n.X, n.Y)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestDensePackedClusterCompletesQuickly(t *testing.T) {
	m := graph.NewModel()
	for i := 0; i < 500; i++ {
		m.AddNode(geometry.Point{
			X: float64(i%25) * 8,
			Y: float64(i/25) * 8,
		}, fmt.Sprintf("n%d", i))
	}
	p := NewPropagator(m, DefaultConfig())

	start := time.Now()
	p.MoveNode(m.Nodes[250].ID, 100, 80)
	elapsed := time.Since(start)

	require.Less(t, elapsed, 2*time.Second, "dense-cluster move must stay interactive")
	for _, n := range m.Nodes {
		assert.False(t, n.X != n.X || n.Y != n.Y, "position went NaN")
	}
}

func TestCoincidentNodesPushedDeterministically(t *testing.T) {
	m := graph.NewModel()
	a := m.AddNode(geometry.Point{X: 10, Y: 10}, "a")
	b := m.AddNode(geometry.Point{X: 10, Y: 10}, "b")
	p := NewPropagator(m, DefaultConfig())

	p.MoveNode(a.ID, 10, 10)
	assert.NotEqual(t, a.Pos(), b.Pos(), "coincident neighbor must be nudged off the mover")
}

func TestStepAndLifecycleAreNoOps(t *testing.T) {
	m := chainModel(3, 50)
	p := NewPropagator(m, DefaultConfig())

	assert.False(t, p.Step(dt))
	p.Reheat()
	p.Stop()
	p.StartDrag([]int{1})
	p.EndDrag([]int{1})
	assert.False(t, m.Nodes[0].Pinned, "propagator never pins")
}
