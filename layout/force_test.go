package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexus/geometry"
	"plexus/graph"
)

const dt = 1.0 / 30

func overlap(m *graph.Model, cfg Config) float64 {
	a, b := m.Nodes[0], m.Nodes[1]
	target := a.Radius + b.Radius + cfg.CollisionMargin
	return target - geometry.Distance(a.Pos(), b.Pos())
}

func TestOverlappingPairSeparates(t *testing.T) {
	m := graph.NewModel()
	m.AddNode(geometry.Point{X: 100, Y: 100}, "a")
	m.AddNode(geometry.Point{X: 104, Y: 100}, "b")
	cfg := DefaultConfig()
	sim := NewForceSimulation(m, cfg)

	prev := overlap(m, cfg)
	require.Greater(t, prev, 0.0, "nodes must start overlapping")

	for i := 0; i < 2000 && sim.Running(); i++ {
		sim.Step(dt)
		cur := overlap(m, cfg)
		if cur > 0 {
			assert.Less(t, cur, prev, "overlap must shrink every tick (tick %d)", i)
		}
		prev = cur
	}
	assert.LessOrEqual(t, prev, 0.0, "collision margin should be satisfied before the engine goes cold")
}

func TestCoincidentNodesDoNotProduceNaN(t *testing.T) {
	m := graph.NewModel()
	m.AddNode(geometry.Point{X: 50, Y: 50}, "a")
	m.AddNode(geometry.Point{X: 50, Y: 50}, "b")
	sim := NewForceSimulation(m, DefaultConfig())

	for i := 0; i < 200; i++ {
		sim.Step(dt)
	}
	for _, n := range m.Nodes {
		assert.False(t, n.X != n.X || n.Y != n.Y, "position went NaN")
	}
	assert.Greater(t, geometry.Distance(m.Nodes[0].Pos(), m.Nodes[1].Pos()), 1.0)
}

func TestEmptySimulationIsNoOp(t *testing.T) {
	sim := NewForceSimulation(graph.NewModel(), DefaultConfig())
	assert.False(t, sim.Step(dt))
	assert.False(t, sim.Running())
}

func TestAlphaDecaysToHalt(t *testing.T) {
	m := graph.NewModel()
	m.AddNode(geometry.Point{X: 0, Y: 0}, "a")
	m.AddNode(geometry.Point{X: 500, Y: 0}, "b") // beyond interaction radius
	sim := NewForceSimulation(m, DefaultConfig())

	for i := 0; i < 10000 && sim.Running(); i++ {
		sim.Step(dt)
	}
	assert.False(t, sim.Running(), "alpha decay must halt the simulation")
	assert.Less(t, sim.Alpha(), DefaultConfig().AlphaMin)
}

func TestTimeoutHaltsSimulation(t *testing.T) {
	m := graph.NewModel()
	m.AddNode(geometry.Point{X: 0, Y: 0}, "a")
	m.AddNode(geometry.Point{X: 10, Y: 0}, "b")
	cfg := DefaultConfig()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sim := NewForceSimulation(m, cfg)
	sim.SetClock(func() time.Time { return now })
	sim.Reheat()

	now = now.Add(time.Duration(cfg.TimeoutSeconds*float64(time.Second)) + time.Second)
	assert.False(t, sim.Step(dt))
	assert.False(t, sim.Running())
}

func TestStopIsIdempotent(t *testing.T) {
	m := graph.NewModel()
	m.AddNode(geometry.Point{}, "a")
	sim := NewForceSimulation(m, DefaultConfig())

	sim.Stop()
	sim.Stop()
	assert.False(t, sim.Running())
	assert.False(t, sim.Step(dt))

	sim.Reheat()
	assert.True(t, sim.Running())
}

func TestPinnedNodeStaysPutButStillRepels(t *testing.T) {
	m := graph.NewModel()
	a := m.AddNode(geometry.Point{X: 100, Y: 100}, "pinned")
	b := m.AddNode(geometry.Point{X: 110, Y: 100}, "free")
	sim := NewForceSimulation(m, DefaultConfig())

	sim.StartDrag([]int{a.ID})
	start := b.Pos()
	for i := 0; i < 100; i++ {
		sim.Step(dt)
	}
	assert.Equal(t, 100.0, a.X)
	assert.Equal(t, 100.0, a.Y)
	assert.Greater(t, geometry.Distance(start, b.Pos()), 0.0, "free node must be pushed by the pinned one")

	sim.EndDrag([]int{a.ID})
	assert.False(t, a.Pinned)
}

func TestMoveNodeFollowsPointerWhilePinned(t *testing.T) {
	m := graph.NewModel()
	a := m.AddNode(geometry.Point{X: 0, Y: 0}, "a")
	sim := NewForceSimulation(m, DefaultConfig())

	sim.StartDrag([]int{a.ID})
	sim.MoveNode(a.ID, 300, 200)
	sim.Step(dt)

	assert.Equal(t, 300.0, a.X)
	assert.Equal(t, 200.0, a.Y)
}

func TestDragHoldsAlphaWarm(t *testing.T) {
	m := graph.NewModel()
	a := m.AddNode(geometry.Point{}, "a")
	m.AddNode(geometry.Point{X: 30, Y: 0}, "b")
	sim := NewForceSimulation(m, DefaultConfig())

	sim.StartDrag([]int{a.ID})
	for i := 0; i < 5000; i++ {
		sim.Step(dt)
	}
	assert.True(t, sim.Running(), "a held drag target must keep the simulation warm")

	sim.EndDrag([]int{a.ID})
	for i := 0; i < 10000 && sim.Running(); i++ {
		sim.Step(dt)
	}
	assert.False(t, sim.Running(), "release lets alpha cool to the floor")
}
