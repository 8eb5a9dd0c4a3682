package layout

import (
	"math"
	"time"

	"plexus/graph"
)

// epsilon separates exactly coincident nodes before any force math so the
// unit-vector division is always defined.
const epsilon = 1e-3

// ForceSimulation relaxes node positions with pairwise repulsion and a
// softly damped collision correction. There is deliberately no attractive
// link force: topology never dictates layout, it only exists to be drawn,
// so users keep full manual control while overlap is still resolved.
//
// The simulation is a pure step function over the model's nodes. It owns no
// goroutine and no timer; the caller ticks it, normally once per display
// frame, and it goes cold on its own once alpha drops below the threshold
// or the relaxation timeout passes.
type ForceSimulation struct {
	model *graph.Model
	cfg   Config

	alpha       float64
	alphaTarget float64
	running     bool
	deadline    time.Time

	now func() time.Time // stubbed in tests
}

// NewForceSimulation creates a simulation over the model's nodes, starting
// warm so a freshly loaded graph spreads out immediately.
func NewForceSimulation(model *graph.Model, cfg Config) *ForceSimulation {
	f := &ForceSimulation{
		model: model,
		cfg:   cfg,
		now:   time.Now,
	}
	f.Reheat()
	return f
}

// SetClock overrides the timeout clock.
func (f *ForceSimulation) SetClock(now func() time.Time) {
	f.now = now
}

// Alpha returns the current simulation temperature.
func (f *ForceSimulation) Alpha() float64 {
	return f.alpha
}

// Running reports whether the simulation still wants ticks.
func (f *ForceSimulation) Running() bool {
	return f.running
}

// Reheat resets the temperature after a structural change or an explicit
// restart and resumes ticking.
func (f *ForceSimulation) Reheat() {
	if f.alpha < f.cfg.AlphaRestart {
		f.alpha = f.cfg.AlphaRestart
	}
	f.running = true
	f.deadline = f.now().Add(time.Duration(f.cfg.TimeoutSeconds * float64(time.Second)))
}

// Stop halts the simulation. Idempotent; Step is a no-op until Reheat.
func (f *ForceSimulation) Stop() {
	f.running = false
	f.alphaTarget = 0
}

// StartDrag pins the given nodes at their current positions and raises the
// alpha target so the graph keeps reacting for the whole drag.
func (f *ForceSimulation) StartDrag(ids []int) {
	for _, id := range ids {
		if n := f.model.Node(id); n != nil {
			n.Pin(n.X, n.Y)
		}
	}
	f.alphaTarget = f.cfg.AlphaDragTarget
	f.Reheat()
}

// EndDrag unpins the nodes and lets alpha cool back to zero.
func (f *ForceSimulation) EndDrag(ids []int) {
	for _, id := range ids {
		if n := f.model.Node(id); n != nil {
			n.Unpin()
		}
	}
	f.alphaTarget = 0
}

// MoveNode repositions a dragged node, keeping its pin on the pointer.
func (f *ForceSimulation) MoveNode(id int, x, y float64) {
	n := f.model.Node(id)
	if n == nil {
		return
	}
	n.X, n.Y = x, y
	if n.Pinned {
		n.Pin(x, y)
	}
}

// Step advances the simulation by dt seconds and reports whether any
// position changed. A simulation with no nodes is a no-op.
func (f *ForceSimulation) Step(dt float64) bool {
	if !f.running || dt <= 0 {
		return false
	}
	nodes := f.model.Nodes
	if len(nodes) == 0 {
		f.running = false
		return false
	}
	if f.now().After(f.deadline) {
		f.Stop()
		return false
	}

	f.separateCoincident(nodes)
	f.applyRepulsion(nodes, dt)
	f.applyCollision(nodes)
	changed := f.integrate(nodes)

	// Geometric decay toward the target; a held drag target keeps the
	// simulation warm until release.
	f.alpha += (f.alphaTarget - f.alpha) * f.cfg.AlphaDecay
	if f.alphaTarget == 0 && f.alpha < f.cfg.AlphaMin {
		f.Stop()
	}
	return changed
}

// separateCoincident nudges exactly overlapping pairs apart by epsilon in a
// direction derived from the node id, so the nudge is deterministic.
func (f *ForceSimulation) separateCoincident(nodes []*graph.Node) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.X == b.X && a.Y == b.Y {
				angle := float64(b.ID)
				if !b.Pinned {
					b.X += epsilon * math.Cos(angle)
					b.Y += epsilon * math.Sin(angle)
				} else if !a.Pinned {
					a.X -= epsilon * math.Cos(angle)
					a.Y -= epsilon * math.Sin(angle)
				}
			}
		}
	}
}

func (f *ForceSimulation) applyRepulsion(nodes []*graph.Node, dt float64) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist > f.cfg.InteractionRadius || dist == 0 {
				continue
			}
			// Inverse-distance force over a clamped distance band.
			band := math.Min(math.Max(dist, f.cfg.MinDistance), f.cfg.MaxDistance)
			force := f.cfg.Repulsion / band * f.alpha * dt
			ux, uy := dx/dist, dy/dist
			if !a.Pinned {
				a.VX -= ux * force
				a.VY -= uy * force
			}
			if !b.Pinned {
				b.VX += ux * force
				b.VY += uy * force
			}
		}
	}
}

// applyCollision steers overlapping pairs toward a gap of summed radii plus
// the margin. The correction is damped rather than a hard non-penetration
// constraint, so dense clusters relax over a few frames instead of popping.
func (f *ForceSimulation) applyCollision(nodes []*graph.Node) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			target := a.Radius + b.Radius + f.cfg.CollisionMargin
			if dist == 0 || dist >= target {
				continue
			}
			push := (target - dist) * f.cfg.CollisionStrength / 2
			ux, uy := dx/dist, dy/dist
			if !a.Pinned {
				a.VX -= ux * push
				a.VY -= uy * push
			}
			if !b.Pinned {
				b.VX += ux * push
				b.VY += uy * push
			}
		}
	}
}

func (f *ForceSimulation) integrate(nodes []*graph.Node) bool {
	changed := false
	for _, n := range nodes {
		if n.Pinned {
			// Pinned nodes stay exactly on the pointer.
			n.X, n.Y = n.PinX, n.PinY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= f.cfg.VelocityDecay
		n.VY *= f.cfg.VelocityDecay
		if math.Abs(n.VX) < 1e-6 && math.Abs(n.VY) < 1e-6 {
			continue
		}
		n.X += n.VX
		n.Y += n.VY
		changed = true
	}
	return changed
}
