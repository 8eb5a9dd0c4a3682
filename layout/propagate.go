package layout

import (
	"math"

	"plexus/graph"
)

// Propagator is the manual-mode layout strategy: when the user moves a
// node, nearby nodes are pushed aside immediately and the push cascades
// outward with a shrinking multiplier. Everything happens synchronously
// inside the input event, so no per-frame scheduling is involved.
//
// The cascade runs as an explicit breadth-first work queue with a hard
// depth cap, which keeps it terminating on dense or cyclic neighborhoods
// and bounds worst-case work by DepthCap times the node count.
type Propagator struct {
	model *graph.Model
	cfg   Config
}

// NewPropagator creates a propagator over the model's nodes.
func NewPropagator(model *graph.Model, cfg Config) *Propagator {
	return &Propagator{model: model, cfg: cfg}
}

// MoveNode repositions the node and propagates displacement to neighbors.
func (p *Propagator) MoveNode(id int, x, y float64) {
	n := p.model.Node(id)
	if n == nil {
		return
	}
	n.X, n.Y = x, y
	p.Propagate(id)
}

// Step is a no-op: the propagator does all its work inside MoveNode.
func (p *Propagator) Step(dt float64) bool { return false }

// Reheat is a no-op; there is no temperature in manual mode.
func (p *Propagator) Reheat() {}

// Stop is a no-op.
func (p *Propagator) Stop() {}

// StartDrag is a no-op; manual mode needs no drag bracketing.
func (p *Propagator) StartDrag(ids []int) {}

// EndDrag is a no-op.
func (p *Propagator) EndDrag(ids []int) {}

// workItem is one pending displacement source in the cascade.
type workItem struct {
	id    int
	mult  float64
	depth int
}

// Propagate pushes every node within RepulsionDistance of the seed away
// from it, then cascades from nodes that moved more than MinMotion.
func (p *Propagator) Propagate(seedID int) {
	if p.model.Node(seedID) == nil {
		return
	}
	queue := []workItem{{id: seedID, mult: 1, depth: 0}}

	// Independent safety bound alongside the depth cap: one displacement
	// wave per node per depth level is the worst case.
	budget := p.cfg.DepthCap * len(p.model.Nodes)

	for len(queue) > 0 && budget > 0 {
		item := queue[0]
		queue = queue[1:]
		budget--

		src := p.model.Node(item.id)
		if src == nil {
			continue
		}
		for _, other := range p.model.Nodes {
			if other.ID == item.id {
				continue
			}
			moved := p.displace(src, other, item.mult)
			// Enqueueing past the work budget only grows a queue that
			// will never be drained.
			if len(queue) >= budget {
				continue
			}
			if moved > p.cfg.MinMotion && item.depth+1 < p.cfg.DepthCap {
				queue = append(queue, workItem{
					id:    other.ID,
					mult:  item.mult * p.cfg.Decay,
					depth: item.depth + 1,
				})
			}
		}
	}
}

// displace pushes other directly away from src with linear falloff and
// returns the displacement magnitude.
func (p *Propagator) displace(src, other *graph.Node, mult float64) float64 {
	dx, dy := other.X-src.X, other.Y-src.Y
	dist := math.Hypot(dx, dy)
	if dist >= p.cfg.RepulsionDistance {
		return 0
	}
	var ux, uy float64
	if dist < epsilon {
		// Coincident: push in a direction derived from the id so the
		// result is deterministic.
		angle := float64(other.ID)
		ux, uy = math.Cos(angle), math.Sin(angle)
		dist = epsilon
	} else {
		ux, uy = dx/dist, dy/dist
	}
	mag := p.cfg.Strength * mult * (p.cfg.RepulsionDistance - dist)
	other.X += ux * mag
	other.Y += uy * mag
	return mag
}
