// Package layout provides the two spatial-arrangement strategies that keep
// nodes readably separated: a continuously ticked force simulation and a
// synchronous local repulsion propagator for manual mode.
package layout

// Engine is a spatial-arrangement strategy driven by the editing session.
// Engines write only the spatial fields of nodes (position, velocity, pin);
// graph structure is never touched.
type Engine interface {
	// Step advances the layout by dt seconds and reports whether any
	// position changed. The caller schedules ticks, typically once per
	// display frame.
	Step(dt float64) bool

	// MoveNode applies a user-driven move of the node to (x, y). Engines
	// decide what follows: pinning for a simulation, immediate neighbor
	// displacement for a propagator.
	MoveNode(id int, x, y float64)

	// StartDrag and EndDrag bracket a user drag of the given nodes. The
	// force simulation pins them and raises its alpha target; the
	// propagator needs no bracketing and treats both as no-ops.
	StartDrag(ids []int)
	EndDrag(ids []int)

	// Reheat restarts relaxation after a structural change.
	Reheat()

	// Stop idempotently halts the engine; Step becomes a no-op until the
	// next Reheat.
	Stop()
}
