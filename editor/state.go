package editor

// State is the interaction controller's current pointer state.
type State int

const (
	StateIdle           State = iota // nothing in flight
	StateSelectingBox                // primary drag on empty canvas
	StateDraggingNodes               // primary drag on a node (possibly multi)
	StateDraggingForEdge             // secondary drag spawning an edge
	StateAwaitingDialog              // suspended on a dialog round-trip
)

// String returns the state name for logs and status lines.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSelectingBox:
		return "SELECT-BOX"
	case StateDraggingNodes:
		return "DRAG-NODES"
	case StateDraggingForEdge:
		return "DRAG-EDGE"
	case StateAwaitingDialog:
		return "DIALOG"
	default:
		return "UNKNOWN"
	}
}

// LayoutMode selects which layout engine drives node motion.
type LayoutMode int

const (
	// ModeForce runs the continuously ticked force simulation.
	ModeForce LayoutMode = iota
	// ModeManual runs the synchronous local repulsion propagator; the
	// user alone drives motion.
	ModeManual
)

// String returns the wire/display name of the mode.
func (m LayoutMode) String() string {
	switch m {
	case ModeForce:
		return "force"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// LayoutModeFromString parses a persisted mode name; unknown names fall
// back to force mode.
func LayoutModeFromString(s string) LayoutMode {
	if s == "manual" {
		return ModeManual
	}
	return ModeForce
}

// Button identifies which pointer button an event carries.
type Button int

const (
	ButtonPrimary   Button = iota // select / move
	ButtonSecondary               // edge drawing / context create
)
