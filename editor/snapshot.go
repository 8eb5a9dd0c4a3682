package editor

import (
	"plexus/geometry"
	"plexus/graph"
)

// TempEdge is the ephemeral edge visual shown while a secondary drag is in
// flight.
type TempEdge struct {
	From geometry.Point // source node center
	To   geometry.Point // current pointer position
}

// Snapshot is the read-only view a renderer consumes once per redraw.
// Nodes and edges are copies; mutating them has no effect on the model.
type Snapshot struct {
	Nodes []graph.Node
	Edges []graph.Edge

	SelectedNodes []int
	SelectedEdges []int

	State State
	Mode  LayoutMode

	TempEdge     *TempEdge
	SelectionBox *geometry.Rect
}

// Snapshot builds the current renderer view.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes:         make([]graph.Node, len(c.model.Nodes)),
		Edges:         make([]graph.Edge, len(c.model.Edges)),
		SelectedNodes: c.sel.Nodes(),
		SelectedEdges: c.sel.Edges(),
		State:         c.state,
		Mode:          c.mode,
	}
	for i, n := range c.model.Nodes {
		snap.Nodes[i] = *n
	}
	for i, e := range c.model.Edges {
		snap.Edges[i] = *e
	}
	if c.state == StateDraggingForEdge {
		if src := c.model.Node(c.tempEdgeFrom); src != nil {
			snap.TempEdge = &TempEdge{From: src.Pos(), To: c.pointer}
		}
	}
	if c.boxActive {
		r := geometry.RectBetween(c.anchor, c.pointer)
		snap.SelectionBox = &r
	}
	return snap
}
