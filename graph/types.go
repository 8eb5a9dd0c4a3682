// Package graph contains the node/edge model at the heart of the editor and
// the mutation API that keeps it structurally consistent.
package graph

import (
	"plexus/geometry"
)

// Node radius derivation constants. The radius is a pure function of the
// label so that export/import round-trips reproduce it exactly.
const (
	MinRadius = 18.0 // floor for the derived radius
	LabelPad  = 14.0 // fixed padding around the label text
	RuneWidth = 7.0  // per-rune horizontal advance of the label font
)

// Palette is the fixed set of node colors. The first entry is the default
// for newly created nodes.
var Palette = []string{
	"#6ea8fe", // blue
	"#50fa7b", // green
	"#ffb86c", // orange
	"#ff79c6", // pink
	"#bd93f9", // purple
	"#f1fa8c", // yellow
}

// Node is a positioned, labeled entity in the diagram.
type Node struct {
	ID     int        `json:"id"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Radius float64    `json:"-"` // derived from Label, recomputed on load
	Label  string     `json:"label"`
	Color  string     `json:"color,omitempty"`
	Props  Properties `json:"properties,omitempty"`

	// Pin state, active only while a force-mode drag holds the node.
	// Pinned nodes are excluded from integration but still repel others.
	Pinned     bool    `json:"-"`
	PinX, PinY float64 `json:"-"`

	// Velocity, internal to the force integrator.
	VX, VY float64 `json:"-"`
}

// Pos returns the node position as a point.
func (n *Node) Pos() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// Contains checks whether a point falls inside the node's disc.
func (n *Node) Contains(p geometry.Point) bool {
	return geometry.Distance(n.Pos(), p) <= n.Radius
}

// Pin fixes the node at (x, y) for the duration of a drag.
func (n *Node) Pin(x, y float64) {
	n.Pinned = true
	n.PinX, n.PinY = x, y
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
}

// Unpin releases a pinned node back to the integrator.
func (n *Node) Unpin() {
	n.Pinned = false
}

// Edge is a directed, named connection between two nodes.
type Edge struct {
	ID    int        `json:"id"`
	From  int        `json:"from"` // source node ID
	To    int        `json:"to"`   // target node ID
	Name  string     `json:"name,omitempty"`
	Props Properties `json:"properties,omitempty"`
}

// Touches reports whether the edge is incident to the given node.
func (e *Edge) Touches(nodeID int) bool {
	return e.From == nodeID || e.To == nodeID
}

// RadiusFor derives the display radius for a label: half the rendered label
// width plus padding, floored at MinRadius.
func RadiusFor(label string) float64 {
	r := float64(len([]rune(label)))*RuneWidth/2 + LabelPad
	if r < MinRadius {
		return MinRadius
	}
	return r
}
