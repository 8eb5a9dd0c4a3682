package graph

import (
	"errors"
	"time"

	"plexus/geometry"
)

// ModifiedKey is the property stamped on every rename/edit with the time of
// the mutation.
const ModifiedKey = "modified"

// ErrInvalidReference is returned when an edge operation names a node id
// that is not present in the model. The mutation is rejected whole.
var ErrInvalidReference = errors.New("edge references a missing node")

// Model owns the nodes and edges of one editing session along with the id
// counters for both namespaces. Counters are monotonic and ids are never
// reused, so persisted references stay unambiguous across a session.
//
// All mutation methods are atomic: they either apply fully or leave the
// model untouched.
type Model struct {
	Nodes []*Node
	Edges []*Edge

	NextNodeID int
	NextEdgeID int

	now func() time.Time // stubbed in tests
}

// NewModel creates an empty model with both id counters at 1.
func NewModel() *Model {
	return &Model{
		NextNodeID: 1,
		NextEdgeID: 1,
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source used for modification stamps.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// Node finds a node by id, or nil.
func (m *Model) Node(id int) *Node {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Edge finds an edge by id, or nil.
func (m *Model) Edge(id int) *Edge {
	for _, e := range m.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// NodeAt hit-tests the point against node discs, topmost (most recently
// added) first.
func (m *Model) NodeAt(p geometry.Point) *Node {
	for i := len(m.Nodes) - 1; i >= 0; i-- {
		if m.Nodes[i].Contains(p) {
			return m.Nodes[i]
		}
	}
	return nil
}

// AddNode creates a node at the given position and returns it. The radius
// is derived from the label and the color defaults to the first palette
// entry.
func (m *Model) AddNode(pos geometry.Point, label string) *Node {
	n := &Node{
		ID:     m.NextNodeID,
		X:      pos.X,
		Y:      pos.Y,
		Radius: RadiusFor(label),
		Label:  label,
		Color:  Palette[0],
	}
	m.NextNodeID++
	m.Nodes = append(m.Nodes, n)
	return n
}

// AddEdge creates a named edge between two existing nodes. If either
// endpoint is missing it returns ErrInvalidReference and touches nothing.
func (m *Model) AddEdge(from, to int, name string) (*Edge, error) {
	if m.Node(from) == nil || m.Node(to) == nil {
		return nil, ErrInvalidReference
	}
	e := &Edge{
		ID:   m.NextEdgeID,
		From: from,
		To:   to,
		Name: name,
	}
	m.NextEdgeID++
	m.Edges = append(m.Edges, e)
	return e, nil
}

// RemoveNode deletes a node and cascades removal of every incident edge.
// It returns the removed edge ids and whether the node existed.
func (m *Model) RemoveNode(id int) (removedEdges []int, ok bool) {
	idx := -1
	for i, n := range m.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	m.Nodes = append(m.Nodes[:idx], m.Nodes[idx+1:]...)

	kept := m.Edges[:0]
	for _, e := range m.Edges {
		if e.Touches(id) {
			removedEdges = append(removedEdges, e.ID)
		} else {
			kept = append(kept, e)
		}
	}
	m.Edges = kept
	return removedEdges, true
}

// RemoveEdge deletes an edge by id, reporting whether it existed.
func (m *Model) RemoveEdge(id int) bool {
	for i, e := range m.Edges {
		if e.ID == id {
			m.Edges = append(m.Edges[:i], m.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// Rename relabels a node, recomputing its radius and stamping the
// modification time. Returns false if the node does not exist.
func (m *Model) Rename(id int, label string) bool {
	n := m.Node(id)
	if n == nil {
		return false
	}
	n.Label = label
	n.Radius = RadiusFor(label)
	n.Props = stamp(n.Props, m.clock())
	return true
}

// RenameEdge renames an edge and stamps the modification time.
func (m *Model) RenameEdge(id int, name string) bool {
	e := m.Edge(id)
	if e == nil {
		return false
	}
	e.Name = name
	e.Props = stamp(e.Props, m.clock())
	return true
}

// SetNodeProperties merges props into the node's property map, or replaces
// the map entirely when clear is set. The modification stamp is always
// applied afterwards.
func (m *Model) SetNodeProperties(id int, props Properties, clear bool) bool {
	n := m.Node(id)
	if n == nil {
		return false
	}
	n.Props = merge(n.Props, props, clear)
	n.Props = stamp(n.Props, m.clock())
	return true
}

// SetEdgeProperties is SetNodeProperties for edges.
func (m *Model) SetEdgeProperties(id int, props Properties, clear bool) bool {
	e := m.Edge(id)
	if e == nil {
		return false
	}
	e.Props = merge(e.Props, props, clear)
	e.Props = stamp(e.Props, m.clock())
	return true
}

// SetColor changes a node's palette color.
func (m *Model) SetColor(id int, color string) bool {
	n := m.Node(id)
	if n == nil {
		return false
	}
	n.Color = color
	return true
}

// Clear removes every node and edge. Id counters are deliberately kept so
// ids from before the clear are never reissued.
func (m *Model) Clear() {
	m.Nodes = nil
	m.Edges = nil
}

// Clone creates a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := &Model{
		Nodes:      make([]*Node, len(m.Nodes)),
		Edges:      make([]*Edge, len(m.Edges)),
		NextNodeID: m.NextNodeID,
		NextEdgeID: m.NextEdgeID,
		now:        m.now,
	}
	for i, n := range m.Nodes {
		cp := *n
		cp.Props = n.Props.Clone()
		clone.Nodes[i] = &cp
	}
	for i, e := range m.Edges {
		cp := *e
		cp.Props = e.Props.Clone()
		clone.Edges[i] = &cp
	}
	return clone
}

func merge(dst, src Properties, clear bool) Properties {
	if clear {
		dst = nil
	}
	if dst == nil {
		dst = make(Properties, len(src)+1)
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func stamp(p Properties, at time.Time) Properties {
	if p == nil {
		p = make(Properties, 1)
	}
	p[ModifiedKey] = Datetime(at)
	return p
}
