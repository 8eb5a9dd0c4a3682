// Package selection tracks which nodes and edges are currently selected and
// implements the replace/toggle/union semantics shared by every selection
// gesture.
package selection

import "sort"

// Set holds the selected node and edge ids. Node and edge ids live in
// separate namespaces, so they are tracked separately.
type Set struct {
	nodes map[int]struct{}
	edges map[int]struct{}
}

// NewSet creates an empty selection.
func NewSet() *Set {
	return &Set{
		nodes: make(map[int]struct{}),
		edges: make(map[int]struct{}),
	}
}

// ReplaceNode makes the given node the sole selection.
func (s *Set) ReplaceNode(id int) {
	s.Clear()
	s.nodes[id] = struct{}{}
}

// ReplaceEdge makes the given edge the sole selection.
func (s *Set) ReplaceEdge(id int) {
	s.Clear()
	s.edges[id] = struct{}{}
}

// ToggleNode flips the membership of a node id.
func (s *Set) ToggleNode(id int) {
	if _, ok := s.nodes[id]; ok {
		delete(s.nodes, id)
	} else {
		s.nodes[id] = struct{}{}
	}
}

// ToggleEdge flips the membership of an edge id.
func (s *Set) ToggleEdge(id int) {
	if _, ok := s.edges[id]; ok {
		delete(s.edges, id)
	} else {
		s.edges[id] = struct{}{}
	}
}

// AddNodes unions the given node ids into the selection.
func (s *Set) AddNodes(ids []int) {
	for _, id := range ids {
		s.nodes[id] = struct{}{}
	}
}

// ReplaceNodes makes the given node ids the entire selection.
func (s *Set) ReplaceNodes(ids []int) {
	s.Clear()
	s.AddNodes(ids)
}

// RemoveNode drops a node id if present.
func (s *Set) RemoveNode(id int) {
	delete(s.nodes, id)
}

// RemoveEdge drops an edge id if present.
func (s *Set) RemoveEdge(id int) {
	delete(s.edges, id)
}

// HasNode reports node membership.
func (s *Set) HasNode(id int) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports edge membership.
func (s *Set) HasEdge(id int) bool {
	_, ok := s.edges[id]
	return ok
}

// Nodes returns the selected node ids in ascending order.
func (s *Set) Nodes() []int {
	return sorted(s.nodes)
}

// Edges returns the selected edge ids in ascending order.
func (s *Set) Edges() []int {
	return sorted(s.edges)
}

// NodeCount returns how many nodes are selected.
func (s *Set) NodeCount() int {
	return len(s.nodes)
}

// Len returns the total number of selected items.
func (s *Set) Len() int {
	return len(s.nodes) + len(s.edges)
}

// Empty reports whether nothing is selected.
func (s *Set) Empty() bool {
	return s.Len() == 0
}

// Clear deselects everything.
func (s *Set) Clear() {
	clear(s.nodes)
	clear(s.edges)
}

func sorted(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
