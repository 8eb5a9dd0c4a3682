package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceNodeClearsEverythingElse(t *testing.T) {
	s := NewSet()
	s.AddNodes([]int{1, 2, 3})
	s.ToggleEdge(10)

	s.ReplaceNode(5)
	assert.Equal(t, []int{5}, s.Nodes())
	assert.Empty(t, s.Edges())
}

func TestToggleNode(t *testing.T) {
	s := NewSet()
	s.ToggleNode(7)
	assert.True(t, s.HasNode(7))
	s.ToggleNode(7)
	assert.False(t, s.HasNode(7))
	assert.True(t, s.Empty())
}

func TestAddNodesIsUnion(t *testing.T) {
	s := NewSet()
	s.AddNodes([]int{1, 2})
	s.AddNodes([]int{2, 3})
	assert.Equal(t, []int{1, 2, 3}, s.Nodes())
	assert.Equal(t, 3, s.NodeCount())
}

func TestReplaceNodesDropsPrevious(t *testing.T) {
	s := NewSet()
	s.AddNodes([]int{1, 2})
	s.ReplaceNodes([]int{8, 9})
	assert.Equal(t, []int{8, 9}, s.Nodes())
}

func TestNodeAndEdgeNamespacesAreSeparate(t *testing.T) {
	s := NewSet()
	s.ToggleNode(4)
	s.ToggleEdge(4)
	assert.True(t, s.HasNode(4))
	assert.True(t, s.HasEdge(4))
	assert.Equal(t, 2, s.Len())

	s.RemoveEdge(4)
	assert.True(t, s.HasNode(4), "removing edge 4 must not touch node 4")
}

func TestClear(t *testing.T) {
	s := NewSet()
	s.AddNodes([]int{1, 2})
	s.ToggleEdge(3)
	s.Clear()
	assert.True(t, s.Empty())
	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Edges())
}
