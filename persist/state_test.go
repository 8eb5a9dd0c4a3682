package persist

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plexus/geometry"
	"plexus/graph"
)

// hubModel builds a hub node with the given number of satellites, each
// joined by one outgoing edge and carrying one property.
func hubModel(t *testing.T, satellites int) *graph.Model {
	t.Helper()
	m := graph.NewModel()
	center := m.AddNode(geometry.Point{X: 850, Y: 350}, "Center")
	center.Props = graph.Properties{
		"site":  graph.URL("https://example.com/center"),
		"since": graph.Datetime(time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)),
	}
	for i := 0; i < satellites; i++ {
		sat := m.AddNode(geometry.Point{X: float64(i) * 40, Y: 700}, fmt.Sprintf("sat-%d", i))
		sat.Props = graph.Properties{"index": graph.Number(float64(i))}
		_, err := m.AddEdge(center.ID, sat.ID, fmt.Sprintf("link-%d", i))
		require.NoError(t, err)
	}
	return m
}

func TestRoundTripHubGraph(t *testing.T) {
	m := hubModel(t, 100)

	data, err := Encode(Export(m, "force"))
	require.NoError(t, err)

	st, warns, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, FormatVersion, st.Version)
	assert.Equal(t, "force", st.Mode)

	rebuilt := Build(st)
	require.Len(t, rebuilt.Nodes, 101)
	require.Len(t, rebuilt.Edges, 100)
	assert.Equal(t, m.NextNodeID, rebuilt.NextNodeID)
	assert.Equal(t, m.NextEdgeID, rebuilt.NextEdgeID)

	for i, want := range m.Nodes {
		got := rebuilt.Nodes[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Label, got.Label)
		assert.Equal(t, want.X, got.X)
		assert.Equal(t, want.Y, got.Y)
		assert.Equal(t, want.Color, got.Color)
		assert.Equal(t, want.Props, got.Props)
		assert.Equal(t, graph.RadiusFor(want.Label), got.Radius)
	}
	for i, want := range m.Edges {
		got := rebuilt.Edges[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.From, got.From)
		assert.Equal(t, want.To, got.To)
		assert.Equal(t, want.Name, got.Name)
	}
}

func TestExportExcludesSpatialScratchState(t *testing.T) {
	m := graph.NewModel()
	n := m.AddNode(geometry.Point{X: 10, Y: 20}, "n")
	n.Pin(10, 20)
	n.VX, n.VY = 5, 5

	data, err := Encode(Export(m, ""))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "pinned")
	assert.NotContains(t, string(data), "vx")
	assert.NotContains(t, string(data), "radius")
}

func TestDecodeDropsDanglingEdge(t *testing.T) {
	data := []byte(`{
		"version": 1,
		"nodes": [{"id": 1, "x": 0, "y": 0, "label": "a", "color": "red"}],
		"edges": [
			{"id": 1, "from": 1, "to": 99, "name": "dangling"},
			{"id": 2, "from": 1, "to": 1, "name": "self"}
		]
	}`)
	st, warns, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, st.Edges, 1)
	assert.Equal(t, 2, st.Edges[0].ID)
	require.Len(t, warns, 1)
	assert.Equal(t, "edge", warns[0].Record)
	assert.Equal(t, 1, warns[0].ID)
	assert.Contains(t, warns[0].Message, "dangling")
}

func TestDecodeDropsDuplicateAndInvalidIDs(t *testing.T) {
	data := []byte(`{
		"version": 1,
		"nodes": [
			{"id": 1, "label": "a"},
			{"id": 1, "label": "dup"},
			{"id": 0, "label": "bad"},
			{"id": 2, "label": "b"}
		],
		"edges": [
			{"id": 1, "from": 1, "to": 2},
			{"id": 1, "from": 2, "to": 1}
		]
	}`)
	st, warns, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, st.Nodes, 2)
	assert.Equal(t, "a", st.Nodes[0].Label)
	assert.Equal(t, "b", st.Nodes[1].Label)
	require.Len(t, st.Edges, 1)
	assert.Len(t, warns, 3)
}

func TestDecodeDropsOnlyTheBadProperty(t *testing.T) {
	data := []byte(`{
		"version": 1,
		"nodes": [{
			"id": 1,
			"label": "a",
			"properties": {
				"good": {"kind": "string", "value": "keep"},
				"bad": {"kind": "teleport", "value": "x"}
			}
		}]
	}`)
	st, warns, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, st.Nodes, 1)
	props := st.Nodes[0].Props
	require.Contains(t, props, "good")
	assert.Equal(t, "keep", props["good"].Str)
	assert.NotContains(t, props, "bad")
	require.Len(t, warns, 1)
	assert.Equal(t, "node", warns[0].Record)
	assert.Contains(t, warns[0].Message, `"bad"`)
}

func TestDecodeMalformedTopLevelIsError(t *testing.T) {
	_, _, err := Decode([]byte(`{"nodes": "not-a-list"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed import")
}

func TestDecodeCountersStayAheadOfSurvivingIDs(t *testing.T) {
	data := []byte(`{
		"version": 1,
		"nodes": [{"id": 7, "label": "a"}, {"id": 3, "label": "b"}],
		"edges": [{"id": 5, "from": 7, "to": 3}],
		"nextNodeId": 1,
		"nextEdgeId": 1
	}`)
	st, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 8, st.NextNodeID)
	assert.Equal(t, 6, st.NextEdgeID)
}

func TestDecodeEmptyFileCountersStartAtOne(t *testing.T) {
	st, warns, err := Decode([]byte(`{"version": 1}`))
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, 1, st.NextNodeID)
	assert.Equal(t, 1, st.NextEdgeID)
}
