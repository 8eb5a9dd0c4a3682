// Package persist implements the persistence surface of the editor core:
// a versioned export/import state, a JSON file store, and a debounced
// autosaver. Import is tolerant by design: malformed records are dropped
// with a warning while the rest of the file is kept.
package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"plexus/graph"
)

// FormatVersion is the version stamped on every exported state.
const FormatVersion = 1

// State is the persisted shape of an editing session. Node and edge
// records carry plain coordinates only; velocity and pin state never leave
// the process.
type State struct {
	Version    int          `json:"version"`
	Nodes      []graph.Node `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
	NextNodeID int          `json:"nextNodeId"`
	NextEdgeID int          `json:"nextEdgeId"`
	Mode       string       `json:"mode,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Warning records a malformed or dropped record found during import.
type Warning struct {
	Record  string // "node", "edge", "property"
	ID      int    // offending record id, 0 when unknown
	Message string
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s %d: %s", w.Record, w.ID, w.Message)
}

// Export captures a model into a persistable state. Spatial scratch fields
// are excluded by the model's own JSON tags; radii are derived data and
// are recomputed on import.
func Export(m *graph.Model, mode string) State {
	st := State{
		Version:    FormatVersion,
		Nodes:      make([]graph.Node, len(m.Nodes)),
		Edges:      make([]graph.Edge, len(m.Edges)),
		NextNodeID: m.NextNodeID,
		NextEdgeID: m.NextEdgeID,
		Mode:       mode,
		Timestamp:  time.Now().UTC(),
	}
	for i, n := range m.Nodes {
		cp := *n
		cp.Props = n.Props.Clone()
		st.Nodes[i] = cp
	}
	for i, e := range m.Edges {
		cp := *e
		cp.Props = e.Props.Clone()
		st.Edges[i] = cp
	}
	return st
}

// Build reconstructs a model from an already-validated state.
func Build(st State) *graph.Model {
	m := graph.NewModel()
	for i := range st.Nodes {
		n := st.Nodes[i]
		n.Radius = graph.RadiusFor(n.Label)
		if n.Color == "" {
			n.Color = graph.Palette[0]
		}
		cp := n
		m.Nodes = append(m.Nodes, &cp)
	}
	for i := range st.Edges {
		e := st.Edges[i]
		m.Edges = append(m.Edges, &e)
	}
	m.NextNodeID = st.NextNodeID
	m.NextEdgeID = st.NextEdgeID
	return m
}

// Encode serializes a state as indented JSON.
func Encode(st State) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

// wire shapes mirror State but keep property values raw so that a single
// bad property drops only itself, not the whole file.
type wireState struct {
	Version    int        `json:"version"`
	Nodes      []wireNode `json:"nodes"`
	Edges      []wireEdge `json:"edges"`
	NextNodeID int        `json:"nextNodeId"`
	NextEdgeID int        `json:"nextEdgeId"`
	Mode       string     `json:"mode"`
	Timestamp  time.Time  `json:"timestamp"`
}

type wireNode struct {
	ID    int                        `json:"id"`
	X     float64                    `json:"x"`
	Y     float64                    `json:"y"`
	Label string                     `json:"label"`
	Color string                     `json:"color"`
	Props map[string]json.RawMessage `json:"properties"`
}

type wireEdge struct {
	ID    int                        `json:"id"`
	From  int                        `json:"from"`
	To    int                        `json:"to"`
	Name  string                     `json:"name"`
	Props map[string]json.RawMessage `json:"properties"`
}

// Decode parses persisted data into a clean State. Shape failures at the
// top level are an error. Individual malformed records (duplicate ids,
// dangling edge endpoints, unparseable property values) are dropped and
// reported as warnings.
func Decode(data []byte) (State, []Warning, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return State{}, nil, fmt.Errorf("malformed import: %w", err)
	}

	var warns []Warning
	st := State{
		Version:   w.Version,
		Mode:      w.Mode,
		Timestamp: w.Timestamp,
	}

	seenNodes := make(map[int]bool, len(w.Nodes))
	maxNodeID := 0
	for _, wn := range w.Nodes {
		if wn.ID <= 0 {
			warns = append(warns, Warning{Record: "node", ID: wn.ID, Message: "invalid id"})
			continue
		}
		if seenNodes[wn.ID] {
			warns = append(warns, Warning{Record: "node", ID: wn.ID, Message: "duplicate id"})
			continue
		}
		seenNodes[wn.ID] = true
		if wn.ID > maxNodeID {
			maxNodeID = wn.ID
		}
		props, propWarns := decodeProps(wn.Props, "node", wn.ID)
		warns = append(warns, propWarns...)
		st.Nodes = append(st.Nodes, graph.Node{
			ID:    wn.ID,
			X:     wn.X,
			Y:     wn.Y,
			Label: wn.Label,
			Color: wn.Color,
			Props: props,
		})
	}

	seenEdges := make(map[int]bool, len(w.Edges))
	maxEdgeID := 0
	for _, we := range w.Edges {
		if we.ID <= 0 {
			warns = append(warns, Warning{Record: "edge", ID: we.ID, Message: "invalid id"})
			continue
		}
		if seenEdges[we.ID] {
			warns = append(warns, Warning{Record: "edge", ID: we.ID, Message: "duplicate id"})
			continue
		}
		if !seenNodes[we.From] || !seenNodes[we.To] {
			warns = append(warns, Warning{
				Record:  "edge",
				ID:      we.ID,
				Message: fmt.Sprintf("dangling endpoint %d -> %d", we.From, we.To),
			})
			continue
		}
		seenEdges[we.ID] = true
		if we.ID > maxEdgeID {
			maxEdgeID = we.ID
		}
		props, propWarns := decodeProps(we.Props, "edge", we.ID)
		warns = append(warns, propWarns...)
		st.Edges = append(st.Edges, graph.Edge{
			ID:    we.ID,
			From:  we.From,
			To:    we.To,
			Name:  we.Name,
			Props: props,
		})
	}

	// Counters must stay ahead of every surviving id, whatever the file
	// claimed.
	st.NextNodeID = max(w.NextNodeID, maxNodeID+1)
	st.NextEdgeID = max(w.NextEdgeID, maxEdgeID+1)
	if st.NextNodeID < 1 {
		st.NextNodeID = 1
	}
	if st.NextEdgeID < 1 {
		st.NextEdgeID = 1
	}
	return st, warns, nil
}

func decodeProps(raw map[string]json.RawMessage, record string, id int) (graph.Properties, []Warning) {
	if len(raw) == 0 {
		return nil, nil
	}
	var warns []Warning
	props := make(graph.Properties, len(raw))
	for key, msg := range raw {
		var v graph.Value
		if err := json.Unmarshal(msg, &v); err != nil {
			warns = append(warns, Warning{
				Record:  record,
				ID:      id,
				Message: fmt.Sprintf("property %q dropped: %v", key, err),
			})
			continue
		}
		props[key] = v
	}
	if len(props) == 0 {
		return nil, warns
	}
	return props, warns
}
