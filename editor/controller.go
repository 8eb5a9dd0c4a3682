package editor

import (
	"math"

	"github.com/charmbracelet/log"

	"plexus/geometry"
	"plexus/graph"
	"plexus/layout"
	"plexus/selection"
)

// ClickThreshold is the pointer displacement (model units) separating a
// click from a drag. Every pointer path uses this single constant so
// selection and movement can never disagree about what a click is.
const ClickThreshold = 5.0

// EdgeHitSlop is how close to an edge segment a double-click must land to
// count as hitting the edge.
const EdgeHitSlop = 6.0

// Controller is the interaction state machine. It turns pointer and
// keyboard events into graph, selection, and layout-engine calls, and it
// suspends on dialog round-trips without ever blocking.
//
// All methods must be called from the one event-loop goroutine that owns
// the model; the controller does no locking.
type Controller struct {
	model    *graph.Model
	sel      *selection.Set
	prompter Prompter
	logger   *log.Logger

	mode       LayoutMode
	force      *layout.ForceSimulation
	propagator *layout.Propagator

	state State

	// Pointer gesture bookkeeping.
	anchor     geometry.Point         // press position
	pointer    geometry.Point         // latest pointer position
	grabbed    int                    // node under the primary press
	dragIDs    []int                  // nodes moved by the current drag
	dragOffset map[int]geometry.Point // node position relative to pointer
	dragActive bool                   // threshold crossed, engine engaged

	// Ephemeral visuals.
	tempEdgeFrom int  // source node of the in-flight edge drag, 0 if none
	boxActive    bool // selection box visible

	// Dialog suspension. The generation guards against a stale done
	// callback resolving a dialog the controller has already abandoned.
	pendingKind DialogKind
	dialogGen   int
}

// NewController wires a controller over a model. Both layout engines are
// constructed up front; mode selects which one is live.
func NewController(model *graph.Model, cfg layout.Config, prompter Prompter, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		model:      model,
		sel:        selection.NewSet(),
		prompter:   prompter,
		logger:     logger,
		mode:       ModeForce,
		force:      layout.NewForceSimulation(model, cfg),
		propagator: layout.NewPropagator(model, cfg),
		grabbed:    -1,
	}
}

// Model returns the graph model the controller mutates.
func (c *Controller) Model() *graph.Model { return c.model }

// Selection returns the live selection set.
func (c *Controller) Selection() *selection.Set { return c.sel }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Mode returns the current layout mode.
func (c *Controller) Mode() LayoutMode { return c.mode }

// SetMode switches the layout mode, stopping the engine being left behind.
func (c *Controller) SetMode(mode LayoutMode) {
	if mode == c.mode {
		return
	}
	c.mode = mode
	if mode == ModeManual {
		c.force.Stop()
	} else {
		c.force.Reheat()
	}
	c.logger.Debug("layout mode switched", "mode", mode)
}

// engine returns the live layout engine for the current mode.
func (c *Controller) engine() layout.Engine {
	if c.mode == ModeManual {
		return c.propagator
	}
	return c.force
}

// Step advances the live engine by dt seconds and reports whether any
// position changed. The caller schedules ticks once per display frame.
func (c *Controller) Step(dt float64) bool {
	return c.engine().Step(dt)
}

// Stop idempotently halts layout, for teardown or graph clearing.
func (c *Controller) Stop() {
	c.force.Stop()
}

// reheat warms the force engine after a structural change. Harmless in
// manual mode, where the next tick is a no-op anyway.
func (c *Controller) reheat() {
	if c.mode == ModeForce {
		c.force.Reheat()
	}
}

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	c.logger.Debug("interaction state", "from", c.state, "to", s)
	c.state = s
}

// isClick reports whether the displacement since the press stays under the
// click threshold.
func (c *Controller) isClick(p geometry.Point) bool {
	return geometry.Distance(c.anchor, p) <= ClickThreshold
}

// PointerDown begins a gesture. A second press while a gesture is in
// flight is undefined input per the pointer-capture contract and is
// dropped.
func (c *Controller) PointerDown(p geometry.Point, btn Button, modifier bool) {
	if c.state != StateIdle {
		return
	}
	c.anchor, c.pointer = p, p
	node := c.model.NodeAt(p)

	switch btn {
	case ButtonPrimary:
		if node == nil {
			c.boxActive = true
			c.setState(StateSelectingBox)
			return
		}
		c.beginNodeDrag(node, p)

	case ButtonSecondary:
		if node == nil {
			// Context action on empty canvas: create a node here.
			c.requestCreateNode(p)
			return
		}
		c.tempEdgeFrom = node.ID
		c.setState(StateDraggingForEdge)
	}
}

func (c *Controller) beginNodeDrag(node *graph.Node, p geometry.Point) {
	c.grabbed = node.ID
	c.dragIDs = []int{node.ID}
	// A grab inside a multi-selection drags the whole selection as one
	// rigid group.
	if c.sel.HasNode(node.ID) && c.sel.NodeCount() > 1 {
		c.dragIDs = c.sel.Nodes()
	}
	c.dragOffset = make(map[int]geometry.Point, len(c.dragIDs))
	for _, id := range c.dragIDs {
		if n := c.model.Node(id); n != nil {
			c.dragOffset[id] = n.Pos().Sub(p)
		}
	}
	c.dragActive = false
	c.setState(StateDraggingNodes)
}

// PointerMove updates the gesture in flight.
func (c *Controller) PointerMove(p geometry.Point) {
	c.pointer = p
	switch c.state {
	case StateSelectingBox, StateDraggingForEdge:
		// Only the ephemeral visual moves.

	case StateDraggingNodes:
		if !c.dragActive {
			if c.isClick(p) {
				return
			}
			// Threshold crossed: this is a drag, engage the engine.
			c.dragActive = true
			c.engine().StartDrag(c.dragIDs)
		}
		for _, id := range c.dragIDs {
			off := c.dragOffset[id]
			c.engine().MoveNode(id, p.X+off.X, p.Y+off.Y)
		}
	}
}

// PointerUp completes the gesture.
func (c *Controller) PointerUp(p geometry.Point, modifier bool) {
	c.pointer = p
	switch c.state {
	case StateSelectingBox:
		c.finishBoxSelect(p, modifier)

	case StateDraggingNodes:
		c.finishNodeDrag(p, modifier)

	case StateDraggingForEdge:
		c.finishEdgeDrag(p)
	}
}

func (c *Controller) finishBoxSelect(p geometry.Point, modifier bool) {
	c.boxActive = false
	c.setState(StateIdle)
	if c.isClick(p) {
		// Click on empty canvas: plain replaces (clears) the selection;
		// with the modifier held there is nothing under the cursor to
		// toggle, so the selection is left alone.
		if !modifier {
			c.sel.Clear()
		}
		return
	}
	rect := geometry.RectBetween(c.anchor, p)
	var inside []int
	for _, n := range c.model.Nodes {
		if rect.Contains(n.Pos()) {
			inside = append(inside, n.ID)
		}
	}
	if modifier {
		c.sel.AddNodes(inside)
	} else {
		c.sel.ReplaceNodes(inside)
	}
}

func (c *Controller) finishNodeDrag(p geometry.Point, modifier bool) {
	grabbed := c.grabbed
	c.grabbed = -1
	c.setState(StateIdle)
	if !c.dragActive {
		if c.isClick(p) {
			// Never crossed the threshold: reinterpret as a select-click.
			if modifier {
				c.sel.ToggleNode(grabbed)
			} else {
				c.sel.ReplaceNode(grabbed)
			}
			return
		}
		// The release itself crossed the threshold without an
		// intervening move event; apply the drag now.
		c.dragActive = true
		c.engine().StartDrag(c.dragIDs)
		for _, id := range c.dragIDs {
			off := c.dragOffset[id]
			c.engine().MoveNode(id, p.X+off.X, p.Y+off.Y)
		}
	}
	c.dragActive = false
	c.engine().EndDrag(c.dragIDs)
	c.dragIDs = nil
	c.dragOffset = nil
}

func (c *Controller) finishEdgeDrag(p geometry.Point) {
	from := c.tempEdgeFrom
	c.tempEdgeFrom = 0
	target := c.model.NodeAt(p)

	switch {
	case target != nil && target.ID != from:
		c.requestCreateEdge(from, target.ID)
	case target == nil:
		c.requestCreateNodeAndEdge(from, p)
	default:
		// Released back over the source node: nothing to create.
		c.setState(StateIdle)
	}
}

// DoubleClick opens the edit dialog for the node or edge under the
// pointer.
func (c *Controller) DoubleClick(p geometry.Point) {
	if c.state != StateIdle {
		return
	}
	if node := c.model.NodeAt(p); node != nil {
		c.requestEditNode(node)
		return
	}
	if edge := c.EdgeAt(p); edge != nil {
		c.requestEditEdge(edge)
	}
}

// EdgeAt hit-tests edges by distance to their segment.
func (c *Controller) EdgeAt(p geometry.Point) *graph.Edge {
	for i := len(c.model.Edges) - 1; i >= 0; i-- {
		e := c.model.Edges[i]
		a, b := c.model.Node(e.From), c.model.Node(e.To)
		if a == nil || b == nil {
			continue
		}
		if segmentDistance(p, a.Pos(), b.Pos()) <= EdgeHitSlop {
			return e
		}
	}
	return nil
}

// Delete removes the selected edges first, then the selected nodes with
// their incident edges cascading.
func (c *Controller) Delete() {
	if c.state != StateIdle || c.sel.Empty() {
		return
	}
	for _, id := range c.sel.Edges() {
		c.model.RemoveEdge(id)
	}
	for _, id := range c.sel.Nodes() {
		c.model.RemoveNode(id)
	}
	c.sel.Clear()
	c.reheat()
}

// Escape clears the selection and abandons any gesture in flight. An open
// dialog stays open; its eventual answer is resolved normally.
func (c *Controller) Escape() {
	switch c.state {
	case StateDraggingNodes:
		if c.dragActive {
			c.engine().EndDrag(c.dragIDs)
			c.dragActive = false
		}
		c.dragIDs = nil
		c.dragOffset = nil
		c.grabbed = -1
	case StateSelectingBox:
		c.boxActive = false
	case StateDraggingForEdge:
		c.tempEdgeFrom = 0
	case StateAwaitingDialog:
		return
	}
	c.sel.Clear()
	c.setState(StateIdle)
}

// --- dialog flows ---

// request suspends the controller and forwards to the prompter. The done
// callback resolves exactly one generation; anything staler is dropped.
func (c *Controller) request(req Request, apply func(Result)) {
	c.dialogGen++
	gen := c.dialogGen
	c.pendingKind = req.Kind
	c.setState(StateAwaitingDialog)
	c.prompter.Prompt(req, func(res Result) {
		c.resolve(gen, res, apply)
	})
}

func (c *Controller) resolve(gen int, res Result, apply func(Result)) {
	if gen != c.dialogGen || c.state != StateAwaitingDialog {
		return
	}
	c.setState(StateIdle)
	if !res.Confirmed {
		// Cancellation is a normal transition, not an error.
		c.logger.Debug("dialog cancelled", "kind", c.pendingKind)
		return
	}
	apply(res)
}

// PendingDialog returns the kind of the open dialog; meaningful only in
// StateAwaitingDialog.
func (c *Controller) PendingDialog() DialogKind { return c.pendingKind }

func (c *Controller) requestCreateNode(pos geometry.Point) {
	c.request(Request{Kind: DialogCreateNode, Pos: pos}, func(res Result) {
		n := c.model.AddNode(pos, res.Label)
		if res.Color != "" {
			n.Color = res.Color
		}
		c.sel.ReplaceNode(n.ID)
		c.reheat()
	})
}

func (c *Controller) requestCreateEdge(from, to int) {
	c.request(Request{Kind: DialogCreateEdge, SourceID: from, TargetID: to}, func(res Result) {
		if _, err := c.model.AddEdge(from, to, res.Name); err != nil {
			// Endpoint vanished while the dialog was open.
			c.logger.Warn("edge creation rejected", "from", from, "to", to, "err", err)
			return
		}
		c.reheat()
	})
}

// requestCreateNodeAndEdge handles a secondary drag released over empty
// canvas. Convention: the existing node is always the edge's source and
// the new node its target, so edge direction follows the drag outward.
func (c *Controller) requestCreateNodeAndEdge(from int, pos geometry.Point) {
	c.request(Request{Kind: DialogCreateNodeAndEdge, SourceID: from, Pos: pos}, func(res Result) {
		if c.model.Node(from) == nil {
			c.logger.Warn("edge source vanished during dialog", "from", from)
			return
		}
		// Atomic pair: the node is only kept if the edge attaches.
		n := c.model.AddNode(pos, res.Label)
		if res.Color != "" {
			n.Color = res.Color
		}
		if _, err := c.model.AddEdge(from, n.ID, res.Name); err != nil {
			c.model.RemoveNode(n.ID)
			c.logger.Warn("node+edge creation rolled back", "err", err)
			return
		}
		c.sel.ReplaceNode(n.ID)
		c.reheat()
	})
}

func (c *Controller) requestEditNode(node *graph.Node) {
	req := Request{
		Kind:   DialogEdit,
		NodeID: node.ID,
		Label:  node.Label,
		Props:  node.Props.Clone(),
	}
	id := node.ID
	c.request(req, func(res Result) {
		if c.model.Node(id) == nil {
			return
		}
		c.model.Rename(id, res.Label)
		if res.Color != "" {
			c.model.SetColor(id, res.Color)
		}
		c.model.SetNodeProperties(id, res.Props, res.ClearProps)
		c.reheat()
	})
}

func (c *Controller) requestEditEdge(edge *graph.Edge) {
	req := Request{
		Kind:   DialogEdit,
		EdgeID: edge.ID,
		Name:   edge.Name,
		Props:  edge.Props.Clone(),
	}
	id := edge.ID
	c.request(req, func(res Result) {
		if c.model.Edge(id) == nil {
			return
		}
		c.model.RenameEdge(id, res.Name)
		c.model.SetEdgeProperties(id, res.Props, res.ClearProps)
	})
}

// segmentDistance returns the distance from p to segment ab.
func segmentDistance(p, a, b geometry.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return geometry.Distance(p, a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := geometry.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return geometry.Distance(p, closest)
}
