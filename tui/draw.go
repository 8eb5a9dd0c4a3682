package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"plexus/editor"
	"plexus/geometry"
)

var (
	styleDefault  = tcell.StyleDefault
	styleEdge     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTempEdge = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBox      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// draw renders one frame from a controller snapshot.
func (a *App) draw() {
	if a.screen == nil {
		return
	}
	a.screen.Clear()
	snap := a.ctrl.Snapshot()

	for _, e := range snap.Edges {
		a.drawEdge(snap, e.From, e.To, contains(snap.SelectedEdges, e.ID))
	}
	if snap.TempEdge != nil {
		a.drawLine(snap.TempEdge.From, snap.TempEdge.To, styleTempEdge)
	}
	if snap.SelectionBox != nil {
		a.drawRect(*snap.SelectionBox)
	}
	for _, n := range snap.Nodes {
		a.drawNode(n.Pos(), n.Label, n.Color, contains(snap.SelectedNodes, n.ID))
	}
	a.drawStatus(snap)
	if a.prompt != nil {
		a.drawPrompt()
	}
	a.screen.Show()
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (a *App) drawEdge(snap editor.Snapshot, from, to int, selected bool) {
	var src, dst *geometry.Point
	for i := range snap.Nodes {
		switch snap.Nodes[i].ID {
		case from:
			p := snap.Nodes[i].Pos()
			src = &p
		case to:
			p := snap.Nodes[i].Pos()
			dst = &p
		}
	}
	if src == nil || dst == nil {
		return
	}
	style := styleEdge
	if selected {
		style = style.Bold(true).Foreground(tcell.ColorWhite)
	}
	a.drawLine(*src, *dst, style)
}

// drawLine plots a cell-space Bresenham line between two model points.
func (a *App) drawLine(from, to geometry.Point, style tcell.Style) {
	x0, y0 := toCell(from)
	x1, y1 := toCell(to)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		a.screen.SetContent(x0, y0, '·', nil, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (a *App) drawNode(pos geometry.Point, label, color string, selected bool) {
	cx, cy := toCell(pos)
	text := "(" + label + ")"
	style := styleDefault
	if color != "" {
		style = style.Foreground(tcell.GetColor(color))
	}
	if selected {
		style = style.Reverse(true)
	}
	start := cx - len([]rune(text))/2
	for i, r := range []rune(text) {
		a.screen.SetContent(start+i, cy, r, nil, style)
	}
}

func (a *App) drawRect(r geometry.Rect) {
	x0, y0 := toCell(r.Min)
	x1, y1 := toCell(r.Max)
	for x := x0; x <= x1; x++ {
		a.screen.SetContent(x, y0, '░', nil, styleBox)
		a.screen.SetContent(x, y1, '░', nil, styleBox)
	}
	for y := y0; y <= y1; y++ {
		a.screen.SetContent(x0, y, '░', nil, styleBox)
		a.screen.SetContent(x1, y, '░', nil, styleBox)
	}
}

func (a *App) drawStatus(snap editor.Snapshot) {
	w, h := a.screen.Size()
	line := fmt.Sprintf(" %s | %s | %d nodes, %d edges | m:mode s:save q:quit %s",
		snap.Mode, snap.State, len(snap.Nodes), len(snap.Edges), a.status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		a.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
}

func (a *App) drawPrompt() {
	w, h := a.screen.Size()
	p := a.prompt
	field := p.fields[p.active]
	prefix := fmt.Sprintf(" %s> %s: ", p.req.Kind, field.label)
	line := prefix + string(field.text)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		a.screen.SetContent(x, h-2, r, nil, styleStatus.Foreground(tcell.ColorYellow))
	}
	a.screen.ShowCursor(len(prefix)+p.cursor, h-2)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
