package tui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"plexus/editor"
)

// promptField is one text input inside a dialog.
type promptField struct {
	label string
	text  []rune
}

// prompt is the minimal modal input bar backing editor dialogs. It edits
// one field at a time; Tab/Enter advance, Enter on the last field
// confirms, Escape cancels.
type prompt struct {
	req    editor.Request
	done   func(editor.Result)
	fields []promptField
	active int
	cursor int
}

func newPrompt(req editor.Request, done func(editor.Result)) *prompt {
	p := &prompt{req: req, done: done}
	switch req.Kind {
	case editor.DialogCreateNode:
		p.fields = []promptField{{label: "label"}}
	case editor.DialogCreateEdge:
		p.fields = []promptField{{label: "edge name"}}
	case editor.DialogCreateNodeAndEdge:
		p.fields = []promptField{{label: "label"}, {label: "edge name"}}
	case editor.DialogRename:
		p.fields = []promptField{{label: "label", text: []rune(req.Label)}}
	case editor.DialogEdit:
		if req.EdgeID != 0 {
			p.fields = []promptField{{label: "edge name", text: []rune(req.Name)}}
		} else {
			p.fields = []promptField{{label: "label", text: []rune(req.Label)}}
		}
	}
	if len(p.fields) == 0 {
		p.fields = []promptField{{label: "value"}}
	}
	p.cursor = len(p.fields[0].text)
	return p
}

// result assembles the confirmed dialog answer from the field contents.
func (p *prompt) result() editor.Result {
	res := editor.Result{Confirmed: true}
	switch p.req.Kind {
	case editor.DialogCreateNode, editor.DialogRename:
		res.Label = string(p.fields[0].text)
	case editor.DialogCreateEdge:
		res.Name = string(p.fields[0].text)
	case editor.DialogCreateNodeAndEdge:
		res.Label = string(p.fields[0].text)
		res.Name = string(p.fields[1].text)
	case editor.DialogEdit:
		if p.req.EdgeID != 0 {
			res.Name = string(p.fields[0].text)
		} else {
			res.Label = string(p.fields[0].text)
		}
	}
	return res
}

// handlePromptKey routes a key press into the open dialog.
func (a *App) handlePromptKey(ev *tcell.EventKey) {
	p := a.prompt
	field := &p.fields[p.active]

	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = nil
		p.done(editor.Cancel)

	case tcell.KeyEnter:
		if p.active < len(p.fields)-1 {
			p.active++
			p.cursor = len(p.fields[p.active].text)
			return
		}
		a.prompt = nil
		p.done(p.result())

	case tcell.KeyTab:
		p.active = (p.active + 1) % len(p.fields)
		p.cursor = len(p.fields[p.active].text)

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor > 0 {
			field.text = append(field.text[:p.cursor-1], field.text[p.cursor:]...)
			p.cursor--
		}

	case tcell.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}

	case tcell.KeyRight:
		if p.cursor < len(field.text) {
			p.cursor++
		}

	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsPrint(r) {
			field.text = append(field.text[:p.cursor], append([]rune{r}, field.text[p.cursor:]...)...)
			p.cursor++
		}
	}
}
