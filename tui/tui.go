// Package tui is the terminal frontend: it owns the tcell screen, maps
// mouse and key events onto the interaction controller, and redraws at
// most once per frame. It plays the Renderer and DialogPrompter roles the
// core treats as external collaborators.
package tui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"plexus/editor"
	"plexus/geometry"
	"plexus/persist"
)

// Cell-to-model scaling. Terminal cells are roughly twice as tall as wide,
// so the vertical scale doubles to keep discs round in model space.
const (
	CellW = 10.0
	CellH = 20.0
)

const (
	frameInterval  = 33 * time.Millisecond // ~30fps
	doubleClickMax = 400 * time.Millisecond
	autosaveEvery  = 3 * time.Second
)

// App is the terminal application state.
type App struct {
	screen tcell.Screen
	ctrl   *editor.Controller
	logger *log.Logger
	saver  *persist.Autosaver

	// Mouse transition tracking: tcell reports button masks, we need
	// press/release edges.
	buttons tcell.ButtonMask

	lastClick    time.Time
	lastClickPos geometry.Point

	prompt *prompt // active dialog input, nil when none
	status string
	dirty  bool
	quit   bool
}

// New builds the app around a controller and an optional autosaver.
func New(ctrl *editor.Controller, saver *persist.Autosaver, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		ctrl:   ctrl,
		saver:  saver,
		logger: logger,
		dirty:  true,
	}
}

// Prompt implements editor.Prompter: it opens the input bar and parks the
// done callback until the user confirms or cancels.
func (a *App) Prompt(req editor.Request, done func(editor.Result)) {
	a.prompt = newPrompt(req, done)
	a.dirty = true
}

// Run owns the event loop until quit. Input, simulation steps, autosave,
// and redraw all happen on this one goroutine.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	a.screen = screen
	screen.EnableMouse()
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	quitCh := make(chan struct{})
	go screen.ChannelEvents(events, quitCh)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	defer close(quitCh)

	a.draw()
	for !a.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)

		case <-ticker.C:
			// One step and at most one redraw per frame; ticks that
			// would pile up behind a slow frame are simply dropped by
			// the select.
			changed := a.ctrl.Step(frameInterval.Seconds())
			if a.saver != nil {
				a.saver.Tick(a.exportState)
			}
			if changed || a.dirty {
				a.draw()
				a.dirty = false
			}
		}
	}
	if a.saver != nil {
		a.saver.Flush(a.exportState)
	}
	return nil
}

func (a *App) exportState() persist.State {
	return persist.Export(a.ctrl.Model(), a.ctrl.Mode().String())
}

func (a *App) markChanged() {
	a.dirty = true
	if a.saver != nil {
		a.saver.MarkDirty()
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.dirty = true
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

// toModel converts a terminal cell to model coordinates.
func toModel(cx, cy int) geometry.Point {
	return geometry.Point{X: float64(cx) * CellW, Y: float64(cy) * CellH}
}

// toCell converts model coordinates to a terminal cell.
func toCell(p geometry.Point) (int, int) {
	return int(p.X/CellW + 0.5), int(p.Y/CellH + 0.5)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	p := toModel(cx, cy)
	mod := ev.Modifiers()&(tcell.ModShift|tcell.ModCtrl) != 0

	prev := a.buttons
	cur := ev.Buttons() & (tcell.Button1 | tcell.Button2)
	a.buttons = cur

	pressed := cur &^ prev
	released := prev &^ cur

	switch {
	case pressed&tcell.Button1 != 0:
		if a.isDoubleClick(p) {
			a.ctrl.DoubleClick(p)
		} else {
			a.ctrl.PointerDown(p, editor.ButtonPrimary, mod)
		}
		a.lastClick = time.Now()
		a.lastClickPos = p
		a.markChanged()

	case pressed&tcell.Button2 != 0:
		a.ctrl.PointerDown(p, editor.ButtonSecondary, mod)
		a.markChanged()

	case released&tcell.Button1 != 0, released&tcell.Button2 != 0:
		a.ctrl.PointerUp(p, mod)
		a.markChanged()

	default:
		// Plain motion, with or without a held button.
		a.ctrl.PointerMove(p)
		if a.ctrl.State() != editor.StateIdle {
			a.dirty = true
		}
	}
}

func (a *App) isDoubleClick(p geometry.Point) bool {
	return time.Since(a.lastClick) <= doubleClickMax &&
		geometry.Distance(a.lastClickPos, p) <= editor.ClickThreshold
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.prompt != nil {
		a.handlePromptKey(ev)
		a.dirty = true
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		a.ctrl.Escape()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.ctrl.Delete()
		a.markChanged()
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case 'm':
			if a.ctrl.Mode() == editor.ModeForce {
				a.ctrl.SetMode(editor.ModeManual)
			} else {
				a.ctrl.SetMode(editor.ModeForce)
			}
			a.status = "layout: " + a.ctrl.Mode().String()
		case 's':
			if a.saver != nil {
				a.saver.MarkDirty()
				a.saver.Flush(a.exportState)
				a.status = "saved"
			}
		}
	}
	a.dirty = true
}
