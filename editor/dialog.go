package editor

import (
	"plexus/geometry"
	"plexus/graph"
)

// DialogKind identifies which dialog the controller is requesting.
type DialogKind int

const (
	DialogCreateNode DialogKind = iota
	DialogCreateEdge
	DialogCreateNodeAndEdge
	DialogRename
	DialogEdit
)

// String returns the dialog kind name.
func (k DialogKind) String() string {
	switch k {
	case DialogCreateNode:
		return "create-node"
	case DialogCreateEdge:
		return "create-edge"
	case DialogCreateNodeAndEdge:
		return "create-node-and-edge"
	case DialogRename:
		return "rename"
	case DialogEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Request carries a dialog request to the Prompter, seeded with whatever
// the controller already knows.
type Request struct {
	Kind DialogKind

	// Seed values; which ones are meaningful depends on Kind.
	Pos      geometry.Point   // drop/creation position
	Label    string           // node label (rename/edit seeds)
	Name     string           // edge name
	NodeID   int              // subject node (edit/rename), 0 if none
	EdgeID   int              // subject edge (edit), 0 if none
	SourceID int              // existing edge source (create-edge flows)
	TargetID int              // existing edge target (create-edge)
	Props    graph.Properties // current properties (edit seed)
}

// Result is the user's answer to a dialog.
type Result struct {
	Confirmed bool // false means cancel; every other field is ignored

	Label      string
	Name       string
	Color      string
	Props      graph.Properties
	ClearProps bool // replace instead of merge
}

// Cancel is the zero Result, returned by prompters on dismissal.
var Cancel = Result{}

// Prompter is the external dialog collaborator. Prompt must eventually call
// done exactly once, either synchronously or from a later event; the
// controller suspends in StateAwaitingDialog until then and never blocks.
type Prompter interface {
	Prompt(req Request, done func(Result))
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(req Request, done func(Result))

// Prompt calls f.
func (f PrompterFunc) Prompt(req Request, done func(Result)) {
	f(req, done)
}
