package parser

import (
	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/source"
)

// Node is implemented by every AST node through an embedded NodeBase.
type Node interface {
	Location() source.Location
	SetLocation(source.Location)
}

type NodeBase struct {
	Loc source.Location `json:"loc"`
}

func (n *NodeBase) Location() source.Location       { return n.Loc }
func (n *NodeBase) SetLocation(loc source.Location) { n.Loc = loc }

// Root is implemented by the top-level node of a parse.
type Root interface {
	Node
	AttachDiagnostics([]diag.Diagnostic)
}

// RootBase owns the diagnostics of a completed parse. An empty list means the
// input was syntactically valid.
type RootBase struct {
	NodeBase
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

func (r *RootBase) AttachDiagnostics(diagnostics []diag.Diagnostic) {
	r.Diagnostics = diagnostics
}

// FinishNode stamps node with a location running from start to the end of
// the last consumed token. It is the only way grammars attach locations.
func FinishNode[N Node, K Kind, S any](c *Core[K, S], start source.Position, node N) N {
	node.SetLocation(c.finishLocation("FinishNode", start))
	return node
}

// FinishNodeAt stamps node with an explicit range, typically the span of a
// single consumed token.
func FinishNodeAt[N Node, K Kind, S any](c *Core[K, S], start, end source.ZeroIndexed, node N) N {
	if end < start {
		panic(contractf("FinishNodeAt", "end offset %d before start offset %d", end, start))
	}
	node.SetLocation(c.tracker.Location(start, end))
	return node
}

// FinishRoot finalizes the core, stamps root with the span of the whole
// input and attaches the diagnostics.
func FinishRoot[R Root, K Kind, S any](c *Core[K, S], root R) R {
	diagnostics := c.Finalize()
	root.SetLocation(c.tracker.Location(0, c.tracker.End()))
	root.AttachDiagnostics(diagnostics)
	return root
}
