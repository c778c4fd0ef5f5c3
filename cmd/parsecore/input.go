package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/grammar"
	"github.com/spf13/cobra"
)

// readInput returns the grammar and contents of path. "-" reads standard
// input and then needs an explicit grammar name.
func (a *app) readInput(cmd *cobra.Command, path, name string) (*grammar.Grammar, string, error) {
	var g *grammar.Grammar
	if name != "" {
		var ok bool
		g, ok = grammar.Lookup(name)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", grammar.ErrUnknown, name)
		}
	} else if path == "-" {
		return nil, "", fmt.Errorf("reading standard input needs --grammar")
	} else {
		var err error
		g, err = a.cfg.resolver().Resolve(path)
		if err != nil {
			return nil, "", err
		}
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return g, string(data), nil
}

// printDiagnostics renders every diagnostic of result with a code frame.
func (a *app) printDiagnostics(w io.Writer, result grammar.Result) {
	color := a.useColor(w)
	for _, d := range result.Diagnostics {
		fmt.Fprintln(w, diag.Display(d, result.Tracker, color))
	}
}
