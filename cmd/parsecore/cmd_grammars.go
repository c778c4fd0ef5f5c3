package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dhamidi/parsecore/grammar"
	"github.com/spf13/cobra"
)

func newGrammarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the available grammars and the extensions they handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := make(map[string][]string)
			for ext, name := range a.cfg.Extensions {
				if g, ok := grammar.Lookup(name); ok {
					overrides[g.Name] = append(overrides[g.Name], ext)
				}
			}
			for _, exts := range overrides {
				slices.Sort(exts)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tEXTENSIONS\tALIASES")
			for _, g := range grammar.All() {
				exts := append(append([]string(nil), g.Extensions...), overrides[g.Name]...)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Name, g.Category, strings.Join(exts, " "), strings.Join(g.Aliases, " "))
			}
			return w.Flush()
		},
	}
}
