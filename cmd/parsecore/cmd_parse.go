package main

import (
	"fmt"

	"github.com/dhamidi/parsecore/format"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var grammarName string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its syntax tree",
		Long: `Parse a file and print its syntax tree to standard output.

Diagnostics are printed to standard error with a code frame. The grammar is
chosen by file extension unless --grammar is given; "-" reads standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, input, err := a.readInput(cmd, args[0], grammarName)
			if err != nil {
				return err
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result := g.Parse(args[0], input)
			log.Debugf("parsed %s as %s with %d diagnostics", args[0], g.Name, len(result.Diagnostics))
			if !quiet {
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
			}
			a.printDiagnostics(cmd.ErrOrStderr(), result)
			if !result.OK() {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, dump, line)")
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar to use instead of the file extension")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print diagnostics")

	return cmd
}
