package main

import (
	"fmt"

	"github.com/dhamidi/parsecore/format"
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	var outputFormat string
	var grammarName string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file, whitespace included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, input, err := a.readInput(cmd, args[0], grammarName)
			if err != nil {
				return err
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tokens := g.Tokens(args[0], input)
			if err := enc.EncodeTokens(tokens, g.Tracker(args[0], input)); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, dump, line)")
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar to use instead of the file extension")

	return cmd
}
