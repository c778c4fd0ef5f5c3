// Package parser is the driver hand-written recursive-descent grammars are
// built on.
//
// A grammar supplies a TokenizeFunc producing one token at a time from an
// offset and a grammar-defined state value. Core keeps the current and
// previous token, threads the state through every tokenize call, records
// diagnostics instead of failing, and stamps finished nodes with source
// locations:
//
//	c := parser.New(parser.Options[Kind, State]{
//		Path:     path,
//		Input:    input,
//		Category: diag.CategoryConfig,
//		EOF:      EOF,
//		Tokenize: tokenize,
//	})
//	start := c.StartPosition()
//	key := c.Expect(Text)
//	node := parser.FinishNode(c, start, &Key{Name: key.Text(input)})
//
// Malformed input never panics. Panics with *ContractError signal a defect
// in the core or in a grammar.
package parser
