package parser

import (
	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/source"
)

// TokenizeFunc produces the token starting at offset together with the
// state to use for the following token. It must be a pure function of
// (offset, state, input).
type TokenizeFunc[K Kind, S any] func(c *Core[K, S], offset source.ZeroIndexed, state S) (Token[K], S)

type Options[K Kind, S any] struct {
	Path     string
	Input    string
	Category diag.Category

	// EOF is the terminal kind; Whitespace is skipped by Next when
	// IgnoreWhitespace is set.
	EOF              K
	Whitespace       K
	IgnoreWhitespace bool

	Tokenize     TokenizeFunc[K, S]
	InitialState func() S

	// EscapedNewline is the grammar's rule for line terminators that do not
	// start a new line.
	EscapedNewline source.EscapedNewlineFunc
}

// Stateless adapts a tokenizer that does not use state.
func Stateless[K Kind, S any](fn func(c *Core[K, S], offset source.ZeroIndexed) Token[K]) TokenizeFunc[K, S] {
	return func(c *Core[K, S], offset source.ZeroIndexed, state S) (Token[K], S) {
		return fn(c, offset), state
	}
}
