package parser

import (
	"fmt"

	"github.com/dhamidi/parsecore/source"
)

// Kind is the constraint on a grammar's closed set of token kinds.
type Kind interface {
	comparable
	fmt.Stringer
}

// Token is one lexical unit covering the byte range [Start, End). Kinds
// that carry a payload store it in Value; grammars expose typed accessors.
type Token[K Kind] struct {
	Kind  K
	Start source.ZeroIndexed
	End   source.ZeroIndexed
	Value any
}

func (t Token[K]) Len() int {
	return int(t.End - t.Start)
}

// Text returns the raw source text of the token.
func (t Token[K]) Text(input string) string {
	if t.Start < 0 || int(t.End) > len(input) || t.End < t.Start {
		return ""
	}
	return input[t.Start:t.End]
}

func (t Token[K]) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s[%d,%d) %v", t.Kind, t.Start, t.End, t.Value)
	}
	return fmt.Sprintf("%s[%d,%d)", t.Kind, t.Start, t.End)
}
