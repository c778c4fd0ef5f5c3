// Package ebnflex is a reference tokenizer driven by an EBNF description of
// a lexical grammar. Grammar tests use it as an independent oracle for the
// token boundaries of hand-written tokenizers.
package ebnflex

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/dhamidi/parsecore/source"
	"golang.org/x/exp/ebnf"
)

// Error is the kind of a character no production matches.
const Error = "ERROR"

type Token struct {
	Kind  string
	Start source.ZeroIndexed
	End   source.ZeroIndexed
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%d,%d)", t.Kind, t.Start, t.End)
}

type memoKey struct {
	name   string
	offset int
}

// Lexer splits input into the longest match among a list of productions.
// Ties go to the production listed first.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    string
	pos      int
	memo     map[memoKey]int // match length, -1 for no match
	visiting map[memoKey]bool
}

// Load parses and verifies the grammar in path. Every production must be
// reachable from start.
func Load(path, start string) (ebnf.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

// New returns a lexer emitting tokens for the named productions. A kind
// missing from the grammar is an error.
func New(grammar ebnf.Grammar, kinds []string, input string) (*Lexer, error) {
	for _, kind := range kinds {
		if prod, ok := grammar[kind]; !ok || prod.Expr == nil {
			return nil, fmt.Errorf("no production %q", kind)
		}
	}
	return &Lexer{
		grammar: grammar,
		kinds:   kinds,
		input:   input,
		memo:    make(map[memoKey]int),
	}, nil
}

// Next returns the next token and false at the end of input.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}
	start := l.pos

	var kind string
	var best int
	for _, name := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		if n := l.match(l.grammar[name].Expr, start); n > best {
			kind, best = name, n
		}
	}
	if best == 0 {
		_, size := utf8.DecodeRuneInString(l.input[start:])
		kind, best = Error, size
	}
	l.pos += best
	return Token{Kind: kind, Start: source.ZeroIndexed(start), End: source.ZeroIndexed(l.pos)}, true
}

// Tokenize returns every token of the remaining input.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// match returns the length of the longest match of expr at offset, 0 for
// none. Sequences and repetitions are greedy and do not backtrack.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		if len(e.String) > 0 && offset+len(e.String) <= len(l.input) && l.input[offset:offset+len(e.String)] == e.String {
			return len(e.String)
		}
		return 0

	case *ebnf.Range:
		return l.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n := l.match(item, pos)
			if n == 0 && !optional(item) {
				return 0
			}
			pos += n
		}
		return pos - offset

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			best = max(best, l.match(alt, offset))
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			n := l.match(e.Body, pos)
			if n == 0 {
				return pos - offset
			}
			pos += n
		}

	case *ebnf.Option:
		return l.match(e.Body, offset)

	case *ebnf.Group:
		return l.match(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return 0
}

// optional reports whether expr may match the empty string.
func optional(expr ebnf.Expression) bool {
	switch expr.(type) {
	case *ebnf.Repetition, *ebnf.Option:
		return true
	}
	return false
}

func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		return max(n, 0)
	}
	// left recursion
	if l.visiting[key] {
		return 0
	}
	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return 0
	}

	l.visiting[key] = true
	n := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	if n == 0 {
		l.memo[key] = -1
	} else {
		l.memo[key] = n
	}
	return n
}

func (l *Lexer) matchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return 0
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRuneInString(l.input[offset:])
	if lo <= r && r <= hi {
		return size
	}
	return 0
}
