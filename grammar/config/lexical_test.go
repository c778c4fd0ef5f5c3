package config

import (
	"testing"

	"github.com/dhamidi/parsecore/internal/ebnflex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var lexicalKinds = map[string]Kind{
	"text":         TokenText,
	"whitespace":   TokenWhitespace,
	"comment":      TokenWhitespace,
	"newline":      TokenNewline,
	"equals":       TokenEquals,
	"dot":          TokenDot,
	"comma":        TokenComma,
	"open_square":  TokenOpenSquare,
	"close_square": TokenCloseSquare,
	"open_curly":   TokenOpenCurly,
	"close_curly":  TokenCloseCurly,
	ebnflex.Error:  TokenInvalid,
}

// TestTokensMatchLexicalGrammar checks token boundaries against the EBNF
// description in testdata for inputs without quoted strings.
func TestTokensMatchLexicalGrammar(t *testing.T) {
	grammar, err := ebnflex.Load("testdata/lexical.ebnf", "Document")
	require.NoError(t, err)
	kinds := []string{
		"text", "whitespace", "comment", "newline", "equals", "dot", "comma",
		"open_square", "close_square", "open_curly", "close_curly",
	}

	inputs := []string{
		"a = 1\n",
		"[server.http]\nport = 8080 # default\n",
		"[[points]]\nx = -1\ny = +2.5e3\n",
		"list = [1, 2, 3,]\n",
		"point = { x = 1, y = 2 }\r\n",
		"when = 1979-05-27T07:32:00Z\n",
		"bare-key_2 = true\n\t\n",
		"a = 1 @ 2\n",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			lexer, err := ebnflex.New(grammar, kinds, input)
			require.NoError(t, err)

			type span struct {
				Kind       Kind
				Start, End int
			}
			var want []span
			for _, tok := range lexer.Tokenize() {
				kind, ok := lexicalKinds[tok.Kind]
				require.True(t, ok, tok.Kind)
				want = append(want, span{kind, int(tok.Start), int(tok.End)})
			}
			var got []span
			for _, tok := range Tokens("test.toml", input) {
				if tok.Kind == TokenEOF {
					continue
				}
				got = append(got, span{tok.Kind, int(tok.Start), int(tok.End)})
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("tokens (-ebnf, +tokenizer):\n%s", diff)
			}
		})
	}
}
