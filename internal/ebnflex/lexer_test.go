package ebnflex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"
)

const numbers = `
Start = { token } .
token = number | ident | space .
number = digit { digit } [ "." digit { digit } ] .
ident = letter { letter | digit } .
space = " " { " " } .
digit = "0" … "9" .
letter = "a" … "z" | "é" .
`

func parse(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	grammar, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, ebnf.Verify(grammar, "Start"))
	return grammar
}

func kinds(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenize(t *testing.T) {
	grammar := parse(t, numbers)
	lexer, err := New(grammar, []string{"number", "ident", "space"}, "x1 12.5 3 é!")
	require.NoError(t, err)

	tokens := lexer.Tokenize()
	assert.Equal(t, []string{"ident", "space", "number", "space", "number", "space", "ident", Error}, kinds(tokens))
	assert.Equal(t, "number[3,7)", tokens[2].String())
	// é is two bytes
	assert.Equal(t, Token{Kind: "ident", Start: 10, End: 12}, tokens[6])
	assert.Equal(t, Token{Kind: Error, Start: 12, End: 13}, tokens[7])

	_, ok := lexer.Next()
	assert.False(t, ok)
}

func TestOptionalInSequence(t *testing.T) {
	grammar := parse(t, numbers)
	lexer, err := New(grammar, []string{"number"}, "42")
	require.NoError(t, err)
	assert.Equal(t, []Token{{Kind: "number", Start: 0, End: 2}}, lexer.Tokenize())
}

func TestTiesGoToFirstKind(t *testing.T) {
	grammar := parse(t, numbers)

	lexer, err := New(grammar, []string{"digit", "number"}, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"digit"}, kinds(lexer.Tokenize()))

	lexer, err = New(grammar, []string{"number", "digit"}, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"number"}, kinds(lexer.Tokenize()))
}

func TestNewRejectsUnknownKinds(t *testing.T) {
	_, err := New(parse(t, numbers), []string{"string"}, "")
	assert.ErrorContains(t, err, `no production "string"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ebnf")
	require.NoError(t, os.WriteFile(good, []byte(numbers), 0o644))
	_, err := Load(good, "Start")
	require.NoError(t, err)

	unreachable := filepath.Join(dir, "unreachable.ebnf")
	require.NoError(t, os.WriteFile(unreachable, []byte(numbers+"extra = \"x\" .\n"), 0o644))
	_, err = Load(unreachable, "Start")
	assert.ErrorContains(t, err, "verify grammar")

	_, err = Load(filepath.Join(dir, "missing.ebnf"), "Start")
	assert.ErrorContains(t, err, "open grammar")
}
