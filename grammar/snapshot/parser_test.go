package snapshot

import (
	"testing"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/internal/fixture"
	"github.com/dhamidi/parsecore/source"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeading(t *testing.T) {
	for _, input := range []string{"## Title", "## Title ", "## Title\t\n"} {
		root := Parse("test.snap.md", input)
		require.Empty(t, root.Diagnostics, "%q", input)
		require.Len(t, root.Body, 1)
		heading := root.Body[0].(*Heading)
		assert.Equal(t, 2, heading.Level)
		assert.Equal(t, "Title", heading.Text)
		want := source.Location{Path: "test.snap.md", Start: source.Position{Line: 1}, End: source.Position{Line: 1, Column: 8}}
		assert.Equal(t, want, heading.Location(), "%q", input)
	}
}

func TestHashesNeedABlank(t *testing.T) {
	root := Parse("test.snap.md", "#tag\n#\n")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Body, 2)
	assert.Equal(t, "#tag", root.Body[0].(*TextLine).Text)
	assert.Equal(t, &Heading{NodeBase: root.Body[1].(*Heading).NodeBase, Level: 1}, root.Body[1])
}

func TestTokens(t *testing.T) {
	var got []Kind
	for _, tok := range Tokens("test.snap.md", "# a \n```js\nx\n```\ntext") {
		got = append(got, tok.Kind)
	}
	want := []Kind{TokenHashes, TokenWhitespace, TokenTextLine, TokenWhitespace, TokenNewline, TokenCodeBlock, TokenNewline, TokenTextLine, TokenEOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestCodeBlock(t *testing.T) {
	root := Parse("test.snap.md", "# case\n\n```json\n{\"a\": 1}\n\n```\n")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Body, 2)
	code := root.Body[1].(*CodeBlock)
	assert.Equal(t, "json", code.Language)
	assert.Equal(t, "{\"a\": 1}\n", code.Text)
	assert.Equal(t, source.Position{Line: 3}, code.Location().Start)
	assert.Equal(t, source.Position{Line: 6, Column: 3}, code.Location().End)
}

func TestFencesInsideCodeAreText(t *testing.T) {
	root := Parse("test.snap.md", "```\n# not a heading\n```")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Body, 1)
	assert.Equal(t, "# not a heading", root.Body[0].(*CodeBlock).Text)
}

func TestSections(t *testing.T) {
	input := "intro\n```\npre\n```\n# first\n```\na\n```\n```\nb\n```\n## second\n# third\n```\nc\n```\n"
	root := Parse("test.snap.md", input)
	require.Empty(t, root.Diagnostics)

	sections := root.Sections()
	require.Len(t, sections, 4)
	assert.Nil(t, sections[0].Heading)
	assert.Len(t, sections[0].CodeBlocks, 1)
	assert.Equal(t, "first", sections[1].Heading.Text)
	assert.Len(t, sections[1].CodeBlocks, 2)
	assert.Empty(t, sections[2].CodeBlocks)

	third, ok := root.Entry("third")
	require.True(t, ok)
	require.Len(t, third.CodeBlocks, 1)
	assert.Equal(t, "c", third.CodeBlocks[0].Text)

	_, ok = root.Entry("missing")
	assert.False(t, ok)
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		advice  []string
	}{
		{"unclosed code block", "# a\n```\nb\n", "Unclosed code block", nil},
		{"unclosed at fence line", "```js", "Unclosed code block", nil},
		{"duplicate heading", "# a\n```\n1\n```\n# a\n", `Duplicate snapshot "a"`, []string{"first defined at test.snap.md:1:0"}},
		{"text after closing fence", "```\nx\n``` trailing\n", "Expected a newline but found text", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Parse("test.snap.md", tt.input)
			require.Len(t, root.Diagnostics, 1)
			d := root.Diagnostics[0]
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.advice, d.Advice)
			assert.Equal(t, diag.CategorySnapshot, d.Category)
		})
	}
}

func TestUnclosedCodeBlockKeepsText(t *testing.T) {
	root := Parse("test.snap.md", "```txt\nline one\nline two")
	require.Len(t, root.Body, 1)
	code := root.Body[0].(*CodeBlock)
	assert.Equal(t, "txt", code.Language)
	assert.Equal(t, "line one\nline two", code.Text)
}

func TestCRLF(t *testing.T) {
	root := Parse("test.snap.md", "# a\r\n```\r\nx\r\n```\r\n")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Body, 2)
	assert.Equal(t, "a", root.Body[0].(*Heading).Text)
	assert.Equal(t, "x", root.Body[1].(*CodeBlock).Text)
}

func TestTrailingSpaceOnlyMovesEnd(t *testing.T) {
	for _, input := range []string{"## Title", "plain text", "# a\n```js\nx\n```"} {
		plain, spaced := Parse("t.snap.md", input), Parse("t.snap.md", input+" ")
		assert.Equal(t, plain.Diagnostics, spaced.Diagnostics, "%q", input)
		assert.Equal(t, plain.Body, spaced.Body, "%q", input)
		assert.Equal(t, plain.Location().Start, spaced.Location().Start, "%q", input)
		assert.Equal(t, plain.Location().End.Column+1, spaced.Location().End.Column, "%q", input)
		if diff := cmp.Diff(significant(Tokens("t.snap.md", input)), significant(Tokens("t.snap.md", input+" "))); diff != "" {
			t.Errorf("%q: tokens changed (-plain, +spaced):\n%s", input, diff)
		}
	}
}

// significant drops whitespace and the EOF offset.
func significant(tokens []Token) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.Kind != TokenWhitespace && tok.Kind != TokenEOF {
			out = append(out, tok)
		}
	}
	return out
}

func TestFixtures(t *testing.T) {
	fixture.Run(t, "testdata/fixtures.yaml", func(path, input string) []diag.Diagnostic {
		return Parse(path, input).Diagnostics
	})
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"# a\n```\nb\n```\n", "```", "#", "\r", "  # x\n\t```y"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		root := Parse("fuzz.snap.md", input)
		for _, d := range root.Diagnostics {
			if !d.Location.Valid() {
				t.Fatalf("invalid location %v", d.Location)
			}
		}
		for _, block := range root.Body {
			if !block.Location().Valid() {
				t.Fatalf("invalid node location %v", block.Location())
			}
		}
	})
}
