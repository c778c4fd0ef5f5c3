package grammar

import (
	"testing"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/grammar/script"
	"github.com/dhamidi/parsecore/grammar/stylesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"config", "config"},
		{"TOML", "config"},
		{"markdown", "document"},
		{"css", "stylesheet"},
		{"parse/css", "stylesheet"},
		{"snapshots", "snapshot"},
		{" js ", "script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.Name)
		})
	}

	_, ok := Lookup("cobol")
	assert.False(t, ok)
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Cargo.toml", "config"},
		{"docs/README.md", "document"},
		{"site/MAIN.CSS", "stylesheet"},
		{"tests/spec.snap", "snapshot"},
		{"tests/spec.snap.md", "snapshot"},
		{"src/index.mjs", "script"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			g, ok := ForPath(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.Name)
		})
	}

	for _, path := range []string{"notes.txt", "Makefile", ".md"} {
		_, ok := ForPath(path)
		assert.False(t, ok, path)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"config", "document", "script", "snapshot", "stylesheet"}, Names())
}

func TestParseResult(t *testing.T) {
	g, ok := Lookup("css")
	require.True(t, ok)

	result := g.Parse("a.css", "a { color: red; }")
	assert.True(t, result.OK())
	assert.Equal(t, "stylesheet", result.Grammar)
	root, ok := result.Root.(*stylesheet.Root)
	require.True(t, ok, "got %T", result.Root)
	assert.Len(t, root.Rules, 1)

	result = g.Parse("a.css", "a { color red }")
	require.False(t, result.OK())
	for _, d := range result.Diagnostics {
		assert.Equal(t, diag.CategoryStylesheet, d.Category)
	}
}

func TestParseResultScript(t *testing.T) {
	g, ok := ForPath("main.js")
	require.True(t, ok)

	result := g.Parse("main.js", "retrun x")
	require.Len(t, result.Diagnostics, 1)
	_, ok = result.Root.(*script.Program)
	assert.True(t, ok)
	assert.Equal(t, []string{`did you mean "return"?`}, result.Diagnostics[0].Advice)
}

func TestTrackerFollowsGrammarLines(t *testing.T) {
	g, ok := Lookup("config")
	require.True(t, ok)

	input := "s = \"\"\"a \\\n  b\"\"\"\nx = ?"
	result := g.Parse("test.toml", input)
	require.NotEmpty(t, result.Diagnostics)
	line := result.Diagnostics[0].Location.Start.Line
	assert.Equal(t, "x = ?", result.Tracker.LineText(line))
	assert.Equal(t, 2, result.Tracker.LineCount())

	// The same input has three lines for a grammar without escapes.
	doc, ok := Lookup("document")
	require.True(t, ok)
	assert.Equal(t, 3, doc.Tracker("test.md", input).LineCount())
}

func TestTokens(t *testing.T) {
	g, ok := Lookup("toml")
	require.True(t, ok)

	input := "a = 1"
	var kinds, texts []string
	for _, tok := range g.Tokens("a.toml", input) {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text(input))
	}
	assert.Equal(t, []string{"text", "whitespace", "'='", "whitespace", "text", "end of file"}, kinds)
	assert.Equal(t, []string{"a", " ", "=", " ", "1", ""}, texts)
}

func TestResolver(t *testing.T) {
	r := Resolver{Overrides: map[string]string{
		".jsx":     "js",
		"conf":     "toml",
		".broken":  "cobol",
		".snap.md": "document",
	}}

	tests := []struct {
		path string
		want string
	}{
		{"app.jsx", "script"},
		{"server.conf", "config"},
		{"tests/a.snap.md", "document"},
		{"style.css", "stylesheet"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			g, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Name)
		})
	}

	_, err := r.Resolve("x.broken")
	assert.ErrorIs(t, err, ErrUnknown)
	assert.ErrorContains(t, err, `override "cobol"`)

	_, err = r.Resolve("notes.txt")
	assert.ErrorIs(t, err, ErrUnknown)
}
