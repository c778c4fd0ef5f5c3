package stylesheet

import (
	"strings"
	"testing"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/internal/fixture"
	"github.com/dhamidi/parsecore/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclarations(t *testing.T) {
	list := ParseDeclarations("style", "color: red;")
	require.Empty(t, list.Diagnostics)
	require.Len(t, list.Declarations, 1)
	decl := list.Declarations[0]
	assert.Equal(t, "color", decl.Name)
	assert.False(t, decl.Important)
	require.Len(t, decl.Value, 1)
	ident, ok := decl.Value[0].(*Ident)
	require.True(t, ok, "value is %T", decl.Value[0])
	assert.Equal(t, "red", ident.Name)
	assert.Equal(t, source.Position{Line: 1, Column: 0}, decl.Location().Start)
	assert.Equal(t, source.Position{Line: 1, Column: 10}, decl.Location().End)
}

func TestParseStyleRule(t *testing.T) {
	root := Parse("test.css", "ul li > a, .x { margin: 0 auto !important; }")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Rules, 1)
	rule := root.Rules[0].(*StyleRule)
	require.Len(t, rule.Selectors, 2)

	var parts []SelectorPart
	for _, part := range rule.Selectors[0].Parts {
		parts = append(parts, SelectorPart{Kind: part.Kind, Name: part.Name})
	}
	assert.Equal(t, []SelectorPart{
		{Kind: TypeSelector, Name: "ul"},
		{Kind: Combinator, Name: " "},
		{Kind: TypeSelector, Name: "li"},
		{Kind: Combinator, Name: ">"},
		{Kind: TypeSelector, Name: "a"},
	}, parts)
	assert.Equal(t, ClassSelector, rule.Selectors[1].Parts[0].Kind)
	assert.Equal(t, "x", rule.Selectors[1].Parts[0].Name)

	require.Len(t, rule.Block.Declarations, 1)
	decl := rule.Block.Declarations[0]
	assert.True(t, decl.Important)
	require.Len(t, decl.Value, 2)
	assert.Equal(t, 0.0, decl.Value[0].(*Number).Value)
	assert.Equal(t, "auto", decl.Value[1].(*Ident).Name)
}

func TestSelectorParts(t *testing.T) {
	root := Parse("test.css", "#main *[data-x=\"1\"]::before:not(.a, .b) {}")
	require.Empty(t, root.Diagnostics)
	parts := root.Rules[0].(*StyleRule).Selectors[0].Parts
	require.Len(t, parts, 6)
	assert.Equal(t, IDSelector, parts[0].Kind)
	assert.Equal(t, "main", parts[0].Name)
	assert.Equal(t, Combinator, parts[1].Kind)
	assert.Equal(t, UniversalSelector, parts[2].Kind)
	assert.Equal(t, AttributeSelector, parts[3].Kind)
	assert.Equal(t, `data-x="1"`, parts[3].Name)
	assert.Equal(t, PseudoElementSelector, parts[4].Kind)
	assert.Equal(t, "before", parts[4].Name)
	assert.Equal(t, PseudoClassSelector, parts[5].Kind)
	assert.Equal(t, "not", parts[5].Name)
	assert.Equal(t, ".a, .b", parts[5].Arguments)
}

func TestNestedRules(t *testing.T) {
	root := Parse("test.css", "div { color: red; a:hover { color: blue } &.active { x: y } @media print { display: none } }")
	require.Empty(t, root.Diagnostics)
	block := root.Rules[0].(*StyleRule).Block
	require.Len(t, block.Declarations, 1)
	require.Len(t, block.Rules, 3)

	hover := block.Rules[0].(*StyleRule)
	require.Len(t, hover.Selectors[0].Parts, 2)
	assert.Equal(t, PseudoClassSelector, hover.Selectors[0].Parts[1].Kind)
	assert.Equal(t, "blue", hover.Block.Declarations[0].Value[0].(*Ident).Name)

	active := block.Rules[1].(*StyleRule)
	assert.Equal(t, NestingSelector, active.Selectors[0].Parts[0].Kind)

	media := block.Rules[2].(*AtRule)
	assert.Equal(t, "media", media.Name)
}

func TestAtRules(t *testing.T) {
	root := Parse("test.css", "@import url(\"a.css\");\n@media screen and (min-width: 40em) { a { color: red } }\n@keyframes spin { from { x: 0 } 50% { x: 1 } }\n")
	require.Empty(t, root.Diagnostics)
	require.Len(t, root.Rules, 3)

	imp := root.Rules[0].(*AtRule)
	assert.Nil(t, imp.Block)
	assert.Equal(t, "url", imp.Prelude[0].(*Function).Name)

	media := root.Rules[1].(*AtRule)
	require.Len(t, media.Block.Rules, 1)
	assert.Empty(t, media.Block.Declarations)
	assert.Equal(t, "(min-width: 40em)", media.Prelude[2].(*Raw).Text)

	keyframes := root.Rules[2].(*AtRule)
	require.Len(t, keyframes.Block.Rules, 2)
	step := keyframes.Block.Rules[1].(*StyleRule)
	assert.Equal(t, KeyframeSelector, step.Selectors[0].Parts[0].Kind)
	assert.Equal(t, "50%", step.Selectors[0].Parts[0].Name)
}

func TestUnknownAtRuleSuggestion(t *testing.T) {
	root := Parse("test.css", "@medai screen { a { color: red } }")
	require.Len(t, root.Diagnostics, 1)
	d := root.Diagnostics[0]
	assert.Equal(t, `Unknown at-rule "@medai"`, d.Message)
	assert.Equal(t, []string{`did you mean "@media"?`}, d.Advice)
	assert.Equal(t, diag.CategoryStylesheet, d.Category)
	assert.Equal(t, source.Position{Line: 1, Column: 6}, d.Location.End)
}

func TestVendorPrefixedAtRule(t *testing.T) {
	root := Parse("test.css", "@-webkit-keyframes fade { to { opacity: 0 } }")
	assert.Empty(t, root.Diagnostics)
}

func TestCustomPropertyAsOnlyArgument(t *testing.T) {
	list := ParseDeclarations("style", "width: calc(--gap); color: var(--fg)")
	require.Len(t, list.Diagnostics, 1)
	d := list.Diagnostics[0]
	assert.Equal(t, `Custom property "--gap" used as the only argument of calc()`, d.Message)
	assert.Equal(t, []string{"wrap it in var(): calc(var(--gap))"}, d.Advice)
	assert.Equal(t, source.Position{Line: 1, Column: 12}, d.Location.Start)
	assert.Equal(t, source.Position{Line: 1, Column: 17}, d.Location.End)
	assert.Len(t, list.Declarations, 2)
}

func TestCustomPropertyMayBeEmpty(t *testing.T) {
	list := ParseDeclarations("style", "--empty: ; color: ;")
	require.Len(t, list.Diagnostics, 1)
	assert.Equal(t, `Expected a value for property "color"`, list.Diagnostics[0].Message)
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unclosed block", "a { color: red", "Expected '}' but found end of file"},
		{"stray brace", "}", "Unexpected '}'"},
		{"missing colon", "a { color red }", `Expected ':' after property "color" but found identifier`},
		{"missing semicolon", "a { color: red background: blue }", `Unexpected ':' in the value of "color"`},
		{"missing block", "a", "Expected '{' but found end of file"},
		{"unterminated comment", "a {} /* note", "Unterminated comment"},
		{"unterminated string", "a { content: \"x\n}", "Unterminated string"},
		{"unclosed function", "a { color: rgb(1, 2, 3 }", `Expected ')' to close "rgb(" but found '}'`},
		{"bad important", "a { color: red !importnt }", `Expected "important" after '!'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Parse("test.css", tt.input)
			require.NotEmpty(t, root.Diagnostics)
			assert.True(t, strings.HasPrefix(root.Diagnostics[0].Message, tt.message), root.Diagnostics[0].Message)
		})
	}
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	root := Parse("test.css", "a { color red; margin: 0 }\nb { padding: 1px }")
	require.Len(t, root.Diagnostics, 1)
	require.Len(t, root.Rules, 2)
	first := root.Rules[0].(*StyleRule)
	require.Len(t, first.Block.Declarations, 2)
	assert.Equal(t, "margin", first.Block.Declarations[1].Name)
	dim := root.Rules[1].(*StyleRule).Block.Declarations[0].Value[0].(*Dimension)
	assert.Equal(t, Dimension{Value: 1, Unit: "px"}, Dimension{Value: dim.Value, Unit: dim.Unit})
}

func TestTokens(t *testing.T) {
	var got []Kind
	for _, tok := range Tokens("test.css", "a{b:1%}") {
		got = append(got, tok.Kind)
	}
	assert.Equal(t, []Kind{TokenIdent, TokenOpenCurly, TokenIdent, TokenColon, TokenPercentage, TokenCloseCurly, TokenEOF}, got)
}

func TestEscapedNames(t *testing.T) {
	tokens := Tokens("test.css", `.a\:b \31 0`)
	require.GreaterOrEqual(t, len(tokens), 4)
	assert.Equal(t, "a:b", stringValue(tokens[1]))
	assert.Equal(t, "10", stringValue(tokens[3]))
}

func TestTrailingSpaceOnlyMovesEnd(t *testing.T) {
	for _, input := range []string{"a { color: red }", "@media x { b {} }", "a { color red }"} {
		plain, spaced := Parse("test.css", input), Parse("test.css", input+" ")
		assert.Equal(t, plain.Diagnostics, spaced.Diagnostics, input)
		require.Len(t, spaced.Rules, len(plain.Rules))
		for i := range plain.Rules {
			assert.Equal(t, plain.Rules[i].Location(), spaced.Rules[i].Location(), input)
		}
	}
}

func TestFixtures(t *testing.T) {
	fixture.Run(t, "testdata/fixtures.yaml", func(path, input string) []diag.Diagnostic {
		return Parse(path, input).Diagnostics
	})
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"a { color: red }", "@media x { b:hover { c: d } }", "a{b:url(", "\\", "/*", "'\n", "#{-->"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		root := Parse("fuzz.css", input)
		for _, d := range root.Diagnostics {
			if !d.Location.Valid() {
				t.Fatalf("invalid location %v", d.Location)
			}
		}
	})
}
