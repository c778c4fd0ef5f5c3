package document

import (
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/internal/fixture"
	"github.com/dhamidi/parsecore/source"
	"github.com/google/go-cmp/cmp"
)

func TestParseFencedCodeBlock(t *testing.T) {
	root := Parse("README.md", "```js\ncode\n```")
	if len(root.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", root.Diagnostics)
	}
	if len(root.Body) != 1 {
		t.Fatalf("expected 1 block, got %d", len(root.Body))
	}
	block, ok := root.Body[0].(*CodeBlock)
	if !ok {
		t.Fatalf("expected CodeBlock, got %T", root.Body[0])
	}
	if block.Language != "js" {
		t.Errorf("Language = %q, want %q", block.Language, "js")
	}
	if block.Text != "code" {
		t.Errorf("Text = %q, want %q", block.Text, "code")
	}
	want := source.Location{Path: "README.md", Start: source.Position{Line: 1}, End: source.Position{Line: 3, Column: 3}}
	if block.Location() != want {
		t.Errorf("Location = %v, want %v", block.Location(), want)
	}
}

func TestParseCodeBlockMissingNewline(t *testing.T) {
	root := Parse("README.md", "```js code ```")
	if len(root.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", root.Diagnostics)
	}
	d := root.Diagnostics[0]
	if d.Message != "Missing newline after code block opening fence" {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Category != diag.CategoryDocument {
		t.Errorf("Category = %q", d.Category)
	}
	block, ok := root.Body[0].(*CodeBlock)
	if !ok {
		t.Fatalf("expected CodeBlock, got %T", root.Body[0])
	}
	if block.Language != "js" || block.Text != "code" {
		t.Errorf("block = %+v", block)
	}
	if root.State != (State{}) {
		t.Errorf("final state = %+v, want the initial state", root.State)
	}
}

func TestParseUnclosedCodeBlock(t *testing.T) {
	root := Parse("README.md", "```go\nfunc main() {}\n")
	if len(root.Diagnostics) != 1 || root.Diagnostics[0].Message != "Unclosed code block" {
		t.Fatalf("diagnostics = %v", root.Diagnostics)
	}
	block := root.Body[0].(*CodeBlock)
	if block.Text != "func main() {}\n" {
		t.Errorf("Text = %q", block.Text)
	}
}

func TestCodeIsNotMarkup(t *testing.T) {
	root := Parse("README.md", "~~~\n# not a heading\n*x*\n  ~~~\n")
	if len(root.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", root.Diagnostics)
	}
	if len(root.Body) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(root.Body), root.Body)
	}
	if text := root.Body[0].(*CodeBlock).Text; text != "# not a heading\n*x*" {
		t.Errorf("Text = %q", text)
	}
}

func TestParseHeading(t *testing.T) {
	root := Parse("README.md", "## Getting *started*\n")
	heading, ok := root.Body[0].(*Heading)
	if !ok {
		t.Fatalf("expected Heading, got %T", root.Body[0])
	}
	if heading.Level != 2 {
		t.Errorf("Level = %d, want 2", heading.Level)
	}
	if got := PlainText(heading.Children); got != "Getting started" {
		t.Errorf("text = %q", got)
	}
	if _, ok := heading.Children[1].(*Emphasis); !ok {
		t.Errorf("expected Emphasis, got %T", heading.Children[1])
	}
}

func TestParseBlocks(t *testing.T) {
	input := "# Title\n\nSome **bold** and `code`\nacross lines.\n\n- one\n- two\n\n1. first\n2. second\n\n> quoted\n> text\n\n---\n"
	root := Parse("README.md", input)
	if len(root.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", root.Diagnostics)
	}
	var got []string
	for _, block := range root.Body {
		switch block := block.(type) {
		case *Heading:
			got = append(got, "heading")
		case *Paragraph:
			got = append(got, "paragraph:"+PlainText(block.Children))
		case *List:
			if block.Ordered {
				got = append(got, "ordered", PlainText(block.Items[1].Children))
			} else {
				got = append(got, "bullets", PlainText(block.Items[0].Children))
			}
		case *Blockquote:
			got = append(got, "quote")
		case *ThematicBreak:
			got = append(got, "break")
		}
	}
	want := []string{
		"heading",
		"paragraph:Some bold and code\nacross lines.",
		"bullets", "one",
		"ordered", "second",
		"quote",
		"break",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("blocks (-want, +got):\n%s", diff)
	}
}

func TestParseLink(t *testing.T) {
	root := Parse("README.md", "See [the docs](https://example.com/a_b) or [not a link].")
	para := root.Body[0].(*Paragraph)
	var link *Link
	for _, node := range para.Children {
		if l, ok := node.(*Link); ok {
			link = l
		}
	}
	if link == nil {
		t.Fatalf("no link in %+v", para.Children)
	}
	if link.Destination != "https://example.com/a_b" {
		t.Errorf("Destination = %q", link.Destination)
	}
	if got := PlainText(para.Children); got != "See the docs or [not a link]." {
		t.Errorf("text = %q", got)
	}
}

func TestUnmatchedEmphasisIsText(t *testing.T) {
	root := Parse("README.md", "2 * 3 = 6 and snake_case_name")
	para := root.Body[0].(*Paragraph)
	if len(para.Children) != 1 {
		t.Fatalf("expected a single text node, got %+v", para.Children)
	}
	if got := PlainText(para.Children); got != "2 * 3 = 6 and snake_case_name" {
		t.Errorf("text = %q", got)
	}
}

func TestUnclosedOpenersParseInLinearTime(t *testing.T) {
	var runs []string
	for i := 1; i <= 200; i++ {
		runs = append(runs, strings.Repeat("*", i)+"a")
	}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"brackets", strings.Repeat("[", 10000), strings.Repeat("[", 10000)},
		{"emphasis runs", "x " + strings.Join(runs, " "), "x " + strings.Join(runs, " ")},
		{"nested link", strings.Repeat("[", 5000) + "x](u)", strings.Repeat("[", 4999) + "x"},
		{"mixed", strings.Repeat("[_", 5000), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			root := Parse("t.md", tt.input)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Fatalf("parse took %v", elapsed)
			}
			if len(root.Body) != 1 {
				t.Fatalf("expected 1 block, got %d", len(root.Body))
			}
			para, ok := root.Body[0].(*Paragraph)
			if !ok {
				t.Fatalf("expected a paragraph, got %T", root.Body[0])
			}
			if tt.want == "" {
				return
			}
			if got := PlainText(para.Children); got != tt.want {
				t.Errorf("text = %.40q..., want %.40q...", got, tt.want)
			}
		})
	}
}

func TestTrailingSpaceOnlyMovesEnd(t *testing.T) {
	for _, input := range []string{"```js\ncode\n```", "```js code ```", "# Title", "*a* b"} {
		plain, spaced := Parse("t.md", input), Parse("t.md", input+" ")
		if diff := cmp.Diff(plain.Diagnostics, spaced.Diagnostics); diff != "" {
			t.Errorf("%q: diagnostics changed (-plain, +spaced):\n%s", input, diff)
		}
		if diff := cmp.Diff(significant(Tokens("t.md", input)), significant(Tokens("t.md", input+" "))); diff != "" {
			t.Errorf("%q: tokens changed (-plain, +spaced):\n%s", input, diff)
		}
	}
}

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
	for _, seed := range []string{"# a\n\n*b* `c`", "```\n", "```js x ```", "> [a](b", "1. x\n- y\n***"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		root := Parse("fuzz.md", input)
		for _, d := range root.Diagnostics {
			if !d.Location.Valid() {
				t.Fatalf("invalid location %v", d.Location)
			}
		}
	})
}
