// Package snapshot parses snapshot files: Markdown-like documents whose
// headings name test cases and whose fenced code blocks hold the expected
// output.
package snapshot

import (
	"fmt"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/parser"
)

func newCore(path, input string, ignoreWhitespace bool) *core {
	return parser.New(parser.Options[Kind, State]{
		Path:             path,
		Input:            input,
		Category:         diag.CategorySnapshot,
		EOF:              TokenEOF,
		Whitespace:       TokenWhitespace,
		IgnoreWhitespace: ignoreWhitespace,
		Tokenize:         parser.Stateless(tokenize),
	})
}

func Parse(path, input string) *Root {
	p := &parse{c: newCore(path, input, true), headings: map[string]*Heading{}}
	c := p.c
	root := &Root{}
	for !c.AtEOF() {
		progress := c.MustProgress()
		if _, ok := c.Eat(TokenNewline); !ok {
			root.Body = append(root.Body, p.parseBlock())
		}
		progress()
	}
	return parser.FinishRoot(c, root)
}

func Tokens(path, input string) []Token {
	return parser.Collect(newCore(path, input, false))
}

type parse struct {
	c        *core
	headings map[string]*Heading
}

func (p *parse) parseBlock() Block {
	c := p.c
	start := c.StartPosition()
	var block Block
	switch tok := c.Next(); tok.Kind {
	case TokenHashes:
		heading := &Heading{Level: tok.Value.(int)}
		if text, ok := c.Eat(TokenTextLine); ok {
			heading.Text = text.Value.(string)
		}
		block = parser.FinishNode(c, start, heading)
		p.checkDuplicate(heading)
	case TokenCodeBlock:
		code := tok.Value.(Code)
		block = parser.FinishNode(c, start, &CodeBlock{Language: code.Language, Text: code.Text})
	default:
		text, _ := tok.Value.(string)
		block = parser.FinishNode(c, start, &TextLine{Text: text})
	}
	if !c.MatchAny(TokenNewline, TokenEOF) {
		c.Unexpected(fmt.Sprintf("Expected a newline but found %s", c.Token().Kind))
	}
	return block
}

// checkDuplicate reports a heading that repeats an earlier one; Entry would
// never reach its code blocks.
func (p *parse) checkDuplicate(heading *Heading) {
	if heading.Text == "" {
		return
	}
	if first, ok := p.headings[heading.Text]; ok {
		p.c.UnexpectedNode(heading,
			fmt.Sprintf("Duplicate snapshot %q", heading.Text),
			"first defined at "+first.Location().String())
		return
	}
	p.headings[heading.Text] = heading
}
