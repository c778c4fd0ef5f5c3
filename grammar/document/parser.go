// Package document parses a Markdown subset: ATX headings, paragraphs,
// flat lists, block quotes, thematic breaks and fenced code blocks, with
// emphasis, inline code and links inside text.
//
// The tokenizer switches to a code mode after an opening fence and stays in
// it until the matching closing fence, so code is never scanned for inline
// markup.
package document

import (
	"strings"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/source"
)

func newCore(path, input string, ignoreWhitespace bool) *core {
	return parser.New(parser.Options[Kind, State]{
		Path:             path,
		Input:            input,
		Category:         diag.CategoryDocument,
		EOF:              TokenEOF,
		Whitespace:       TokenWhitespace,
		IgnoreWhitespace: ignoreWhitespace,
		Tokenize:         tokenize,
	})
}

func Parse(path, input string) *Root {
	p := &parse{c: newCore(path, input, true), input: input, failed: map[source.ZeroIndexed]bool{}}
	root := &Root{}
	for {
		p.skipNewlines()
		if p.c.AtEOF() {
			break
		}
		progress := p.c.MustProgress()
		root.Body = append(root.Body, p.parseBlock())
		progress()
	}
	root.State = p.c.State()
	return parser.FinishRoot(p.c, root)
}

func Tokens(path, input string) []Token {
	return parser.Collect(newCore(path, input, false))
}

type parse struct {
	c     *core
	input string

	// failed holds the offsets of openers known not to start a construct.
	failed  map[source.ZeroIndexed]bool
	pending []*opener
}

func (p *parse) parseBlock() Block {
	switch p.c.Token().Kind {
	case TokenHeadingLevel:
		return p.parseHeading()
	case TokenCodeFenceOpen:
		return p.parseCodeBlock()
	case TokenListBullet, TokenListNumber:
		return p.parseList()
	case TokenGreater:
		return p.parseBlockquote()
	case TokenThematicBreak:
		start := p.c.StartPosition()
		p.c.Next()
		return parser.FinishNode(p.c, start, &ThematicBreak{})
	}
	return p.parseParagraph()
}

func (p *parse) parseHeading() *Heading {
	c := p.c
	start := c.StartPosition()
	level := intValue(c.Next())
	heading := &Heading{Level: level, Children: p.parseInlines(false, nil)}
	return parser.FinishNode(c, start, heading)
}

func (p *parse) parseCodeBlock() *CodeBlock {
	c := p.c
	start := c.StartPosition()
	fence, _ := c.Next().Value.(CodeFence)
	block := &CodeBlock{Language: fence.Language, Info: fence.Info}
	for c.MatchAny(TokenCodeBlockText, TokenWhitespace) {
		if tok := c.Next(); tok.Kind == TokenCodeBlockText {
			block.Text += textValue(tok)
		}
	}
	// Unclosed blocks are reported by the tokenizer.
	c.Eat(TokenCodeFenceClose)
	return parser.FinishNode(c, start, block)
}

func (p *parse) parseList() *List {
	c := p.c
	start := c.StartPosition()
	marker := c.Token().Kind
	list := &List{Ordered: marker == TokenListNumber}
	if list.Ordered {
		list.Start = intValue(c.Token())
	}
	for c.Match(marker) {
		itemStart := c.StartPosition()
		c.Next()
		item := &ListItem{Children: p.parseInlines(false, nil)}
		list.Items = append(list.Items, parser.FinishNode(c, itemStart, item))
		if !c.Match(TokenNewline) || c.Lookahead().Kind != marker {
			break
		}
		c.Next()
	}
	return parser.FinishNode(c, start, list)
}

func (p *parse) parseBlockquote() *Blockquote {
	c := p.c
	start := c.StartPosition()
	quote := &Blockquote{}
	for c.Match(TokenGreater) {
		lineStart := c.StartPosition()
		c.Next()
		if !c.MatchAny(TokenNewline, TokenEOF) {
			para := &Paragraph{Children: p.parseInlines(false, nil)}
			quote.Children = append(quote.Children, parser.FinishNode(c, lineStart, para))
		}
		if !c.Match(TokenNewline) || c.Lookahead().Kind != TokenGreater {
			break
		}
		c.Next()
	}
	return parser.FinishNode(c, start, quote)
}

func (p *parse) parseParagraph() *Paragraph {
	c := p.c
	start := c.StartPosition()
	return parser.FinishNode(c, start, &Paragraph{Children: p.parseInlines(true, nil)})
}

func (p *parse) skipNewlines() {
	for p.c.Match(TokenNewline) {
		p.c.Next()
	}
}

func startsBlock(kind Kind) bool {
	switch kind {
	case TokenHeadingLevel, TokenCodeFenceOpen, TokenListBullet, TokenListNumber, TokenGreater, TokenThematicBreak:
		return true
	}
	return false
}

// parseInlines parses inline content up to the end of the line or, for
// paragraphs, up to a blank line or the start of another block. It also
// stops before any token accepted by closer.
func (p *parse) parseInlines(paragraph bool, closer func(Token) bool) []Inline {
	c := p.c
	var nodes []Inline
	var run textRun
	for !c.AtEOF() {
		tok := c.Token()
		if closer != nil && closer(tok) {
			break
		}
		if tok.Kind == TokenNewline {
			next := c.Lookahead().Kind
			if !paragraph || next == TokenNewline || next == TokenEOF || startsBlock(next) {
				break
			}
			run.add("\n", c.Next())
			continue
		}
		if startsBlock(tok.Kind) {
			break
		}
		if node := p.parseInline(paragraph); node != nil {
			nodes = run.flush(c, nodes)
			nodes = append(nodes, node)
			continue
		}
		tok = c.Next()
		value := tok.Text(p.input)
		if tok.Kind == TokenText {
			value = textValue(tok)
		}
		run.add(value, tok)
	}
	return run.flush(c, nodes)
}

// parseInline parses the construct at the current token, or returns nil
// when the token is plain text.
func (p *parse) parseInline(paragraph bool) Inline {
	c := p.c
	tok := c.Token()
	switch tok.Kind {
	case TokenStar, TokenUnderscore:
		if node, ok := p.parseEmphasis(paragraph); ok {
			return node
		}
	case TokenInlineCode:
		c.Next()
		return parser.FinishNodeAt(c, tok.Start, tok.End, &InlineCodeSpan{Value: textValue(tok)})
	case TokenOpenSquare:
		if node, ok := p.parseLink(paragraph); ok {
			return node
		}
	case TokenHardBreak:
		c.Next()
		return parser.FinishNodeAt(c, tok.Start, tok.End, &Break{})
	}
	return nil
}

// textRun joins adjacent text tokens into one Text node.
type textRun struct {
	value      strings.Builder
	start, end source.ZeroIndexed
	open       bool
}

func (r *textRun) add(value string, tok Token) {
	if !r.open {
		r.start, r.open = tok.Start, true
	}
	r.value.WriteString(value)
	r.end = tok.End
}

func (r *textRun) flush(c *core, nodes []Inline) []Inline {
	if !r.open {
		return nodes
	}
	text := parser.FinishNodeAt(c, r.start, r.end, &Text{Value: r.value.String()})
	r.value.Reset()
	r.open = false
	return append(nodes, text)
}

// opener is an emphasis or link opener whose closer is still being
// looked for.
type opener struct {
	kind   Kind
	length int
	doomed bool
}

// scanFor parses the inlines after o up to its closer. A scan that stops
// anywhere else has exhausted the inline region, and so has every pending
// opener of the same shape enclosing it: they continue over the same tokens
// looking for the same closer.
func (p *parse) scanFor(o *opener, paragraph bool, matches func(Token) bool) []Inline {
	p.pending = append(p.pending, o)
	defer func() { p.pending = p.pending[:len(p.pending)-1] }()

	children := p.parseInlines(paragraph, func(tok Token) bool { return o.doomed || matches(tok) })
	if o.doomed || matches(p.c.Token()) {
		return children
	}
	for i := len(p.pending) - 1; i >= 0; i-- {
		q := p.pending[i]
		if q.kind != o.kind || q.length != o.length {
			continue
		}
		if q.doomed {
			break
		}
		q.doomed = true
	}
	return children
}

// fail restores the stream to the opener at saved and remembers that no
// construct starts there.
func (p *parse) fail(saved parser.Snapshot[Kind, State], at source.ZeroIndexed) {
	p.c.Restore(saved)
	p.failed[at] = true
}

// parseEmphasis parses a delimited run. A run without a matching closer is
// not emphasis; the stream is restored and the caller treats it as text.
func (p *parse) parseEmphasis(paragraph bool) (Inline, bool) {
	c := p.c
	if p.failed[c.Token().Start] {
		return nil, false
	}
	saved := c.Save()
	start := c.StartPosition()
	open := c.Next()
	o := &opener{kind: open.Kind, length: intValue(open)}
	closes := func(tok Token) bool {
		return tok.Kind == open.Kind && intValue(tok) == o.length
	}
	children := p.scanFor(o, paragraph, closes)
	if o.doomed || !closes(c.Token()) || len(children) == 0 {
		p.fail(saved, open.Start)
		return nil, false
	}
	c.Next()
	if o.length == 1 {
		return parser.FinishNode(c, start, &Emphasis{Children: children}), true
	}
	return parser.FinishNode(c, start, &Strong{Children: children}), true
}

func (p *parse) parseLink(paragraph bool) (Inline, bool) {
	c := p.c
	if p.failed[c.Token().Start] {
		return nil, false
	}
	saved := c.Save()
	start := c.StartPosition()
	openSquare := c.Next()
	o := &opener{kind: TokenOpenSquare}
	children := p.scanFor(o, paragraph, func(tok Token) bool { return tok.Kind == TokenCloseSquare })
	if o.doomed {
		p.fail(saved, openSquare.Start)
		return nil, false
	}
	closeSquare, ok := c.Eat(TokenCloseSquare)
	if !ok || !c.Match(TokenOpenParen) || c.Token().Start != closeSquare.End {
		p.fail(saved, openSquare.Start)
		return nil, false
	}
	open := c.Next()
	for !c.MatchAny(TokenCloseParen, TokenNewline, TokenEOF) {
		c.Next()
	}
	closeParen, ok := c.Eat(TokenCloseParen)
	if !ok {
		p.fail(saved, openSquare.Start)
		return nil, false
	}
	link := &Link{Children: children, Destination: p.input[open.End:closeParen.Start]}
	return parser.FinishNode(c, start, link), true
}
