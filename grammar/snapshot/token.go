package snapshot

import (
	"strconv"
	"strings"

	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/scan"
	"github.com/dhamidi/parsecore/source"
)

type Kind int

const (
	TokenEOF Kind = iota
	TokenWhitespace
	TokenNewline
	TokenHashes
	TokenTextLine
	TokenCodeBlock
)

var kindNames = map[Kind]string{
	TokenEOF:        "end of file",
	TokenWhitespace: "whitespace",
	TokenNewline:    "newline",
	TokenHashes:     "heading marker",
	TokenTextLine:   "text",
	TokenCodeBlock:  "code block",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Token = parser.Token[Kind]

type State struct{}

type core = parser.Core[Kind, State]

// Code is the payload of a CodeBlock token.
type Code struct {
	Language string
	Text     string
}

const fence = "```"

func tokenize(c *core, offset source.ZeroIndexed) Token {
	if c.IsEOFAt(offset) {
		return c.EOFToken()
	}
	input := c.Input()
	i := int(offset)
	switch ch := input[i]; {
	case ch == '\n':
		return c.FinishToken(TokenNewline)
	case ch == '\r' && c.HasPrefixAt(offset, "\r\n"):
		return c.FinishTokenAt(TokenNewline, offset.Add(2))
	case ch == ' ' || ch == '\t':
		_, end := c.ReadInputFrom(offset, scan.Blanks)
		return c.FinishTokenAt(TokenWhitespace, end)
	case ch == '#' && scan.AtLineStart(input, i):
		if level := headingLevel(input, i); level > 0 {
			return c.FinishValueToken(TokenHashes, level, offset.Add(level))
		}
	case ch == '`' && c.HasPrefixAt(offset, fence) && scan.AtLineStart(input, i):
		return tokenizeCode(c, offset)
	}
	return tokenizeText(c, offset)
}

// headingLevel counts the hashes at i when they are followed by a blank or
// the end of the line.
func headingLevel(input string, i int) int {
	n := 0
	for i+n < len(input) && input[i+n] == '#' {
		n++
	}
	if i+n == len(input) || scan.IsBlank(rune(input[i+n])) || scan.IsNewline(rune(input[i+n])) {
		return n
	}
	return 0
}

// tokenizeText reads the rest of the line. Trailing blanks are left for a
// Whitespace token so they never become part of the text.
func tokenizeText(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	_, lineEnd := c.ReadInputFrom(offset, scan.NotEOL)
	text := strings.TrimRight(input[offset:lineEnd], " \t\r")
	if text == "" {
		text = input[offset : offset+1]
	}
	return c.FinishValueToken(TokenTextLine, text, offset.Add(len(text)))
}

// tokenizeCode reads a fenced block through its closing fence. The info
// string after the opening fence is the language.
func tokenizeCode(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	_, infoEnd := c.ReadInputFrom(offset.Add(len(fence)), scan.NotEOL)
	code := Code{Language: strings.TrimSpace(input[offset.Add(len(fence)):infoEnd])}
	if int(infoEnd) == len(input) {
		c.UnexpectedRange(offset, infoEnd, "Unclosed code block")
		return c.FinishValueToken(TokenCodeBlock, code, infoEnd)
	}
	body := int(infoEnd) + 1
	for line := body; line < len(input); {
		next := strings.IndexByte(input[line:], '\n')
		if next < 0 {
			next = len(input)
		} else {
			next += line
		}
		if trimmed := strings.TrimLeft(input[line:next], " \t"); strings.HasPrefix(trimmed, fence) {
			closeAt := next - len(trimmed)
			code.Text = strings.TrimSuffix(strings.TrimSuffix(input[body:line], "\n"), "\r")
			return c.FinishValueToken(TokenCodeBlock, code, source.ZeroIndexed(closeAt+len(fence)))
		}
		line = next + 1
	}
	c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unclosed code block")
	code.Text = input[body:]
	return c.FinishValueToken(TokenCodeBlock, code, source.ZeroIndexed(len(input)))
}
