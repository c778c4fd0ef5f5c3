package document

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/scan"
	"github.com/dhamidi/parsecore/source"
)

type Kind int

const (
	TokenEOF Kind = iota
	TokenText
	TokenWhitespace
	TokenNewline
	TokenHeadingLevel
	TokenListBullet
	TokenListNumber
	TokenGreater
	TokenThematicBreak
	TokenCodeFenceOpen
	TokenCodeBlockText
	TokenCodeFenceClose
	TokenStar
	TokenUnderscore
	TokenInlineCode
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenParen
	TokenCloseParen
	TokenHardBreak
)

var kindNames = map[Kind]string{
	TokenEOF:            "end of file",
	TokenText:           "text",
	TokenWhitespace:     "whitespace",
	TokenNewline:        "newline",
	TokenHeadingLevel:   "heading marker",
	TokenListBullet:     "list bullet",
	TokenListNumber:     "list number",
	TokenGreater:        "'>'",
	TokenThematicBreak:  "thematic break",
	TokenCodeFenceOpen:  "opening code fence",
	TokenCodeBlockText:  "code",
	TokenCodeFenceClose: "closing code fence",
	TokenStar:           "'*'",
	TokenUnderscore:     "'_'",
	TokenInlineCode:     "inline code",
	TokenOpenSquare:     "'['",
	TokenCloseSquare:    "']'",
	TokenOpenParen:      "'('",
	TokenCloseParen:     "')'",
	TokenHardBreak:      "hard line break",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Token = parser.Token[Kind]

// State is the tokenizer mode. Inside a fenced code block Fence holds the
// opening fence. MissingNewline is set while the code of a block that
// started on the opening fence's line is being scanned; on that line the
// closing fence may appear anywhere.
type State struct {
	InCodeBlock    bool   `json:"inCodeBlock"`
	MissingNewline bool   `json:"missingNewline"`
	Fence          string `json:"fence,omitempty"`
}

// CodeFence is the payload of a CodeFenceOpen token.
type CodeFence struct {
	Fence    string
	Language string
	Info     string
}

type core = parser.Core[Kind, State]

func textValue(tok Token) string {
	s, _ := tok.Value.(string)
	return s
}

func intValue(tok Token) int {
	n, _ := tok.Value.(int)
	return n
}

func tokenize(c *core, offset source.ZeroIndexed, state State) (Token, State) {
	if state.InCodeBlock {
		return tokenizeCode(c, offset, state)
	}
	if c.IsEOFAt(offset) {
		return c.EOFToken(), state
	}
	input := c.Input()
	i := int(offset)
	switch ch := input[i]; {
	case ch == '\n':
		return c.FinishToken(TokenNewline), state
	case ch == '\r' && c.HasPrefixAt(offset, "\r\n"):
		return c.FinishTokenAt(TokenNewline, offset.Add(2)), state
	case ch == ' ' || ch == '\t':
		_, end := c.ReadInputFrom(offset, scan.Blanks)
		if scan.AtLineStart(input, i) || c.IsEOFAt(end) || scan.IsNewline(rune(c.CharAt(end))) {
			return c.FinishTokenAt(TokenWhitespace, end), state
		}
	}
	if scan.AtLineStart(input, i) {
		if tok, next, ok := tokenizeBlockMarker(c, offset, state); ok {
			return tok, next
		}
	}
	return tokenizeInline(c, offset), state
}

func tokenizeBlockMarker(c *core, offset source.ZeroIndexed, state State) (Token, State, bool) {
	input := c.Input()
	i := int(offset)
	line := input[i:scan.LineEnd(input, i)]
	ch := input[i]

	if fence := fenceAt(input, i); fence != "" {
		return tokenizeFenceOpen(c, offset, fence)
	}
	if isThematicBreak(line) {
		return c.FinishTokenAt(TokenThematicBreak, offset.Add(len(strings.TrimRight(line, " \t\r")))), state, true
	}
	switch {
	case ch == '#':
		level := len(line) - len(strings.TrimLeft(line, "#"))
		if level <= 6 && (level == len(line) || scan.IsSpace(rune(line[level]))) {
			_, end := c.ReadInputFrom(offset.Add(level), scan.Blanks)
			return c.FinishValueToken(TokenHeadingLevel, level, end), state, true
		}
	case ch == '-' || ch == '*' || ch == '+':
		if len(line) == 1 || scan.IsBlank(rune(line[1])) {
			_, end := c.ReadInputFrom(offset.Increment(), scan.Blanks)
			return c.FinishTokenAt(TokenListBullet, end), state, true
		}
	case ch == '>':
		end := offset.Increment()
		if c.CharAt(end) == ' ' {
			end = end.Increment()
		}
		return c.FinishTokenAt(TokenGreater, end), state, true
	case scan.IsDigit(rune(ch)):
		digits := len(line) - len(strings.TrimLeft(line, "0123456789"))
		if digits <= 9 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') &&
			(digits+1 == len(line) || scan.IsBlank(rune(line[digits+1]))) {
			n, _ := strconv.Atoi(line[:digits])
			_, end := c.ReadInputFrom(offset.Add(digits+1), scan.Blanks)
			return c.FinishValueToken(TokenListNumber, n, end), state, true
		}
	}
	return Token{}, state, false
}

// fenceAt returns the run of three or more backticks or tildes at i.
func fenceAt(input string, i int) string {
	if i >= len(input) || (input[i] != '`' && input[i] != '~') {
		return ""
	}
	n := 0
	for i+n < len(input) && input[i+n] == input[i] {
		n++
	}
	if n < 3 {
		return ""
	}
	return input[i : i+n]
}

func isThematicBreak(line string) bool {
	line = strings.TrimRight(line, "\r")
	compact := strings.NewReplacer(" ", "", "\t", "").Replace(line)
	if len(compact) < 3 || !strings.ContainsRune("-*_", rune(compact[0])) {
		return false
	}
	return strings.Count(compact, compact[:1]) == len(compact)
}

// tokenizeFenceOpen covers the fence, the language and, when the rest of the
// line is metadata, the line terminator. Code written on the fence's own
// line is reported and scanned as the block's first line.
func tokenizeFenceOpen(c *core, offset source.ZeroIndexed, fence string) (Token, State, bool) {
	input := c.Input()
	i := int(offset) + len(fence)
	lineEnd := scan.LineEnd(input, i)
	rest := input[i:lineEnd]

	trimmed := strings.TrimLeft(rest, " \t")
	language, _, _ := strings.Cut(trimmed, " ")
	language = strings.TrimRight(language, "\r\t")

	value := CodeFence{Fence: fence, Language: language}
	next := State{InCodeBlock: true, Fence: fence}

	if strings.Contains(trimmed[len(language):], fence) {
		end := i + len(rest) - len(trimmed) + len(language)
		for end < lineEnd && scan.IsBlank(rune(input[end])) {
			end++
		}
		c.UnexpectedRange(source.ZeroIndexed(end), source.ZeroIndexed(end), "Missing newline after code block opening fence")
		next.MissingNewline = true
		return c.FinishValueToken(TokenCodeFenceOpen, value, source.ZeroIndexed(end)), next, true
	}
	value.Info = strings.TrimSpace(trimmed[len(language):])
	end := lineEnd
	if end < len(input) {
		end++
	}
	return c.FinishValueToken(TokenCodeFenceOpen, value, source.ZeroIndexed(end)), next, true
}

func tokenizeCode(c *core, offset source.ZeroIndexed, state State) (Token, State) {
	input := c.Input()
	if c.IsEOFAt(offset) {
		c.UnexpectedRange(offset, offset, "Unclosed code block")
		return c.EOFToken(), State{}
	}
	i := int(offset)
	if c.HasPrefixAt(offset, state.Fence) && (state.MissingNewline || scan.AtLineStart(input, i)) {
		end := i
		for end < len(input) && input[end] == state.Fence[0] {
			end++
		}
		return c.FinishTokenAt(TokenCodeFenceClose, source.ZeroIndexed(end)), State{}
	}

	if scan.AtLineStart(input, i) {
		_, fenceStart := c.ReadInputFrom(offset, scan.Blanks)
		if fenceStart > offset && c.HasPrefixAt(fenceStart, state.Fence) {
			return c.FinishTokenAt(TokenWhitespace, fenceStart), state
		}
	}

	if state.MissingNewline {
		lineEnd := scan.LineEnd(input, i)
		if idx := strings.Index(input[i:lineEnd], state.Fence); idx >= 0 {
			end := i + idx
			text := strings.TrimRight(input[i:end], " \t")
			return c.FinishValueToken(TokenCodeBlockText, text, source.ZeroIndexed(end)), state
		}
		state.MissingNewline = false
	}

	// Scan whole lines until one opens with the closing fence.
	end := scan.LineEnd(input, i)
	for end < len(input) {
		lineStart := end + 1
		fenceStart := lineStart
		for fenceStart < len(input) && scan.IsBlank(rune(input[fenceStart])) {
			fenceStart++
		}
		if strings.HasPrefix(input[fenceStart:], state.Fence) {
			text := strings.TrimSuffix(strings.TrimSuffix(input[i:lineStart], "\n"), "\r")
			return c.FinishValueToken(TokenCodeBlockText, text, source.ZeroIndexed(fenceStart)), state
		}
		end = scan.LineEnd(input, lineStart)
	}
	return c.FinishValueToken(TokenCodeBlockText, input[i:], source.ZeroIndexed(len(input))), state
}

const inlineStops = "\n\r*_`[]()\\"

func tokenizeInline(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	i := int(offset)
	switch ch := input[i]; ch {
	case '*', '_':
		n := 1
		for i+n < len(input) && input[i+n] == ch {
			n++
		}
		if ch == '_' && i > 0 && isWordByte(input[i-1]) && i+n < len(input) && isWordByte(input[i+n]) {
			break
		}
		kind := TokenStar
		if ch == '_' {
			kind = TokenUnderscore
		}
		return c.FinishValueToken(kind, n, offset.Add(n))
	case '`':
		return tokenizeInlineCode(c, offset)
	case '[':
		return c.FinishToken(TokenOpenSquare)
	case ']':
		return c.FinishToken(TokenCloseSquare)
	case '(':
		return c.FinishToken(TokenOpenParen)
	case ')':
		return c.FinishToken(TokenCloseParen)
	case '\\':
		if c.HasPrefixAt(offset.Increment(), "\n") || c.HasPrefixAt(offset.Increment(), "\r\n") {
			return c.FinishToken(TokenHardBreak)
		}
		if next := c.CharAt(offset.Increment()); next < utf8.RuneSelf && strings.ContainsRune(asciiPunct, rune(next)) {
			return c.FinishValueToken(TokenText, string(next), offset.Add(2))
		}
		return c.FinishValueToken(TokenText, "\\", offset.Increment())
	}
	return tokenizeText(c, offset)
}

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func isWordByte(b byte) bool {
	return scan.IsLetter(rune(b)) || scan.IsDigit(rune(b)) || b >= utf8.RuneSelf
}

// tokenizeText scans plain text. Blanks at the end of a line are left for a
// Whitespace token.
func tokenizeText(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	start := int(offset)
	i := start + 1
	for i < len(input) {
		ch := input[i]
		if ch == '_' && isWordByte(input[i-1]) && i+1 < len(input) && isWordByte(input[i+1]) {
			i++
			continue
		}
		if strings.IndexByte(inlineStops, ch) >= 0 {
			break
		}
		i++
	}
	if i == len(input) || scan.IsNewline(rune(input[i])) {
		if trimmed := strings.TrimRight(input[start:i], " \t"); trimmed != "" {
			i = start + len(trimmed)
		}
	}
	return c.FinishValueToken(TokenText, input[start:i], source.ZeroIndexed(i))
}

// tokenizeInlineCode matches a backtick run with the next run of the same
// length before a blank line. Unmatched runs are text.
func tokenizeInlineCode(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	i := int(offset)
	n := 0
	for i+n < len(input) && input[i+n] == '`' {
		n++
	}
	limit := len(input)
	if blank := strings.Index(input[i:], "\n\n"); blank >= 0 {
		limit = i + blank
	}
	for j := i + n; j < limit; {
		k := strings.IndexByte(input[j:limit], '`')
		if k < 0 {
			break
		}
		j += k
		m := 0
		for j+m < limit && input[j+m] == '`' {
			m++
		}
		if m == n {
			content := strings.ReplaceAll(input[i+n:j], "\n", " ")
			if len(content) > 1 && content[0] == ' ' && content[len(content)-1] == ' ' {
				content = content[1 : len(content)-1]
			}
			return c.FinishValueToken(TokenInlineCode, content, source.ZeroIndexed(j+m))
		}
		j += m
	}
	return c.FinishValueToken(TokenText, input[i:i+n], offset.Add(n))
}
