package config

import (
	"fmt"
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
	TokenQuote
	TokenString
	TokenEquals
	TokenDot
	TokenComma
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenCurly
	TokenCloseCurly
	TokenNewline
	TokenWhitespace
	TokenInvalid
)

var kindNames = map[Kind]string{
	TokenEOF:         "end of file",
	TokenText:        "text",
	TokenQuote:       "quote",
	TokenString:      "string",
	TokenEquals:      "'='",
	TokenDot:         "'.'",
	TokenComma:       "','",
	TokenOpenSquare:  "'['",
	TokenCloseSquare: "']'",
	TokenOpenCurly:   "'{'",
	TokenCloseCurly:  "'}'",
	TokenNewline:     "newline",
	TokenWhitespace:  "whitespace",
	TokenInvalid:     "invalid character",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Token = parser.Token[Kind]

// State is the tokenizer mode. Inside a quoted value Delimiter holds the
// opening quote: one of ", ', """ or '''.
type State struct {
	InString  bool   `json:"inString"`
	Delimiter string `json:"delimiter,omitempty"`
}

func (s State) literal() bool   { return s.Delimiter[0] == '\'' }
func (s State) multiline() bool { return len(s.Delimiter) == 3 }

type core = parser.Core[Kind, State]

// StringValue returns the unescaped payload of a String token.
func StringValue(tok Token) string {
	s, _ := tok.Value.(string)
	return s
}

// EscapedNewlines returns the newlines that follow a line ending backslash
// inside a multi-line basic string, the only place where lines are joined.
// Elsewhere a backslash before a newline is an error and the line ends.
func EscapedNewlines(input string) []int {
	var escaped []int
	delimiter := ""
	for i := 0; i < len(input); {
		if delimiter == "" {
			switch input[i] {
			case '#':
				i = scan.LineEnd(input, i)
			case '"', '\'':
				delimiter = input[i : i+1]
				if strings.HasPrefix(input[i:], strings.Repeat(delimiter, 3)) {
					delimiter = strings.Repeat(delimiter, 3)
				}
				i += len(delimiter)
			default:
				i++
			}
			continue
		}
		switch {
		case strings.HasPrefix(input[i:], delimiter):
			i += len(delimiter)
			delimiter = ""
		case input[i] == '\n':
			// single-line strings end with their line
			if len(delimiter) == 1 {
				delimiter = ""
			}
			i++
		case input[i] == '\\' && delimiter[0] == '"':
			newline := scan.LineEnd(input, i)
			switch {
			case delimiter == `"""` && newline < len(input) && scan.LastNonBlank(input, newline) == i:
				escaped = append(escaped, newline)
				i = newline + 1
			case i+1 < len(input) && input[i+1] != '\n' && input[i+1] != '\r':
				i += 2
			default:
				i++
			}
		default:
			i++
		}
	}
	return escaped
}

func isBare(r rune) bool {
	return scan.IsLetter(r) || scan.IsDigit(r) || r == '_' || r == '-'
}

// isValueChar also admits the characters of numbers and dates once a run
// starts with a digit or sign.
func isValueChar(r rune) bool {
	return isBare(r) || r == '+' || r == '.' || r == ':'
}

func tokenize(c *core, offset source.ZeroIndexed, state State) (Token, State) {
	if state.InString {
		return tokenizeString(c, offset, state)
	}
	if c.IsEOFAt(offset) {
		return c.EOFToken(), state
	}
	ch := c.CharAt(offset)
	switch ch {
	case ' ', '\t':
		_, end := c.ReadInputFrom(offset, scan.Blanks)
		return c.FinishTokenAt(TokenWhitespace, end), state
	case '#':
		_, end := c.ReadInputFrom(offset, scan.Until("\r\n"))
		return c.FinishTokenAt(TokenWhitespace, end), state
	case '\n':
		return c.FinishToken(TokenNewline), state
	case '\r':
		if c.CharAt(offset.Increment()) == '\n' {
			return c.FinishTokenAt(TokenNewline, offset.Add(2)), state
		}
	case '=':
		return c.FinishToken(TokenEquals), state
	case '.':
		return c.FinishToken(TokenDot), state
	case ',':
		return c.FinishToken(TokenComma), state
	case '[':
		return c.FinishToken(TokenOpenSquare), state
	case ']':
		return c.FinishToken(TokenCloseSquare), state
	case '{':
		return c.FinishToken(TokenOpenCurly), state
	case '}':
		return c.FinishToken(TokenCloseCurly), state
	case '"', '\'':
		delimiter := string(ch)
		if c.HasPrefixAt(offset, strings.Repeat(delimiter, 3)) {
			delimiter = strings.Repeat(delimiter, 3)
		}
		end := offset.Add(len(delimiter))
		return c.FinishValueToken(TokenQuote, delimiter, end), State{InString: true, Delimiter: delimiter}
	}
	if r, _ := c.RuneAt(offset); isBare(r) || r == '+' {
		pred := isBare
		if scan.IsDigit(r) || r == '+' || r == '-' {
			pred = isValueChar
		}
		text, end := c.ReadInputFrom(offset, func(r rune, _ source.ZeroIndexed, _ string) bool { return pred(r) })
		return c.FinishValueToken(TokenText, text, end), state
	}
	r, size := c.RuneAt(offset)
	end := offset.Add(size)
	c.UnexpectedRange(offset, end, fmt.Sprintf("Unexpected character %q", r))
	return c.FinishTokenAt(TokenInvalid, end), state
}

// tokenizeString scans the contents of a quoted value up to, but not
// including, its closing delimiter. A string that is not closed before the
// end of its line (or of the input, for multi-line strings) is reported
// once, when the tokenizer reaches that point, and the mode is left.
func tokenizeString(c *core, offset source.ZeroIndexed, state State) (Token, State) {
	input := c.Input()
	if c.HasPrefixAt(offset, state.Delimiter) {
		end := offset.Add(len(state.Delimiter))
		return c.FinishValueToken(TokenQuote, state.Delimiter, end), State{}
	}
	atLineEnd := c.IsEOFAt(offset) || (!state.multiline() && (c.HasPrefixAt(offset, "\n") || c.HasPrefixAt(offset, "\r\n")))
	if atLineEnd {
		c.UnexpectedRange(offset, offset, "Unterminated string")
		if c.IsEOFAt(offset) {
			return c.EOFToken(), State{}
		}
		_, end := c.ReadInputFrom(offset, scan.Until("\n"))
		return c.FinishTokenAt(TokenNewline, end.Increment()), State{}
	}

	var b strings.Builder
	i := int(offset)
	if state.multiline() {
		// Contents always start right after the opening delimiter, where a
		// newline is trimmed.
		if strings.HasPrefix(input[i:], "\r\n") {
			i += 2
		} else if strings.HasPrefix(input[i:], "\n") {
			i++
		}
	}
	for i < len(input) && !strings.HasPrefix(input[i:], state.Delimiter) {
		ch := input[i]
		if !state.multiline() && (ch == '\n' || (ch == '\r' && strings.HasPrefix(input[i:], "\r\n"))) {
			break
		}
		if ch != '\\' || state.literal() {
			_, size := utf8.DecodeRuneInString(input[i:])
			b.WriteString(input[i : i+size])
			i += size
			continue
		}
		i = unescape(c, &b, i, state)
	}
	return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(i)), state
}

// unescape decodes the escape sequence starting with the backslash at i and
// returns the offset after it.
func unescape(c *core, b *strings.Builder, i int, state State) int {
	input := c.Input()
	if i+1 >= len(input) {
		c.UnexpectedRange(source.ZeroIndexed(i), source.ZeroIndexed(i+1), "Invalid escape sequence at end of input")
		return i + 1
	}
	switch esc := input[i+1]; esc {
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case 'e':
		b.WriteByte('\x1b')
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case 'u', 'U':
		digits := 4
		if esc == 'U' {
			digits = 8
		}
		start, end := i+2, i+2+digits
		if end > len(input) {
			end = len(input)
		}
		code, err := strconv.ParseUint(input[start:end], 16, 32)
		if err != nil || end-start != digits || !utf8.ValidRune(rune(code)) {
			c.UnexpectedRange(source.ZeroIndexed(i), source.ZeroIndexed(end), fmt.Sprintf("Invalid unicode escape %q", input[i:end]))
			return end
		}
		b.WriteRune(rune(code))
		return end
	case ' ', '\t', '\r', '\n':
		if !state.multiline() && (esc == '\n' || strings.HasPrefix(input[i+1:], "\r\n")) {
			// The string ends with its line and reports itself unterminated.
			b.WriteByte('\\')
			return i + 1
		}
		if state.multiline() && scan.LastNonBlank(input, scan.LineEnd(input, i)) == i {
			// Line ending backslash: drop all whitespace up to the next
			// non-blank character.
			j := i + 1
			for j < len(input) && scan.IsSpace(rune(input[j])) {
				j++
			}
			return j
		}
		fallthrough
	default:
		_, size := utf8.DecodeRuneInString(input[i+1:])
		c.UnexpectedRange(source.ZeroIndexed(i), source.ZeroIndexed(i+1+size), fmt.Sprintf("Invalid escape sequence %q", input[i:i+1+size]))
		b.WriteString(input[i : i+1+size])
		return i + 1 + size
	}
	return i + 2
}
