package stylesheet

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
	TokenWhitespace
	TokenIdent
	TokenFunction
	TokenAtKeyword
	TokenHash
	TokenString
	TokenBadString
	TokenNumber
	TokenPercentage
	TokenDimension
	TokenDelim
	TokenColon
	TokenSemicolon
	TokenComma
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenParen
	TokenCloseParen
	TokenCDO
	TokenCDC
)

var kindNames = map[Kind]string{
	TokenEOF:         "end of file",
	TokenWhitespace:  "whitespace",
	TokenIdent:       "identifier",
	TokenFunction:    "function",
	TokenAtKeyword:   "at-keyword",
	TokenHash:        "hash",
	TokenString:      "string",
	TokenBadString:   "bad string",
	TokenNumber:      "number",
	TokenPercentage:  "percentage",
	TokenDimension:   "dimension",
	TokenDelim:       "delimiter",
	TokenColon:       "':'",
	TokenSemicolon:   "';'",
	TokenComma:       "','",
	TokenOpenCurly:   "'{'",
	TokenCloseCurly:  "'}'",
	TokenOpenSquare:  "'['",
	TokenCloseSquare: "']'",
	TokenOpenParen:   "'('",
	TokenCloseParen:  "')'",
	TokenCDO:         "'<!--'",
	TokenCDC:         "'-->'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Token = parser.Token[Kind]

// The stylesheet tokenizer has no modes.
type State struct{}

type core = parser.Core[Kind, State]

// DimensionValue is the payload of a Dimension token.
type DimensionValue struct {
	Value float64
	Unit  string
}

// NumericValue is the payload of Number and Percentage tokens.
type NumericValue struct {
	Value float64
	Raw   string
}

func stringValue(tok Token) string {
	s, _ := tok.Value.(string)
	return s
}

// EscapedNewlines returns the newlines directly preceded by an escaping
// backslash, which continue a string onto the next line.
func EscapedNewlines(input string) []int {
	var escaped []int
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' && scan.Escaped(input, i) {
			escaped = append(escaped, i)
		}
	}
	return escaped
}

func isNameStart(r rune) bool { return scan.IsNameStart(r) }
func isNameChar(r rune) bool  { return scan.IsNameChar(r) || r == '-' }

// startsName reports whether an identifier starts at i: a name start, a
// valid escape, or a hyphen followed by either or by another hyphen.
func startsName(input string, i int) bool {
	if i >= len(input) {
		return false
	}
	switch input[i] {
	case '-':
		if i+1 >= len(input) {
			return false
		}
		next, _ := utf8.DecodeRuneInString(input[i+1:])
		return next == '-' || isNameStart(next) || startsEscape(input, i+1)
	case '\\':
		return startsEscape(input, i)
	}
	r, _ := utf8.DecodeRuneInString(input[i:])
	return isNameStart(r)
}

func startsEscape(input string, i int) bool {
	return i+1 < len(input) && input[i] == '\\' && input[i+1] != '\n'
}

func startsNumber(input string, i int) bool {
	if i >= len(input) {
		return false
	}
	switch input[i] {
	case '+', '-':
		return i+1 < len(input) && (scan.IsDigit(rune(input[i+1])) ||
			(input[i+1] == '.' && i+2 < len(input) && scan.IsDigit(rune(input[i+2]))))
	case '.':
		return i+1 < len(input) && scan.IsDigit(rune(input[i+1]))
	}
	return scan.IsDigit(rune(input[i]))
}

func tokenize(c *core, offset source.ZeroIndexed) Token {
	if c.IsEOFAt(offset) {
		return c.EOFToken()
	}
	input := c.Input()
	i := int(offset)
	ch := input[i]
	switch {
	case scan.IsSpace(rune(ch)):
		_, end := c.ReadInputFrom(offset, scan.Spaces)
		return c.FinishTokenAt(TokenWhitespace, end)
	case c.HasPrefixAt(offset, "/*"):
		end := strings.Index(input[i+2:], "*/")
		if end < 0 {
			c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unterminated comment")
			return c.FinishTokenAt(TokenWhitespace, source.ZeroIndexed(len(input)))
		}
		return c.FinishTokenAt(TokenWhitespace, offset.Add(end+4))
	case ch == '"' || ch == '\'':
		return tokenizeString(c, offset)
	case startsNumber(input, i):
		return tokenizeNumeric(c, offset)
	case c.HasPrefixAt(offset, "<!--"):
		return c.FinishTokenAt(TokenCDO, offset.Add(4))
	case c.HasPrefixAt(offset, "-->"):
		return c.FinishTokenAt(TokenCDC, offset.Add(3))
	case startsName(input, i):
		name, end := readName(input, i)
		if end < len(input) && input[end] == '(' {
			return c.FinishValueToken(TokenFunction, name, source.ZeroIndexed(end+1))
		}
		return c.FinishValueToken(TokenIdent, name, source.ZeroIndexed(end))
	case ch == '@' && startsName(input, i+1):
		name, end := readName(input, i+1)
		return c.FinishValueToken(TokenAtKeyword, name, source.ZeroIndexed(end))
	case ch == '#' && i+1 < len(input) && (isNameChar(rune(input[i+1])) || input[i+1] >= utf8.RuneSelf || startsEscape(input, i+1)):
		name, end := readName(input, i+1)
		return c.FinishValueToken(TokenHash, name, source.ZeroIndexed(end))
	}
	switch ch {
	case ':':
		return c.FinishToken(TokenColon)
	case ';':
		return c.FinishToken(TokenSemicolon)
	case ',':
		return c.FinishToken(TokenComma)
	case '{':
		return c.FinishToken(TokenOpenCurly)
	case '}':
		return c.FinishToken(TokenCloseCurly)
	case '[':
		return c.FinishToken(TokenOpenSquare)
	case ']':
		return c.FinishToken(TokenCloseSquare)
	case '(':
		return c.FinishToken(TokenOpenParen)
	case ')':
		return c.FinishToken(TokenCloseParen)
	}
	r, size := c.RuneAt(offset)
	return c.FinishValueToken(TokenDelim, string(r), offset.Add(size))
}

// readName consumes name characters and escapes starting at i and returns
// the unescaped name.
func readName(input string, i int) (string, int) {
	var b strings.Builder
	for i < len(input) {
		if startsEscape(input, i) {
			var r rune
			r, i = readEscape(input, i)
			b.WriteRune(r)
			continue
		}
		r, size := utf8.DecodeRuneInString(input[i:])
		if !isNameChar(r) {
			break
		}
		b.WriteRune(r)
		i += size
	}
	return b.String(), i
}

// readEscape decodes the escape at the backslash at i: up to six hex digits
// and one optional whitespace, or any other single character.
func readEscape(input string, i int) (rune, int) {
	i++
	if i >= len(input) {
		return utf8.RuneError, i
	}
	j := i
	for j < len(input) && j-i < 6 && scan.IsHexDigit(rune(input[j])) {
		j++
	}
	if j > i {
		code, _ := strconv.ParseUint(input[i:j], 16, 32)
		if j < len(input) && scan.IsSpace(rune(input[j])) {
			j++
		}
		r := rune(code)
		if code == 0 || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		return r, j
	}
	r, size := utf8.DecodeRuneInString(input[i:])
	return r, i + size
}

func tokenizeString(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	quote := input[offset]
	var b strings.Builder
	i := int(offset) + 1
	for i < len(input) {
		switch ch := input[i]; {
		case ch == quote:
			return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(i+1))
		case ch == '\n':
			c.UnexpectedRange(offset, source.ZeroIndexed(i), "Unterminated string")
			return c.FinishValueToken(TokenBadString, b.String(), source.ZeroIndexed(i))
		case ch == '\\' && i+1 < len(input) && input[i+1] == '\n':
			i += 2
		case ch == '\\' && i+1 < len(input):
			var r rune
			r, i = readEscape(input, i)
			b.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(input[i:])
			b.WriteRune(r)
			i += size
		}
	}
	c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unterminated string")
	return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(len(input)))
}

func tokenizeNumeric(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	i := int(offset)
	if input[i] == '+' || input[i] == '-' {
		i++
	}
	for i < len(input) && scan.IsDigit(rune(input[i])) {
		i++
	}
	if i+1 < len(input) && input[i] == '.' && scan.IsDigit(rune(input[i+1])) {
		i++
		for i < len(input) && scan.IsDigit(rune(input[i])) {
			i++
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && scan.IsDigit(rune(input[j])) {
			for j < len(input) && scan.IsDigit(rune(input[j])) {
				j++
			}
			i = j
		}
	}
	raw := input[offset:i]
	value, _ := strconv.ParseFloat(raw, 64)
	switch {
	case i < len(input) && input[i] == '%':
		return c.FinishValueToken(TokenPercentage, NumericValue{Value: value, Raw: raw}, source.ZeroIndexed(i+1))
	case startsName(input, i):
		unit, end := readName(input, i)
		return c.FinishValueToken(TokenDimension, DimensionValue{Value: value, Unit: unit}, source.ZeroIndexed(end))
	}
	return c.FinishValueToken(TokenNumber, NumericValue{Value: value, Raw: raw}, source.ZeroIndexed(i))
}
