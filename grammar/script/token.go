package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/scan"
	"github.com/dhamidi/parsecore/source"
)

type Kind int

const (
	TokenEOF Kind = iota
	TokenWhitespace
	TokenName
	TokenKeyword
	TokenNum
	TokenString
	TokenTemplate
	TokenRegex
	TokenOpenParen
	TokenCloseParen
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenSquare
	TokenCloseSquare
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenQuestion
	TokenOptionalChain
	TokenArrow
	TokenOperator
	TokenInvalid
)

var kindNames = map[Kind]string{
	TokenEOF:           "end of file",
	TokenWhitespace:    "whitespace",
	TokenName:          "identifier",
	TokenKeyword:       "keyword",
	TokenNum:           "number",
	TokenString:        "string",
	TokenTemplate:      "template literal",
	TokenRegex:         "regular expression",
	TokenOpenParen:     "'('",
	TokenCloseParen:    "')'",
	TokenOpenCurly:     "'{'",
	TokenCloseCurly:    "'}'",
	TokenOpenSquare:    "'['",
	TokenCloseSquare:   "']'",
	TokenSemicolon:     "';'",
	TokenComma:         "','",
	TokenDot:           "'.'",
	TokenColon:         "':'",
	TokenQuestion:      "'?'",
	TokenOptionalChain: "'?.'",
	TokenArrow:         "'=>'",
	TokenOperator:      "operator",
	TokenInvalid:       "invalid character",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type Token = parser.Token[Kind]

// State tracks whether the next token may start an expression, which
// decides whether a slash opens a regular expression or divides.
type State struct {
	ExprAllowed bool `json:"exprAllowed"`
}

type core = parser.Core[Kind, State]

func initialState() State { return State{ExprAllowed: true} }

// NumberValue is the payload of Num tokens.
type NumberValue struct {
	Value float64
	Raw   string
}

// RegexValue is the payload of Regex tokens.
type RegexValue struct {
	Pattern      string
	Flags        string
	Unterminated bool
}

// text returns the string payload of Name, Keyword, String, Template and
// Operator tokens.
func text(tok Token) string {
	s, _ := tok.Value.(string)
	return s
}

// describe names a token for diagnostics, with its text for words and
// operators.
func describe(tok Token) string {
	switch tok.Kind {
	case TokenName, TokenKeyword, TokenOperator:
		return fmt.Sprintf("%s %q", tok.Kind, text(tok))
	}
	return tok.Kind.String()
}

// punctuators are matched longest first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "~", "&", "|", "^",
	"?", ":", ";", ",", ".", "(", ")", "[", "]", "{", "}",
}

var punctuatorKinds = map[string]Kind{
	"(": TokenOpenParen, ")": TokenCloseParen, "{": TokenOpenCurly, "}": TokenCloseCurly,
	"[": TokenOpenSquare, "]": TokenCloseSquare, ";": TokenSemicolon, ",": TokenComma,
	".": TokenDot, ":": TokenColon, "?": TokenQuestion, "?.": TokenOptionalChain, "=>": TokenArrow,
}

func tokenize(c *core, offset source.ZeroIndexed, state State) (Token, State) {
	if c.IsEOFAt(offset) {
		return c.EOFToken(), state
	}
	input := c.Input()
	i := int(offset)
	r, size := c.RuneAt(offset)
	switch {
	case isSpace(r):
		_, end := c.ReadInputFrom(offset, func(r rune, _ source.ZeroIndexed, _ string) bool { return isSpace(r) })
		return c.FinishTokenAt(TokenWhitespace, end), state
	case c.HasPrefixAt(offset, "//"):
		_, end := c.ReadInputFrom(offset, scan.NotEOL)
		return c.FinishTokenAt(TokenWhitespace, end), state
	case c.HasPrefixAt(offset, "/*"):
		end := strings.Index(input[i+2:], "*/")
		if end < 0 {
			c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unterminated comment")
			return c.FinishTokenAt(TokenWhitespace, source.ZeroIndexed(len(input))), state
		}
		return c.FinishTokenAt(TokenWhitespace, offset.Add(end+4)), state
	case isIdentStart(r):
		_, end := c.ReadInputFrom(offset, func(r rune, _ source.ZeroIndexed, _ string) bool { return isIdentPart(r) })
		word := input[offset:end]
		if keywords().Has(word) {
			tok := c.FinishValueToken(TokenKeyword, word, end)
			return tok, State{ExprAllowed: !valueKeywords().Has(word)}
		}
		return c.FinishValueToken(TokenName, word, end), State{}
	case scan.IsDigit(r) || (r == '.' && i+1 < len(input) && scan.IsDigit(rune(input[i+1]))):
		return tokenizeNumber(c, offset), State{}
	case r == '"' || r == '\'':
		return tokenizeString(c, offset), State{}
	case r == '`':
		return tokenizeTemplate(c, offset), State{}
	case r == '/' && state.ExprAllowed:
		return tokenizeRegex(c, offset), State{}
	}
	for _, p := range punctuators {
		if !c.HasPrefixAt(offset, p) {
			continue
		}
		if p == "?." && i+2 < len(input) && scan.IsDigit(rune(input[i+2])) {
			continue
		}
		end := offset.Add(len(p))
		if kind, ok := punctuatorKinds[p]; ok {
			return c.FinishTokenAt(kind, end), State{ExprAllowed: kind != TokenCloseParen && kind != TokenCloseSquare}
		}
		return c.FinishValueToken(TokenOperator, p, end), State{ExprAllowed: p != "++" && p != "--"}
	}
	c.UnexpectedRange(offset, offset.Add(size), fmt.Sprintf("Unexpected character %q", r))
	return c.FinishTokenAt(TokenInvalid, offset.Add(size)), state
}

func isSpace(r rune) bool {
	return scan.IsSpace(r) || r == '\v' || r == 0xFEFF || (r >= utf8.RuneSelf && unicode.IsSpace(r))
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || scan.IsLetter(r) || (r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || scan.IsDigit(r) || (r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))
}

func tokenizeNumber(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	i := int(offset)
	base := 10
	if input[i] == '0' && i+1 < len(input) {
		switch input[i+1] | 0x20 {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
	}
	if base != 10 {
		i += 2
		for i < len(input) && (scan.IsHexDigit(rune(input[i])) || input[i] == '_') {
			i++
		}
	} else {
		i = readDigits(input, i)
		if i < len(input) && input[i] == '.' {
			i = readDigits(input, i+1)
		}
		if i < len(input) && input[i]|0x20 == 'e' {
			j := i + 1
			if j < len(input) && (input[j] == '+' || input[j] == '-') {
				j++
			}
			if j < len(input) && scan.IsDigit(rune(input[j])) {
				i = readDigits(input, j)
			}
		}
	}
	raw := input[offset:i]
	if i < len(input) && input[i] == 'n' {
		i++
	}
	digits := strings.ReplaceAll(raw, "_", "")
	var value float64
	var err error
	if base == 10 {
		value, err = strconv.ParseFloat(digits, 64)
	} else {
		var n uint64
		n, err = strconv.ParseUint(digits[2:], base, 64)
		value = float64(n)
	}
	if err != nil && !strings.Contains(err.Error(), "out of range") {
		c.UnexpectedRange(offset, source.ZeroIndexed(i), fmt.Sprintf("Invalid number %q", input[offset:i]))
	}
	return c.FinishValueToken(TokenNum, NumberValue{Value: value, Raw: input[offset:i]}, source.ZeroIndexed(i))
}

func readDigits(input string, i int) int {
	for i < len(input) && (scan.IsDigit(rune(input[i])) || input[i] == '_') {
		i++
	}
	return i
}

func tokenizeString(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	quote := input[offset]
	var b strings.Builder
	i := int(offset) + 1
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == quote:
			return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(i+1))
		case ch == '\n' || ch == '\r':
			c.UnexpectedRange(offset, source.ZeroIndexed(i), "Unterminated string")
			return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(i))
		case ch == '\\':
			var ok bool
			start := i
			i, ok = unescape(&b, input, i)
			if !ok {
				c.UnexpectedRange(source.ZeroIndexed(start), source.ZeroIndexed(i), fmt.Sprintf("Invalid escape sequence %q", input[start:i]))
			}
		default:
			r, size := utf8.DecodeRuneInString(input[i:])
			b.WriteRune(r)
			i += size
		}
	}
	c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unterminated string")
	return c.FinishValueToken(TokenString, b.String(), source.ZeroIndexed(len(input)))
}

var simpleEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'b': "\b", 'f': "\f", 'v': "\v", '0': "\x00",
}

// unescape decodes the escape at the backslash at i into b and returns the
// offset after it.
func unescape(b *strings.Builder, input string, i int) (int, bool) {
	if i+1 >= len(input) {
		return len(input), false
	}
	ch := input[i+1]
	if s, ok := simpleEscapes[ch]; ok && !(ch == '0' && i+2 < len(input) && scan.IsDigit(rune(input[i+2]))) {
		b.WriteString(s)
		return i + 2, true
	}
	switch ch {
	case '\r':
		if i+2 < len(input) && input[i+2] == '\n' {
			return i + 3, true
		}
		return i + 2, true
	case '\n':
		return i + 2, true
	case 'x':
		return writeCode(b, input, i+2, i+4)
	case 'u':
		if i+2 < len(input) && input[i+2] == '{' {
			end := strings.IndexByte(input[i+2:], '}')
			if end < 0 {
				return i + 2, false
			}
			next, ok := writeCode(b, input, i+3, i+2+end)
			if !ok {
				return max(next, i+3), false
			}
			return next + 1, true
		}
		return writeCode(b, input, i+2, i+6)
	}
	r, size := utf8.DecodeRuneInString(input[i+1:])
	b.WriteRune(r)
	return i + 1 + size, true
}

// writeCode decodes the hex digits from start up to end as one code point.
// It stops early at a non-hex digit and reports failure.
func writeCode(b *strings.Builder, input string, start, end int) (int, bool) {
	i := start
	for i < end && i < len(input) && scan.IsHexDigit(rune(input[i])) {
		i++
	}
	if i < end || i == start {
		return i, false
	}
	code, err := strconv.ParseUint(input[start:i], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return i, false
	}
	b.WriteRune(rune(code))
	return i, true
}

// tokenizeTemplate reads a template literal up to its closing backtick.
// Substitutions are kept verbatim in the payload.
func tokenizeTemplate(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	for i := int(offset) + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case '`':
			return c.FinishValueToken(TokenTemplate, input[offset+1:i], source.ZeroIndexed(i+1))
		}
	}
	c.UnexpectedRange(offset, source.ZeroIndexed(len(input)), "Unterminated template literal")
	return c.FinishValueToken(TokenTemplate, input[offset+1:], source.ZeroIndexed(len(input)))
}

// tokenizeRegex reads a regular expression literal: a body in which slashes
// inside a character class or after a backslash do not end the literal,
// followed by flags.
func tokenizeRegex(c *core, offset source.ZeroIndexed) Token {
	input := c.Input()
	inClass := false
	i := int(offset) + 1
	for ; i < len(input); i++ {
		ch := input[i]
		if ch == '\n' || ch == '\r' {
			break
		}
		if ch == '\\' && i+1 < len(input) && input[i+1] != '\n' {
			i++
			continue
		}
		if ch == '[' {
			inClass = true
		} else if ch == ']' {
			inClass = false
		} else if ch == '/' && !inClass {
			break
		}
	}
	if i >= len(input) || input[i] != '/' {
		c.UnexpectedRange(offset, source.ZeroIndexed(i), "Unterminated regular expression")
		return c.FinishValueToken(TokenRegex, RegexValue{Pattern: input[offset+1 : i], Unterminated: true}, source.ZeroIndexed(i))
	}
	pattern := input[offset+1 : i]
	_, end := c.ReadInputFrom(source.ZeroIndexed(i+1), func(r rune, _ source.ZeroIndexed, _ string) bool { return isIdentPart(r) })
	return c.FinishValueToken(TokenRegex, RegexValue{Pattern: pattern, Flags: input[i+1 : end]}, end)
}
