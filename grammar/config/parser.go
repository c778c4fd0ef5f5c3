// Package config parses TOML configuration files.
//
// The tokenizer has two modes. Outside quotes it produces keys, bare values
// and punctuation; after an opening quote it scans the string contents with
// the escape rules of that quote style until the closing delimiter.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/source"
)

func newCore(path, input string, ignoreWhitespace bool) *core {
	return parser.New(parser.Options[Kind, State]{
		Path:             path,
		Input:            input,
		Category:         diag.CategoryConfig,
		EOF:              TokenEOF,
		Whitespace:       TokenWhitespace,
		IgnoreWhitespace: ignoreWhitespace,
		Tokenize:         tokenize,
		EscapedNewline:   EscapedNewlines,
	})
}

// Parse parses a TOML document. Problems with the input are reported in
// Root.Diagnostics; the returned tree is always usable.
func Parse(path, input string) *Root {
	p := &parse{
		c:      newCore(path, input, true),
		input:  input,
		keys:   make(map[string]source.Location),
		tables: make(map[string]source.Location),
		arrays: make(map[string]int),
	}
	root := &Root{}
	p.parseRoot(root)
	root.State = p.c.State()
	return parser.FinishRoot(p.c, root)
}

// Tokens returns every token of input, whitespace and comments included.
func Tokens(path, input string) []Token {
	return parser.Collect(newCore(path, input, false))
}

type parse struct {
	c     *core
	input string

	// keys maps fully qualified key paths to their first definition.
	keys   map[string]source.Location
	tables map[string]source.Location
	arrays map[string]int
}

func (p *parse) parseRoot(root *Root) {
	c := p.c
	for !c.AtEOF() {
		progress := c.MustProgress()
		switch c.Token().Kind {
		case TokenNewline, TokenInvalid:
			c.Next()
		case TokenOpenSquare:
			root.Body = append(root.Body, p.parseTable())
		case TokenText, TokenQuote:
			root.Body = append(root.Body, p.parseKeyValue(p.keys, ""))
			p.expectLineEnd("key/value pair")
		default:
			c.Unexpected(fmt.Sprintf("Expected a key or a table header but found %s", c.Token().Kind))
			c.SkipUntil(TokenNewline)
		}
		progress()
	}
}

func (p *parse) parseTable() *Table {
	c := p.c
	start := c.StartPosition()
	open := c.Next()
	table := &Table{}
	if c.Match(TokenOpenSquare) && c.Token().Start == open.End {
		c.Next()
		table.ArrayOfTables = true
	}
	table.Key = p.parseKey()
	c.Expect(TokenCloseSquare)
	if table.ArrayOfTables {
		c.Expect(TokenCloseSquare)
	}

	name := table.Key.String()
	if table.ArrayOfTables {
		p.arrays[name]++
	}
	scope := p.qualify(table.Key.Parts)
	if !table.ArrayOfTables && len(table.Key.Parts) > 0 {
		if first, ok := p.tables[scope]; ok {
			c.UnexpectedNode(table.Key, fmt.Sprintf("Duplicate table %q", name), "first defined at "+first.String())
		} else {
			p.tables[scope] = table.Key.Location()
		}
	}
	p.expectLineEnd("table header")

	for !c.AtEOF() && !c.Match(TokenOpenSquare) {
		progress := c.MustProgress()
		switch c.Token().Kind {
		case TokenNewline, TokenInvalid:
			c.Next()
		case TokenText, TokenQuote:
			table.Body = append(table.Body, p.parseKeyValue(p.keys, scope))
			p.expectLineEnd("key/value pair")
		default:
			c.Unexpected(fmt.Sprintf("Expected a key but found %s", c.Token().Kind))
			c.SkipUntil(TokenNewline)
		}
		progress()
	}
	return parser.FinishNode(c, start, table)
}

// qualify names a table path, numbering every array-of-tables prefix with
// its current element so that sub-tables of different elements differ.
func (p *parse) qualify(parts []string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
		if n := p.arrays[strings.Join(parts[:i+1], ".")]; n > 0 {
			fmt.Fprintf(&b, "[%d]", n)
		}
	}
	return b.String()
}

func (p *parse) parseKey() *Key {
	c := p.c
	start := c.StartPosition()
	key := &Key{}
	for {
		switch c.Token().Kind {
		case TokenText:
			tok := c.Next()
			key.Parts = append(key.Parts, strings.Split(tok.Value.(string), ".")...)
		case TokenQuote:
			s := p.parseString()
			if len(s.Delimiter) == 3 {
				c.UnexpectedNode(s, "Multi-line strings cannot be used as keys")
			}
			key.Parts = append(key.Parts, s.Value)
		default:
			c.Unexpected(fmt.Sprintf("Expected a key but found %s", c.Token().Kind))
			return parser.FinishNode(c, start, key)
		}
		if _, ok := c.Eat(TokenDot); !ok {
			return parser.FinishNode(c, start, key)
		}
	}
}

func (p *parse) parseKeyValue(keys map[string]source.Location, scope string) *KeyValue {
	c := p.c
	start := c.StartPosition()
	kv := &KeyValue{Key: p.parseKey()}
	p.define(keys, scope, kv.Key)
	if _, ok := c.Eat(TokenEquals); !ok {
		c.Unexpected(fmt.Sprintf("Expected '=' after key %q but found %s", kv.Key, c.Token().Kind))
		if c.MatchAny(TokenNewline, TokenEOF) {
			kv.Value = p.bogus()
			return parser.FinishNode(c, start, kv)
		}
	}
	kv.Value = p.parseValue()
	return parser.FinishNode(c, start, kv)
}

func (p *parse) define(keys map[string]source.Location, scope string, key *Key) {
	if len(key.Parts) == 0 {
		return
	}
	name := strings.Join(append([]string{scope}, key.Parts...), "\x00")
	if first, ok := keys[name]; ok {
		p.c.UnexpectedNode(key, fmt.Sprintf("Duplicate key %q", key), "first defined at "+first.String())
		return
	}
	keys[name] = key.Location()
}

func (p *parse) parseValue() Value {
	c := p.c
	switch c.Token().Kind {
	case TokenQuote:
		return p.parseString()
	case TokenOpenSquare:
		return p.parseArray()
	case TokenOpenCurly:
		return p.parseInlineTable()
	case TokenText:
		return p.parseScalar()
	case TokenInvalid:
		tok := c.Next()
		return parser.FinishNodeAt(c, tok.Start, tok.End, &Bogus{Raw: tok.Text(p.input)})
	}
	c.Unexpected(fmt.Sprintf("Expected a value but found %s", c.Token().Kind))
	return p.bogus()
}

func (p *parse) startsValue() bool {
	return p.c.MatchAny(TokenQuote, TokenOpenSquare, TokenOpenCurly, TokenText)
}

// bogus is a zero-width placeholder at the current token.
func (p *parse) bogus() *Bogus {
	at := p.c.Token().Start
	return parser.FinishNodeAt(p.c, at, at, &Bogus{})
}

func (p *parse) parseString() *String {
	c := p.c
	start := c.StartPosition()
	open := c.Next()
	node := &String{Delimiter: open.Value.(string)}
	if tok, ok := c.Eat(TokenString); ok {
		node.Value = StringValue(tok)
	}
	// An unterminated string has been reported by the tokenizer.
	c.Eat(TokenQuote)
	return parser.FinishNode(c, start, node)
}

func (p *parse) parseScalar() Value {
	c := p.c
	tok := c.Next()
	raw := tok.Value.(string)
	var node Value
	switch {
	case raw == "true" || raw == "false":
		node = &Boolean{Value: raw == "true"}
	default:
		if n, ok := parseInteger(raw); ok {
			node = &Integer{Value: n, Raw: raw}
		} else if f, ok := parseFloat(raw); ok {
			node = &Float{Value: f, Raw: raw}
		} else if t, ok := parseDateTime(raw); ok {
			node = &DateTime{Value: t, Raw: raw}
		} else {
			c.UnexpectedDiagnostic(parser.Unexpected{
				Description: fmt.Sprintf("Invalid value %q", raw),
				Start:       &tok.Start,
				End:         &tok.End,
				Advice:      []string{"strings must be quoted"},
			})
			node = &Bogus{Raw: raw}
		}
	}
	return parser.FinishNodeAt(c, tok.Start, tok.End, node)
}

func (p *parse) parseArray() *Array {
	c := p.c
	start := c.StartPosition()
	c.Next()
	array := &Array{}
	for {
		p.skipNewlines()
		if c.MatchAny(TokenCloseSquare, TokenEOF) {
			break
		}
		progress := c.MustProgress()
		array.Elements = append(array.Elements, p.parseValue())
		p.skipNewlines()
		if c.Match(TokenComma) {
			c.Next()
		} else if !c.MatchAny(TokenCloseSquare, TokenEOF) {
			c.Unexpected(fmt.Sprintf("Expected ',' or ']' but found %s", c.Token().Kind))
			if !p.startsValue() {
				break
			}
		}
		if !progress() {
			break
		}
	}
	if _, ok := c.Eat(TokenCloseSquare); !ok && c.AtEOF() {
		c.Unexpected("Unclosed array")
	}
	return parser.FinishNode(c, start, array)
}

func (p *parse) parseInlineTable() *InlineTable {
	c := p.c
	start := c.StartPosition()
	c.Next()
	table := &InlineTable{}
	keys := make(map[string]source.Location)
	for c.MatchAny(TokenText, TokenQuote) {
		table.Entries = append(table.Entries, p.parseKeyValue(keys, ""))
		comma, ok := c.Eat(TokenComma)
		if !ok {
			break
		}
		if c.Match(TokenCloseCurly) {
			c.UnexpectedToken(comma, "Trailing comma is not allowed in an inline table")
		}
	}
	if _, ok := c.Eat(TokenCloseCurly); !ok {
		c.Unexpected(fmt.Sprintf("Expected '}' but found %s", c.Token().Kind))
	}
	return parser.FinishNode(c, start, table)
}

func (p *parse) skipNewlines() {
	for p.c.Match(TokenNewline) {
		p.c.Next()
	}
}

func (p *parse) expectLineEnd(after string) {
	c := p.c
	if c.MatchAny(TokenNewline, TokenEOF) {
		return
	}
	c.Unexpected(fmt.Sprintf("Expected a newline after the %s but found %s", after, c.Token().Kind))
	c.SkipUntil(TokenNewline)
}

func parseInteger(raw string) (int64, bool) {
	digits, ok := stripUnderscores(raw)
	if !ok {
		return 0, false
	}
	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
		}
	}
	if base == 10 {
		unsigned := strings.TrimLeft(digits, "+-")
		if len(unsigned) > 1 && unsigned[0] == '0' {
			return 0, false
		}
	} else if strings.ContainsAny(digits, "+-") {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, base, 64)
	return n, err == nil
}

func parseFloat(raw string) (float64, bool) {
	switch strings.TrimLeft(raw, "+-") {
	case "inf":
		if raw[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	case "nan":
		return math.NaN(), true
	}
	digits, ok := stripUnderscores(raw)
	if !ok || !strings.ContainsAny(digits, ".eE") || strings.Trim(digits, "0123456789+-.eE") != "" {
		return 0, false
	}
	if dot := strings.IndexByte(digits, '.'); dot >= 0 {
		if dot == 0 || dot == len(digits)-1 || !isDigit(digits[dot-1]) || !isDigit(digits[dot+1]) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(digits, 64)
	return f, err == nil
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
}

func parseDateTime(raw string) (time.Time, bool) {
	if raw == "" || !isDigit(raw[0]) {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripUnderscores removes digit separators, which must sit between two
// digits.
func stripUnderscores(raw string) (string, bool) {
	if !strings.Contains(raw, "_") {
		return raw, true
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			b.WriteByte(raw[i])
			continue
		}
		if i == 0 || i == len(raw)-1 || !isHexDigit(raw[i-1]) || !isHexDigit(raw[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(b byte) bool    { return '0' <= b && b <= '9' }
func isHexDigit(b byte) bool { return isDigit(b) || ('a' <= b|0x20 && b|0x20 <= 'f') }
