// Package stylesheet parses CSS: rules, at-rules, selectors and
// declarations, including nested style rules.
package stylesheet

import (
	"fmt"
	"strings"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/source"
)

func newCore(path, input string, ignoreWhitespace bool) *core {
	return parser.New(parser.Options[Kind, State]{
		Path:             path,
		Input:            input,
		Category:         diag.CategoryStylesheet,
		EOF:              TokenEOF,
		Whitespace:       TokenWhitespace,
		IgnoreWhitespace: ignoreWhitespace,
		Tokenize:         parser.Stateless(tokenize),
		EscapedNewline:   EscapedNewlines,
	})
}

// Parse parses a stylesheet.
func Parse(path, input string) *Root {
	p := &parse{c: newCore(path, input, true), input: input}
	root := &Root{Rules: p.parseRules(false)}
	return parser.FinishRoot(p.c, root)
}

// ParseDeclarations parses a declaration list such as the value of a style
// attribute.
func ParseDeclarations(path, input string) *DeclarationList {
	p := &parse{c: newCore(path, input, true), input: input}
	c := p.c
	block := &Block{}
	for !c.AtEOF() {
		progress := c.MustProgress()
		p.parseBlockContents(block, false)
		if c.Match(TokenCloseCurly) {
			c.Unexpected("Unexpected '}'")
			c.Next()
		}
		progress()
	}
	return parser.FinishRoot(c, &DeclarationList{Declarations: block.Declarations})
}

func Tokens(path, input string) []Token {
	return parser.Collect(newCore(path, input, false))
}

type parse struct {
	c     *core
	input string
}

func (p *parse) parseRules(nested bool) []Rule {
	c := p.c
	var rules []Rule
	for !c.AtEOF() {
		if nested && c.Match(TokenCloseCurly) {
			break
		}
		progress := c.MustProgress()
		switch c.Token().Kind {
		case TokenCDO, TokenCDC:
			c.Next()
		case TokenSemicolon, TokenCloseCurly:
			c.Unexpected(fmt.Sprintf("Unexpected %s", c.Token().Kind))
			c.Next()
		case TokenAtKeyword:
			rules = append(rules, p.parseAtRule(false))
		default:
			rules = append(rules, p.parseStyleRule())
		}
		progress()
	}
	return rules
}

// parseAtRule parses an at-rule. Nesting at-rules inside a style rule hold
// declarations as well as rules.
func (p *parse) parseAtRule(inStyleRule bool) *AtRule {
	c := p.c
	start := c.StartPosition()
	tok := c.Next()
	rule := &AtRule{Name: stringValue(tok)}
	name := unprefixed(strings.ToLower(rule.Name))
	if !atRules().Has(name) {
		unknown := parser.Unexpected{
			Description: fmt.Sprintf("Unknown at-rule %q", "@"+rule.Name),
			Start:       &tok.Start,
			End:         &tok.End,
		}
		if suggestion, ok := diag.Suggest(name, atRuleNames); ok {
			unknown.Advice = []string{fmt.Sprintf("did you mean %q?", "@"+suggestion)}
		}
		c.UnexpectedDiagnostic(unknown)
	}

	rule.Prelude = p.parseValues(func() bool { return c.MatchAny(TokenOpenCurly, TokenSemicolon, TokenCloseCurly) })
	switch {
	case c.Match(TokenSemicolon):
		c.Next()
	case c.Match(TokenOpenCurly):
		rule.Block = p.parseBlock((nestingAtRules().Has(name) && !inStyleRule) || name == "keyframes")
	default:
		c.Unexpected(fmt.Sprintf("Expected ';' or '{' after %q but found %s", "@"+rule.Name, c.Token().Kind))
	}
	return parser.FinishNode(c, start, rule)
}

func (p *parse) parseStyleRule() *StyleRule {
	c := p.c
	start := c.StartPosition()
	rule := &StyleRule{}
	for {
		rule.Selectors = append(rule.Selectors, p.parseSelector())
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	if !c.Match(TokenOpenCurly) {
		c.Unexpected(fmt.Sprintf("Expected '{' but found %s", c.Token().Kind))
		c.SkipUntil(TokenOpenCurly, TokenSemicolon, TokenCloseCurly)
		if !c.Match(TokenOpenCurly) {
			c.Eat(TokenSemicolon)
			return parser.FinishNode(c, start, rule)
		}
	}
	rule.Block = p.parseBlock(false)
	return parser.FinishNode(c, start, rule)
}

// parseBlock parses a curly block. Blocks of nesting at-rules hold only
// rules; other blocks hold declarations and nested rules.
func (p *parse) parseBlock(rulesOnly bool) *Block {
	c := p.c
	start := c.StartPosition()
	c.Next()
	block := &Block{}
	if rulesOnly {
		block.Rules = p.parseRules(true)
	} else {
		p.parseBlockContents(block, true)
	}
	if _, ok := c.Eat(TokenCloseCurly); !ok {
		c.Unexpected(fmt.Sprintf("Expected '}' but found %s", c.Token().Kind))
	}
	return parser.FinishNode(c, start, block)
}

func (p *parse) parseBlockContents(block *Block, allowRules bool) {
	c := p.c
	for !c.MatchAny(TokenCloseCurly, TokenEOF) {
		progress := c.MustProgress()
		switch c.Token().Kind {
		case TokenSemicolon:
			c.Next()
		case TokenAtKeyword:
			if allowRules {
				block.Rules = append(block.Rules, p.parseAtRule(true))
				break
			}
			c.Unexpected("At-rules are not allowed in a declaration list")
			p.skipDeclaration()
		case TokenIdent:
			if allowRules && p.startsRule() {
				block.Rules = append(block.Rules, p.parseStyleRule())
			} else {
				block.Declarations = append(block.Declarations, p.parseDeclaration())
			}
		case TokenDelim, TokenHash, TokenColon, TokenOpenSquare:
			if allowRules {
				block.Rules = append(block.Rules, p.parseStyleRule())
				break
			}
			fallthrough
		default:
			c.Unexpected(fmt.Sprintf("Expected a declaration but found %s", c.Token().Kind))
			p.skipDeclaration()
		}
		progress()
	}
}

// startsRule reports whether a '{' comes before the end of the current
// declaration, which makes the tokens a nested style rule.
func (p *parse) startsRule() bool {
	c := p.c
	saved := c.Save()
	defer c.Restore(saved)
	c.SkipUntil(TokenOpenCurly, TokenSemicolon, TokenCloseCurly)
	return c.Match(TokenOpenCurly)
}

func (p *parse) parseDeclaration() *Declaration {
	c := p.c
	start := c.StartPosition()
	decl := &Declaration{Name: stringValue(c.Next())}
	colon, ok := c.Eat(TokenColon)
	if !ok {
		c.Unexpected(fmt.Sprintf("Expected ':' after property %q but found %s", decl.Name, c.Token().Kind))
		p.skipDeclaration()
		return parser.FinishNode(c, start, decl)
	}
	decl.Value = p.parseValues(func() bool {
		return c.MatchAny(TokenSemicolon, TokenCloseCurly, TokenOpenCurly, TokenColon) || p.atBang()
	})
	if len(decl.Value) == 0 && !decl.Custom() {
		c.UnexpectedRange(colon.End, colon.End, fmt.Sprintf("Expected a value for property %q", decl.Name))
	}
	switch {
	case c.Match(TokenColon):
		c.Unexpected(fmt.Sprintf("Unexpected ':' in the value of %q", decl.Name))
		p.skipDeclaration()
	case p.atBang():
		c.Next()
		if tok := c.Token(); tok.Kind == TokenIdent && strings.EqualFold(stringValue(tok), "important") {
			c.Next()
			decl.Important = true
		} else {
			c.Unexpected(fmt.Sprintf("Expected \"important\" after '!' but found %s", c.Token().Kind))
		}
		if !c.MatchAny(TokenSemicolon, TokenCloseCurly, TokenOpenCurly, TokenEOF) {
			c.Unexpected(fmt.Sprintf("Unexpected %s after !important", c.Token().Kind))
			p.skipDeclaration()
		}
	}
	return parser.FinishNode(c, start, decl)
}

func (p *parse) atBang() bool {
	return p.c.Match(TokenDelim) && stringValue(p.c.Token()) == "!"
}

func (p *parse) skipDeclaration() {
	p.c.SkipUntil(TokenSemicolon, TokenCloseCurly, TokenOpenCurly)
}

func (p *parse) parseValues(stop func() bool) []Value {
	c := p.c
	var values []Value
	for !c.AtEOF() && !stop() {
		progress := c.MustProgress()
		values = append(values, p.parseValue())
		progress()
	}
	return values
}

func (p *parse) parseValue() Value {
	c := p.c
	tok := c.Token()
	var node Value
	switch tok.Kind {
	case TokenFunction:
		return p.parseFunction()
	case TokenOpenParen, TokenOpenSquare:
		return p.parseSimpleBlock()
	case TokenIdent:
		node = &Ident{Name: stringValue(tok)}
	case TokenNumber:
		n := tok.Value.(NumericValue)
		node = &Number{Value: n.Value, Raw: n.Raw}
	case TokenPercentage:
		node = &Percentage{Value: tok.Value.(NumericValue).Value}
	case TokenDimension:
		d := tok.Value.(DimensionValue)
		node = &Dimension{Value: d.Value, Unit: d.Unit}
	case TokenString:
		node = &String{Value: stringValue(tok)}
	case TokenHash:
		node = &Hash{Value: stringValue(tok)}
	case TokenComma:
		node = &Comma{}
	default:
		node = &Raw{Text: tok.Text(p.input)}
	}
	c.Next()
	return parser.FinishNodeAt(c, tok.Start, tok.End, node)
}

func (p *parse) parseFunction() *Function {
	c := p.c
	start := c.StartPosition()
	fn := &Function{Name: stringValue(c.Next())}
	fn.Arguments = p.parseValues(func() bool { return c.MatchAny(TokenCloseParen, TokenSemicolon, TokenCloseCurly) })
	if _, ok := c.Eat(TokenCloseParen); !ok {
		c.Unexpected(fmt.Sprintf("Expected ')' to close %q but found %s", fn.Name+"(", c.Token().Kind))
	}
	fn = parser.FinishNode(c, start, fn)
	p.checkCustomPropertyArgument(fn)
	return fn
}

// checkCustomPropertyArgument reports a custom property passed bare as the
// only argument of a function other than var(), where it is never
// substituted.
func (p *parse) checkCustomPropertyArgument(fn *Function) {
	if len(fn.Arguments) != 1 || strings.EqualFold(fn.Name, "var") {
		return
	}
	arg, ok := fn.Arguments[0].(*Ident)
	if !ok || !strings.HasPrefix(arg.Name, "--") {
		return
	}
	p.c.UnexpectedNode(arg,
		fmt.Sprintf("Custom property %q used as the only argument of %s()", arg.Name, fn.Name),
		fmt.Sprintf("wrap it in var(): %s(var(%s))", fn.Name, arg.Name))
}

// parseSimpleBlock keeps a parenthesized or bracketed group as raw text.
func (p *parse) parseSimpleBlock() *Raw {
	c := p.c
	open := c.Token()
	closer := TokenCloseParen
	if open.Kind == TokenOpenSquare {
		closer = TokenCloseSquare
	}
	end := p.skipBalanced(closer)
	return parser.FinishNodeAt(c, open.Start, end, &Raw{Text: p.input[open.Start:end]})
}

// skipBalanced consumes the current opening token through its matching
// closer and returns the end offset of the last consumed token. It reports
// a missing closer.
func (p *parse) skipBalanced(closer Kind) source.ZeroIndexed {
	c := p.c
	depth := 0
	for {
		tok := c.Next()
		switch tok.Kind {
		case TokenOpenParen, TokenOpenSquare, TokenOpenCurly, TokenFunction:
			depth++
		case TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
			depth--
		}
		if depth == 0 {
			return tok.End
		}
		if c.AtEOF() {
			c.Unexpected(fmt.Sprintf("Expected %s but found end of file", closer))
			return c.Prev().End
		}
	}
}

func (p *parse) parseSelector() *Selector {
	c := p.c
	start := c.Token().Start
	sel := &Selector{}
	var prevEnd source.ZeroIndexed
	for !c.MatchAny(TokenComma, TokenOpenCurly, TokenCloseCurly, TokenSemicolon, TokenEOF) {
		tok := c.Token()
		if n := len(sel.Parts); n > 0 && tok.Start > prevEnd && sel.Parts[n-1].Kind != Combinator && !isCombinator(tok) {
			sel.Parts = append(sel.Parts, parser.FinishNodeAt(c, prevEnd, tok.Start, &SelectorPart{Kind: Combinator, Name: " "}))
		}
		if part, ok := p.parseSelectorPart(); ok {
			sel.Parts = append(sel.Parts, part)
		}
		prevEnd = c.Prev().End
	}
	if len(sel.Parts) == 0 {
		c.Unexpected(fmt.Sprintf("Expected a selector but found %s", c.Token().Kind))
		return parser.FinishNodeAt(c, start, start, sel)
	}
	return parser.FinishNodeAt(c, start, c.Prev().End, sel)
}

func isCombinator(tok Token) bool {
	if tok.Kind != TokenDelim {
		return false
	}
	switch stringValue(tok) {
	case ">", "+", "~":
		return true
	}
	return false
}

func (p *parse) parseSelectorPart() (*SelectorPart, bool) {
	c := p.c
	tok := c.Token()
	start := c.StartPosition()
	part := &SelectorPart{}
	switch tok.Kind {
	case TokenIdent:
		c.Next()
		part.Kind, part.Name = TypeSelector, stringValue(tok)
	case TokenPercentage:
		c.Next()
		part.Kind, part.Name = KeyframeSelector, tok.Text(p.input)
	case TokenHash:
		c.Next()
		part.Kind, part.Name = IDSelector, stringValue(tok)
	case TokenColon:
		c.Next()
		part.Kind = PseudoClassSelector
		if _, ok := c.Eat(TokenColon); ok {
			part.Kind = PseudoElementSelector
		}
		switch {
		case c.Match(TokenIdent):
			part.Name = stringValue(c.Next())
		case c.Match(TokenFunction):
			fn := c.Token()
			part.Name = stringValue(fn)
			end := p.skipBalanced(TokenCloseParen)
			if inner := p.input[fn.End:end]; strings.HasSuffix(inner, ")") {
				part.Arguments = strings.TrimSpace(inner[:len(inner)-1])
			}
		default:
			c.Unexpected(fmt.Sprintf("Expected a pseudo-class name but found %s", c.Token().Kind))
		}
	case TokenOpenSquare:
		end := p.skipBalanced(TokenCloseSquare)
		part.Kind = AttributeSelector
		part.Name = strings.TrimSpace(strings.TrimSuffix(p.input[tok.End:end], "]"))
	case TokenDelim:
		switch value := stringValue(tok); value {
		case "*":
			c.Next()
			part.Kind, part.Name = UniversalSelector, value
		case "&":
			c.Next()
			part.Kind, part.Name = NestingSelector, value
		case ">", "+", "~":
			c.Next()
			part.Kind, part.Name = Combinator, value
		case ".":
			c.Next()
			part.Kind = ClassSelector
			if name, ok := c.Eat(TokenIdent); ok && name.Start == tok.End {
				part.Name = stringValue(name)
			} else {
				c.Unexpected(fmt.Sprintf("Expected a class name after '.' but found %s", c.Token().Kind))
			}
		default:
			return p.unexpectedInSelector()
		}
	default:
		return p.unexpectedInSelector()
	}
	return parser.FinishNode(c, start, part), true
}

func (p *parse) unexpectedInSelector() (*SelectorPart, bool) {
	p.c.Unexpected(fmt.Sprintf("Unexpected %s in selector", p.c.Token().Kind))
	p.c.Next()
	return nil, false
}
