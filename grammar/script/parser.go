// Package script parses a subset of JavaScript: variable and function
// declarations, if/while/return/break statements and the expression
// grammar including arrow functions, object and array literals and
// regular expression literals.
//
// A slash is a regular expression when the previous token cannot end an
// expression; the tokenizer threads that decision through its State.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/source"
	"github.com/dlclark/regexp2"
	"github.com/dlclark/regexp2/syntax"
)

func newCore(path, input string, ignoreWhitespace bool) *core {
	return parser.New(parser.Options[Kind, State]{
		Path:             path,
		Input:            input,
		Category:         diag.CategoryScript,
		EOF:              TokenEOF,
		Whitespace:       TokenWhitespace,
		IgnoreWhitespace: ignoreWhitespace,
		Tokenize:         tokenize,
		InitialState:     initialState,
	})
}

func Parse(path, input string) *Program {
	p := &parse{c: newCore(path, input, true), input: input}
	c := p.c
	program := &Program{}
	for !c.AtEOF() {
		progress := c.MustProgress()
		if stmt := p.parseStatement(); stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		progress()
	}
	program.State = c.State()
	return parser.FinishRoot(c, program)
}

func Tokens(path, input string) []Token {
	return parser.Collect(newCore(path, input, false))
}

type parse struct {
	c             *core
	input         string
	functionDepth int
	loopDepth     int
}

func atToken[N parser.Node](c *core, tok Token, node N) N {
	return parser.FinishNodeAt(c, tok.Start, tok.End, node)
}

func (p *parse) isOperator(op string) bool {
	return p.c.Match(TokenOperator) && text(p.c.Token()) == op
}

func (p *parse) isKeyword(word string) bool {
	return p.c.Match(TokenKeyword) && text(p.c.Token()) == word
}

// newlineBefore reports a line break between the previous and the current
// token, which ends a statement without a semicolon.
func (p *parse) newlineBefore() bool {
	between := p.input[p.c.Prev().End:p.c.Token().Start]
	return strings.ContainsAny(between, "\n\r\u2028\u2029")
}

func (p *parse) parseStatement() Statement {
	c := p.c
	tok := c.Token()
	switch tok.Kind {
	case TokenOpenCurly:
		return p.parseBlock()
	case TokenSemicolon:
		c.Next()
		return atToken(c, tok, &EmptyStatement{})
	case TokenKeyword:
		switch word := text(tok); word {
		case "var", "let", "const":
			return p.parseVariableDeclaration()
		case "function":
			return p.parseFunctionDeclaration()
		case "return":
			return p.parseReturn()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "break", "continue":
			return p.parseBreak()
		default:
			if unsupportedStatements().Has(word) {
				c.Unexpected(fmt.Sprintf("Unsupported statement %q", word))
				p.skipStatement()
				return nil
			}
		}
	}
	return p.parseExpressionStatement()
}

// parseSubStatement parses the body of if and while, substituting an empty
// statement when none could be parsed.
func (p *parse) parseSubStatement() Statement {
	if stmt := p.parseStatement(); stmt != nil {
		return stmt
	}
	at := p.c.Token().Start
	return parser.FinishNodeAt(p.c, at, at, &EmptyStatement{})
}

// skipStatement skips to the end of the current statement: a semicolon, a
// balanced closing brace or the end of the line.
func (p *parse) skipStatement() {
	c := p.c
	depth := 0
	for first := true; !c.AtEOF(); first = false {
		if depth == 0 && !first && p.newlineBefore() {
			return
		}
		switch c.Token().Kind {
		case TokenOpenCurly, TokenOpenParen, TokenOpenSquare:
			depth++
		case TokenCloseCurly, TokenCloseParen, TokenCloseSquare:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 && c.Match(TokenCloseCurly) {
				c.Next()
				return
			}
		case TokenSemicolon:
			if depth == 0 {
				c.Next()
				return
			}
		}
		c.Next()
	}
}

// endStatement consumes the semicolon ending a statement or accepts its
// automatic insertion before '}', the end of input or a line break.
func (p *parse) endStatement(expr Expression) {
	c := p.c
	if _, ok := c.Eat(TokenSemicolon); ok {
		return
	}
	if c.MatchAny(TokenCloseCurly, TokenEOF) || p.newlineBefore() {
		return
	}
	if id, ok := expr.(*Identifier); ok {
		if suggestion, ok := diag.Suggest(id.Name, statementKeywords); ok {
			c.UnexpectedNode(id, fmt.Sprintf("Unknown keyword %q", id.Name), fmt.Sprintf("did you mean %q?", suggestion))
			p.skipStatement()
			return
		}
	}
	c.Unexpected(fmt.Sprintf("Expected ';' but found %s", describe(c.Token())))
	p.skipStatement()
}

func (p *parse) parseBlock() *BlockStatement {
	c := p.c
	start := c.StartPosition()
	c.Next()
	block := &BlockStatement{}
	for !c.MatchAny(TokenCloseCurly, TokenEOF) {
		progress := c.MustProgress()
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		progress()
	}
	if _, ok := c.Eat(TokenCloseCurly); !ok {
		c.Unexpected(fmt.Sprintf("Expected '}' but found %s", describe(c.Token())))
	}
	return parser.FinishNode(c, start, block)
}

func (p *parse) parseVariableDeclaration() *VariableDeclaration {
	c := p.c
	start := c.StartPosition()
	decl := &VariableDeclaration{Kind: text(c.Next())}
	for {
		declStart := c.StartPosition()
		id := p.parseBindingIdentifier()
		if id == nil {
			p.skipStatement()
			return parser.FinishNode(c, start, decl)
		}
		declarator := &VariableDeclarator{ID: id}
		if p.isOperator("=") {
			c.Next()
			declarator.Init = p.parseAssignment()
		} else if decl.Kind == "const" {
			c.UnexpectedNode(id, "Missing initializer in const declaration")
		}
		decl.Declarations = append(decl.Declarations, parser.FinishNode(c, declStart, declarator))
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	p.endStatement(nil)
	return parser.FinishNode(c, start, decl)
}

func (p *parse) parseBindingIdentifier() *Identifier {
	c := p.c
	tok := c.Token()
	if tok.Kind != TokenName {
		c.Unexpected(fmt.Sprintf("Expected an identifier but found %s", describe(tok)))
		return nil
	}
	c.Next()
	return atToken(c, tok, &Identifier{Name: text(tok)})
}

func (p *parse) parseFunctionDeclaration() *FunctionDeclaration {
	c := p.c
	start := c.StartPosition()
	c.Next()
	fn := &FunctionDeclaration{ID: p.parseBindingIdentifier()}
	fn.Params, fn.Body = p.parseFunctionRest()
	return parser.FinishNode(c, start, fn)
}

func (p *parse) parseFunctionExpression() *FunctionExpression {
	c := p.c
	start := c.StartPosition()
	c.Next()
	fn := &FunctionExpression{}
	if c.Match(TokenName) {
		fn.ID = p.parseBindingIdentifier()
	}
	fn.Params, fn.Body = p.parseFunctionRest()
	return parser.FinishNode(c, start, fn)
}

// parseFunctionRest parses the parameter list and body shared by every
// function form.
func (p *parse) parseFunctionRest() ([]*Identifier, *BlockStatement) {
	params := p.parseParams()
	return params, p.inFunction(p.parseFunctionBody)
}

// inFunction runs parse with return allowed and no enclosing loop.
func (p *parse) inFunction(parse func() *BlockStatement) *BlockStatement {
	loops := p.loopDepth
	p.functionDepth++
	p.loopDepth = 0
	defer func() {
		p.functionDepth--
		p.loopDepth = loops
	}()
	return parse()
}

func (p *parse) parseParams() []*Identifier {
	c := p.c
	if _, ok := c.Eat(TokenOpenParen); !ok {
		c.Unexpected(fmt.Sprintf("Expected '(' but found %s", describe(c.Token())))
		return nil
	}
	var params []*Identifier
	for !c.MatchAny(TokenCloseParen, TokenEOF) {
		id := p.parseBindingIdentifier()
		if id == nil {
			c.SkipUntil(TokenCloseParen, TokenOpenCurly)
			break
		}
		params = append(params, id)
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	if _, ok := c.Eat(TokenCloseParen); !ok && !c.Match(TokenOpenCurly) {
		c.Unexpected(fmt.Sprintf("Expected ')' but found %s", describe(c.Token())))
	}
	return params
}

func (p *parse) parseFunctionBody() *BlockStatement {
	c := p.c
	if !c.Match(TokenOpenCurly) {
		c.Unexpected(fmt.Sprintf("Expected '{' but found %s", describe(c.Token())))
		at := c.Token().Start
		return parser.FinishNodeAt(c, at, at, &BlockStatement{})
	}
	return p.parseBlock()
}

func (p *parse) parseReturn() *ReturnStatement {
	c := p.c
	start := c.StartPosition()
	tok := c.Next()
	if p.functionDepth == 0 {
		c.UnexpectedToken(tok, "Illegal return statement outside of a function")
	}
	stmt := &ReturnStatement{}
	if !c.MatchAny(TokenSemicolon, TokenCloseCurly, TokenEOF) && !p.newlineBefore() {
		stmt.Argument = p.parseExpression()
	}
	p.endStatement(nil)
	return parser.FinishNode(c, start, stmt)
}

func (p *parse) parseIf() *IfStatement {
	c := p.c
	start := c.StartPosition()
	c.Next()
	stmt := &IfStatement{Test: p.parseParenExpression()}
	stmt.Consequent = p.parseSubStatement()
	if p.isKeyword("else") {
		c.Next()
		stmt.Alternate = p.parseSubStatement()
	}
	return parser.FinishNode(c, start, stmt)
}

func (p *parse) parseWhile() *WhileStatement {
	c := p.c
	start := c.StartPosition()
	c.Next()
	stmt := &WhileStatement{Test: p.parseParenExpression()}
	p.loopDepth++
	stmt.Body = p.parseSubStatement()
	p.loopDepth--
	return parser.FinishNode(c, start, stmt)
}

func (p *parse) parseBreak() *BreakStatement {
	c := p.c
	start := c.StartPosition()
	tok := c.Next()
	stmt := &BreakStatement{Keyword: text(tok)}
	if p.loopDepth == 0 {
		c.UnexpectedToken(tok, fmt.Sprintf("Illegal %s statement outside of a loop", stmt.Keyword))
	}
	if c.Match(TokenName) && !p.newlineBefore() {
		c.Next()
	}
	p.endStatement(nil)
	return parser.FinishNode(c, start, stmt)
}

func (p *parse) parseParenExpression() Expression {
	c := p.c
	if _, ok := c.Eat(TokenOpenParen); !ok {
		c.Unexpected(fmt.Sprintf("Expected '(' but found %s", describe(c.Token())))
	}
	expr := p.parseExpression()
	if _, ok := c.Eat(TokenCloseParen); !ok {
		c.Unexpected(fmt.Sprintf("Expected ')' but found %s", describe(c.Token())))
	}
	return expr
}

func (p *parse) parseExpressionStatement() Statement {
	c := p.c
	start := c.StartPosition()
	expr := p.parseExpression()
	if bogus, ok := expr.(*Bogus); ok && bogus.Location().Start == bogus.Location().End {
		return nil
	}
	stmt := &ExpressionStatement{Expression: expr}
	p.endStatement(expr)
	return parser.FinishNode(c, start, stmt)
}

func (p *parse) parseExpression() Expression {
	return p.parseAssignment()
}

func (p *parse) parseAssignment() Expression {
	c := p.c
	if arrow := p.tryArrow(); arrow != nil {
		return arrow
	}
	start := c.StartPosition()
	left := p.parseConditional()
	tok := c.Token()
	if tok.Kind != TokenOperator || !assignOperators().Has(text(tok)) {
		return left
	}
	p.checkAssignable(left)
	c.Next()
	right := p.parseAssignment()
	return parser.FinishNode(c, start, &AssignmentExpression{Operator: text(tok), Left: left, Right: right})
}

func (p *parse) checkAssignable(target Expression) {
	switch target.(type) {
	case *Identifier, *MemberExpression, *Bogus:
		return
	}
	p.c.UnexpectedNode(target, "Invalid assignment target")
}

// tryArrow parses an arrow function when the tokens ahead are a parameter
// list followed by '=>'. Otherwise it leaves the stream untouched.
func (p *parse) tryArrow() Expression {
	c := p.c
	switch {
	case c.Match(TokenName) && c.Lookahead().Kind == TokenArrow:
		start := c.StartPosition()
		param := p.parseBindingIdentifier()
		c.Next()
		return p.finishArrow(start, []*Identifier{param})
	case c.Match(TokenOpenParen):
		saved := c.Save()
		start := c.StartPosition()
		c.Next()
		var params []*Identifier
		for c.Match(TokenName) {
			tok := c.Next()
			params = append(params, atToken(c, tok, &Identifier{Name: text(tok)}))
			if _, ok := c.Eat(TokenComma); !ok {
				break
			}
		}
		if _, ok := c.Eat(TokenCloseParen); ok && c.Match(TokenArrow) {
			c.Next()
			return p.finishArrow(start, params)
		}
		c.Restore(saved)
	}
	return nil
}

func (p *parse) finishArrow(start source.Position, params []*Identifier) *ArrowFunctionExpression {
	c := p.c
	fn := &ArrowFunctionExpression{Params: params}
	if c.Match(TokenOpenCurly) {
		fn.Body = p.inFunction(p.parseBlock)
	} else {
		p.functionDepth++
		fn.Body = p.parseAssignment()
		p.functionDepth--
	}
	return parser.FinishNode(c, start, fn)
}

func (p *parse) parseConditional() Expression {
	c := p.c
	start := c.StartPosition()
	test := p.parseBinary(0)
	if !c.Match(TokenQuestion) {
		return test
	}
	c.Next()
	expr := &ConditionalExpression{Test: test, Consequent: p.parseAssignment()}
	if _, ok := c.Eat(TokenColon); !ok {
		c.Unexpected(fmt.Sprintf("Expected ':' but found %s", describe(c.Token())))
	}
	expr.Alternate = p.parseAssignment()
	return parser.FinishNode(c, start, expr)
}

func (p *parse) precedence(tok Token) int {
	if tok.Kind != TokenOperator && tok.Kind != TokenKeyword {
		return 0
	}
	return binaryPrecedence[text(tok)]
}

// parseBinary parses operators binding tighter than minPrecedence by
// precedence climbing; '**' is right-associative.
func (p *parse) parseBinary(minPrecedence int) Expression {
	c := p.c
	start := c.StartPosition()
	left := p.parseUnary()
	for {
		tok := c.Token()
		prec := p.precedence(tok)
		if prec == 0 || prec <= minPrecedence {
			return left
		}
		c.Next()
		next := prec
		if text(tok) == "**" {
			next--
		}
		right := p.parseBinary(next)
		left = parser.FinishNode(c, start, &BinaryExpression{Operator: text(tok), Left: left, Right: right})
	}
}

func (p *parse) parseUnary() Expression {
	c := p.c
	tok := c.Token()
	op := text(tok)
	prefix := false
	switch tok.Kind {
	case TokenOperator:
		switch op {
		case "!", "~", "+", "-", "++", "--":
			prefix = true
		}
	case TokenKeyword:
		switch op {
		case "typeof", "void", "delete":
			prefix = true
		}
	}
	if !prefix {
		return p.parsePostfix()
	}
	start := c.StartPosition()
	c.Next()
	arg := p.parseUnary()
	if op == "++" || op == "--" {
		p.checkAssignable(arg)
	}
	return parser.FinishNode(c, start, &UnaryExpression{Operator: op, Prefix: true, Argument: arg})
}

func (p *parse) parsePostfix() Expression {
	c := p.c
	start := c.StartPosition()
	expr := p.parseCallMember()
	if (p.isOperator("++") || p.isOperator("--")) && !p.newlineBefore() {
		p.checkAssignable(expr)
		op := text(c.Next())
		return parser.FinishNode(c, start, &UnaryExpression{Operator: op, Argument: expr})
	}
	return expr
}

func (p *parse) parseCallMember() Expression {
	c := p.c
	start := c.StartPosition()
	var expr Expression
	if p.isKeyword("new") {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	for {
		switch {
		case c.Match(TokenDot):
			c.Next()
			expr = parser.FinishNode(c, start, &MemberExpression{Object: expr, Property: p.parsePropertyName()})
		case c.Match(TokenOptionalChain):
			c.Next()
			switch {
			case c.Match(TokenOpenParen):
				expr = parser.FinishNode(c, start, &CallExpression{Callee: expr, Arguments: p.parseArguments(), Optional: true})
			case c.Match(TokenOpenSquare):
				expr = parser.FinishNode(c, start, &MemberExpression{Object: expr, Property: p.parseComputedProperty(), Computed: true, Optional: true})
			default:
				expr = parser.FinishNode(c, start, &MemberExpression{Object: expr, Property: p.parsePropertyName(), Optional: true})
			}
		case c.Match(TokenOpenSquare):
			expr = parser.FinishNode(c, start, &MemberExpression{Object: expr, Property: p.parseComputedProperty(), Computed: true})
		case c.Match(TokenOpenParen):
			expr = parser.FinishNode(c, start, &CallExpression{Callee: expr, Arguments: p.parseArguments()})
		default:
			return expr
		}
	}
}

func (p *parse) parseNew() *NewExpression {
	c := p.c
	start := c.StartPosition()
	c.Next()
	calleeStart := c.StartPosition()
	callee := p.parsePrimary()
	for c.Match(TokenDot) {
		c.Next()
		callee = parser.FinishNode(c, calleeStart, &MemberExpression{Object: callee, Property: p.parsePropertyName()})
	}
	expr := &NewExpression{Callee: callee}
	if c.Match(TokenOpenParen) {
		expr.Arguments = p.parseArguments()
	}
	return parser.FinishNode(c, start, expr)
}

func (p *parse) parsePropertyName() Expression {
	c := p.c
	tok := c.Token()
	if tok.Kind == TokenName || tok.Kind == TokenKeyword {
		c.Next()
		return atToken(c, tok, &Identifier{Name: text(tok)})
	}
	c.Unexpected(fmt.Sprintf("Expected a property name but found %s", describe(tok)))
	return parser.FinishNodeAt(c, tok.Start, tok.Start, &Bogus{})
}

func (p *parse) parseComputedProperty() Expression {
	c := p.c
	c.Next()
	expr := p.parseExpression()
	if _, ok := c.Eat(TokenCloseSquare); !ok {
		c.Unexpected(fmt.Sprintf("Expected ']' but found %s", describe(c.Token())))
	}
	return expr
}

func (p *parse) parseArguments() []Expression {
	c := p.c
	c.Next()
	var args []Expression
	for !c.MatchAny(TokenCloseParen, TokenEOF) {
		args = append(args, p.parseSpreadOrAssignment())
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	if _, ok := c.Eat(TokenCloseParen); !ok {
		c.Unexpected(fmt.Sprintf("Expected ')' but found %s", describe(c.Token())))
	}
	return args
}

func (p *parse) parseSpreadOrAssignment() Expression {
	c := p.c
	if !p.isOperator("...") {
		return p.parseAssignment()
	}
	start := c.StartPosition()
	c.Next()
	return parser.FinishNode(c, start, &SpreadElement{Argument: p.parseAssignment()})
}

func (p *parse) parsePrimary() Expression {
	c := p.c
	tok := c.Token()
	switch tok.Kind {
	case TokenName:
		c.Next()
		return atToken(c, tok, &Identifier{Name: text(tok)})
	case TokenNum:
		c.Next()
		n := tok.Value.(NumberValue)
		return atToken(c, tok, &NumericLiteral{Value: n.Value, Raw: n.Raw})
	case TokenString:
		c.Next()
		return atToken(c, tok, &StringLiteral{Value: text(tok)})
	case TokenTemplate:
		c.Next()
		return atToken(c, tok, &TemplateLiteral{Raw: text(tok)})
	case TokenRegex:
		c.Next()
		re := tok.Value.(RegexValue)
		node := atToken(c, tok, &RegExpLiteral{Pattern: re.Pattern, Flags: re.Flags})
		if !re.Unterminated {
			p.checkRegex(node)
		}
		return node
	case TokenOpenParen:
		c.Next()
		expr := p.parseExpression()
		if _, ok := c.Eat(TokenCloseParen); !ok {
			c.Unexpected(fmt.Sprintf("Expected ')' but found %s", describe(c.Token())))
		}
		return expr
	case TokenOpenSquare:
		return p.parseArray()
	case TokenOpenCurly:
		return p.parseObject()
	case TokenInvalid:
		c.Next()
		return atToken(c, tok, &Bogus{})
	case TokenKeyword:
		switch text(tok) {
		case "true", "false":
			c.Next()
			return atToken(c, tok, &BooleanLiteral{Value: text(tok) == "true"})
		case "null":
			c.Next()
			return atToken(c, tok, &NullLiteral{})
		case "this":
			c.Next()
			return atToken(c, tok, &ThisExpression{})
		case "super":
			c.Next()
			return atToken(c, tok, &Identifier{Name: "super"})
		case "function":
			return p.parseFunctionExpression()
		}
	}
	c.Unexpected(fmt.Sprintf("Expected an expression but found %s", describe(tok)))
	return parser.FinishNodeAt(c, tok.Start, tok.Start, &Bogus{})
}

func (p *parse) parseArray() *ArrayExpression {
	c := p.c
	start := c.StartPosition()
	c.Next()
	arr := &ArrayExpression{}
	for !c.MatchAny(TokenCloseSquare, TokenEOF) {
		if _, ok := c.Eat(TokenComma); ok {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		arr.Elements = append(arr.Elements, p.parseSpreadOrAssignment())
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	if _, ok := c.Eat(TokenCloseSquare); !ok {
		c.Unexpected(fmt.Sprintf("Expected ']' but found %s", describe(c.Token())))
	}
	return parser.FinishNode(c, start, arr)
}

func (p *parse) parseObject() *ObjectExpression {
	c := p.c
	start := c.StartPosition()
	c.Next()
	obj := &ObjectExpression{}
	for !c.MatchAny(TokenCloseCurly, TokenEOF) {
		prop := p.parseProperty()
		if prop == nil {
			c.SkipUntil(TokenComma, TokenCloseCurly)
		} else {
			obj.Properties = append(obj.Properties, prop)
		}
		if _, ok := c.Eat(TokenComma); !ok {
			break
		}
	}
	if _, ok := c.Eat(TokenCloseCurly); !ok {
		c.Unexpected(fmt.Sprintf("Expected '}' but found %s", describe(c.Token())))
	}
	return parser.FinishNode(c, start, obj)
}

func (p *parse) parseProperty() *Property {
	c := p.c
	start := c.StartPosition()
	tok := c.Token()
	prop := &Property{}
	switch {
	case tok.Kind == TokenName || tok.Kind == TokenKeyword:
		c.Next()
		prop.Key = atToken(c, tok, &Identifier{Name: text(tok)})
	case tok.Kind == TokenString:
		c.Next()
		prop.Key = atToken(c, tok, &StringLiteral{Value: text(tok)})
	case tok.Kind == TokenNum:
		c.Next()
		n := tok.Value.(NumberValue)
		prop.Key = atToken(c, tok, &NumericLiteral{Value: n.Value, Raw: n.Raw})
	case tok.Kind == TokenOpenSquare:
		prop.Key = p.parseComputedProperty()
		prop.Computed = true
	case p.isOperator("..."):
		prop.Value = p.parseSpreadOrAssignment()
		return parser.FinishNode(c, start, prop)
	default:
		c.Unexpected(fmt.Sprintf("Expected a property name but found %s", describe(tok)))
		return nil
	}
	switch {
	case c.Match(TokenColon):
		c.Next()
		prop.Value = p.parseAssignment()
	case c.Match(TokenOpenParen):
		methodStart := c.StartPosition()
		params, body := p.parseFunctionRest()
		prop.Value = parser.FinishNode(c, methodStart, &FunctionExpression{Params: params, Body: body})
	case tok.Kind == TokenName:
		prop.Value = prop.Key
		prop.Shorthand = true
	default:
		c.Unexpected(fmt.Sprintf("Expected ':' but found %s", describe(c.Token())))
	}
	return parser.FinishNode(c, start, prop)
}

const regexFlags = "dgimsuvy"

// checkRegex validates the flags and compiles the pattern with ECMAScript
// semantics.
func (p *parse) checkRegex(node *RegExpLiteral) {
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	for i, flag := range node.Flags {
		if !strings.ContainsRune(regexFlags, flag) || strings.ContainsRune(node.Flags[:i], flag) {
			p.c.UnexpectedNode(node, fmt.Sprintf("Invalid regular expression flags %q", node.Flags))
			return
		}
		switch flag {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'v':
			opts |= regexp2.Unicode
		}
	}
	if _, err := regexp2.Compile(node.Pattern, opts); err != nil {
		reason := err.Error()
		var syntaxErr *syntax.Error
		if errors.As(err, &syntaxErr) {
			reason = fmt.Sprintf(string(syntaxErr.Code), syntaxErr.Args...)
		}
		p.c.UnexpectedNode(node, fmt.Sprintf("Invalid regular expression: %s", reason))
	}
}
