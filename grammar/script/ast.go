package script

import "github.com/dhamidi/parsecore/parser"

type Program struct {
	parser.RootBase
	Body  []Statement `json:"body"`
	State State       `json:"state"`
}

type Statement interface {
	parser.Node
	statement()
}

type Expression interface {
	parser.Node
	expression()
}

// VariableDeclaration is a var, let or const declaration.
type VariableDeclaration struct {
	parser.NodeBase
	Kind         string                `json:"kind"`
	Declarations []*VariableDeclarator `json:"declarations"`
}

type VariableDeclarator struct {
	parser.NodeBase
	ID   *Identifier `json:"id"`
	Init Expression  `json:"init,omitempty"`
}

type FunctionDeclaration struct {
	parser.NodeBase
	ID     *Identifier     `json:"id"`
	Params []*Identifier   `json:"params"`
	Body   *BlockStatement `json:"body"`
}

type ReturnStatement struct {
	parser.NodeBase
	Argument Expression `json:"argument,omitempty"`
}

type IfStatement struct {
	parser.NodeBase
	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate,omitempty"`
}

type WhileStatement struct {
	parser.NodeBase
	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

// BreakStatement is also used for continue; Keyword tells them apart.
type BreakStatement struct {
	parser.NodeBase
	Keyword string `json:"keyword"`
}

type BlockStatement struct {
	parser.NodeBase
	Body []Statement `json:"body"`
}

type EmptyStatement struct {
	parser.NodeBase
}

type ExpressionStatement struct {
	parser.NodeBase
	Expression Expression `json:"expression"`
}

type Identifier struct {
	parser.NodeBase
	Name string `json:"name"`
}

type NumericLiteral struct {
	parser.NodeBase
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

type StringLiteral struct {
	parser.NodeBase
	Value string `json:"value"`
}

// TemplateLiteral keeps its substitutions as raw text.
type TemplateLiteral struct {
	parser.NodeBase
	Raw string `json:"raw"`
}

type BooleanLiteral struct {
	parser.NodeBase
	Value bool `json:"value"`
}

type NullLiteral struct {
	parser.NodeBase
}

type ThisExpression struct {
	parser.NodeBase
}

type RegExpLiteral struct {
	parser.NodeBase
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// ArrayExpression has nil elements for holes.
type ArrayExpression struct {
	parser.NodeBase
	Elements []Expression `json:"elements"`
}

type ObjectExpression struct {
	parser.NodeBase
	Properties []*Property `json:"properties"`
}

type Property struct {
	parser.NodeBase
	Key       Expression `json:"key"`
	Value     Expression `json:"value"`
	Computed  bool       `json:"computed,omitempty"`
	Shorthand bool       `json:"shorthand,omitempty"`
}

// FunctionExpression has a nil ID when anonymous.
type FunctionExpression struct {
	parser.NodeBase
	ID     *Identifier     `json:"id,omitempty"`
	Params []*Identifier   `json:"params"`
	Body   *BlockStatement `json:"body"`
}

// ArrowFunctionExpression has either a *BlockStatement or an Expression
// as its body.
type ArrowFunctionExpression struct {
	parser.NodeBase
	Params []*Identifier `json:"params"`
	Body   parser.Node   `json:"body"`
}

type CallExpression struct {
	parser.NodeBase
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Optional  bool         `json:"optional,omitempty"`
}

type NewExpression struct {
	parser.NodeBase
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

type MemberExpression struct {
	parser.NodeBase
	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed,omitempty"`
	Optional bool       `json:"optional,omitempty"`
}

type SpreadElement struct {
	parser.NodeBase
	Argument Expression `json:"argument"`
}

type UnaryExpression struct {
	parser.NodeBase
	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

type BinaryExpression struct {
	parser.NodeBase
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type ConditionalExpression struct {
	parser.NodeBase
	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

type AssignmentExpression struct {
	parser.NodeBase
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

// Bogus stands in for an expression that could not be parsed.
type Bogus struct {
	parser.NodeBase
}

func (*VariableDeclaration) statement() {}
func (*FunctionDeclaration) statement() {}
func (*ReturnStatement) statement()     {}
func (*IfStatement) statement()         {}
func (*WhileStatement) statement()      {}
func (*BreakStatement) statement()      {}
func (*BlockStatement) statement()      {}
func (*EmptyStatement) statement()      {}
func (*ExpressionStatement) statement() {}

func (*Identifier) expression()              {}
func (*NumericLiteral) expression()          {}
func (*StringLiteral) expression()           {}
func (*TemplateLiteral) expression()         {}
func (*BooleanLiteral) expression()          {}
func (*NullLiteral) expression()             {}
func (*ThisExpression) expression()          {}
func (*RegExpLiteral) expression()           {}
func (*ArrayExpression) expression()         {}
func (*ObjectExpression) expression()        {}
func (*FunctionExpression) expression()      {}
func (*ArrowFunctionExpression) expression() {}
func (*CallExpression) expression()          {}
func (*NewExpression) expression()           {}
func (*MemberExpression) expression()        {}
func (*SpreadElement) expression()           {}
func (*UnaryExpression) expression()         {}
func (*BinaryExpression) expression()        {}
func (*ConditionalExpression) expression()   {}
func (*AssignmentExpression) expression()    {}
func (*Bogus) expression()                   {}
