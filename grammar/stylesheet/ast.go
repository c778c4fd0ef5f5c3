package stylesheet

import "github.com/dhamidi/parsecore/parser"

type Root struct {
	parser.RootBase
	Rules []Rule `json:"rules"`
}

// DeclarationList is the root of a parse of a bare declaration list, such
// as the contents of a style attribute.
type DeclarationList struct {
	parser.RootBase
	Declarations []*Declaration `json:"declarations"`
}

// Rule is a style rule or an at-rule.
type Rule interface {
	parser.Node
	rule()
}

type StyleRule struct {
	parser.NodeBase
	Selectors []*Selector `json:"selectors"`
	Block     *Block      `json:"block"`
}

// AtRule has a nil Block when it ends with a semicolon.
type AtRule struct {
	parser.NodeBase
	Name    string  `json:"name"`
	Prelude []Value `json:"prelude"`
	Block   *Block  `json:"block,omitempty"`
}

// Block holds declarations and, for nesting at-rules and nested style
// rules, child rules.
type Block struct {
	parser.NodeBase
	Declarations []*Declaration `json:"declarations"`
	Rules        []Rule         `json:"rules"`
}

type Selector struct {
	parser.NodeBase
	Parts []*SelectorPart `json:"parts"`
}

type SelectorKind int

const (
	TypeSelector SelectorKind = iota
	UniversalSelector
	ClassSelector
	IDSelector
	AttributeSelector
	PseudoClassSelector
	PseudoElementSelector
	NestingSelector
	KeyframeSelector
	Combinator
)

// SelectorPart is one simple selector or combinator. Name holds the
// identifier, the attribute text or the combinator (" " for descendants).
type SelectorPart struct {
	parser.NodeBase
	Kind      SelectorKind `json:"kind"`
	Name      string       `json:"name"`
	Arguments string       `json:"arguments,omitempty"`
}

type Declaration struct {
	parser.NodeBase
	Name      string  `json:"name"`
	Value     []Value `json:"value"`
	Important bool    `json:"important"`
}

// Custom reports whether the declaration sets a custom property.
func (d *Declaration) Custom() bool {
	return len(d.Name) > 2 && d.Name[:2] == "--"
}

type Value interface {
	parser.Node
	value()
}

type Ident struct {
	parser.NodeBase
	Name string `json:"name"`
}

type Number struct {
	parser.NodeBase
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

type Percentage struct {
	parser.NodeBase
	Value float64 `json:"value"`
}

type Dimension struct {
	parser.NodeBase
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type String struct {
	parser.NodeBase
	Value string `json:"value"`
}

type Hash struct {
	parser.NodeBase
	Value string `json:"value"`
}

type Function struct {
	parser.NodeBase
	Name      string  `json:"name"`
	Arguments []Value `json:"arguments"`
}

type Comma struct {
	parser.NodeBase
}

// Raw is any other component value, kept as source text.
type Raw struct {
	parser.NodeBase
	Text string `json:"text"`
}

func (*StyleRule) rule() {}
func (*AtRule) rule()    {}

func (*Ident) value()      {}
func (*Number) value()     {}
func (*Percentage) value() {}
func (*Dimension) value()  {}
func (*String) value()     {}
func (*Hash) value()       {}
func (*Function) value()   {}
func (*Comma) value()      {}
func (*Raw) value()        {}
