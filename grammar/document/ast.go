package document

import "github.com/dhamidi/parsecore/parser"

type Root struct {
	parser.RootBase
	Body  []Block `json:"body"`
	State State   `json:"state"`
}

type Block interface {
	parser.Node
	block()
}

type Inline interface {
	parser.Node
	inline()
}

type Heading struct {
	parser.NodeBase
	Level    int      `json:"level"`
	Children []Inline `json:"children"`
}

type Paragraph struct {
	parser.NodeBase
	Children []Inline `json:"children"`
}

type List struct {
	parser.NodeBase
	Ordered bool        `json:"ordered"`
	Start   int         `json:"start,omitempty"`
	Items   []*ListItem `json:"items"`
}

type ListItem struct {
	parser.NodeBase
	Children []Inline `json:"children"`
}

type CodeBlock struct {
	parser.NodeBase
	Language string `json:"language"`
	Info     string `json:"info,omitempty"`
	Text     string `json:"text"`
}

type Blockquote struct {
	parser.NodeBase
	Children []Block `json:"children"`
}

type ThematicBreak struct {
	parser.NodeBase
}

type Text struct {
	parser.NodeBase
	Value string `json:"value"`
}

type Emphasis struct {
	parser.NodeBase
	Children []Inline `json:"children"`
}

type Strong struct {
	parser.NodeBase
	Children []Inline `json:"children"`
}

type InlineCodeSpan struct {
	parser.NodeBase
	Value string `json:"value"`
}

type Link struct {
	parser.NodeBase
	Children    []Inline `json:"children"`
	Destination string   `json:"destination"`
}

type Break struct {
	parser.NodeBase
}

func (*Heading) block()       {}
func (*Paragraph) block()     {}
func (*List) block()          {}
func (*CodeBlock) block()     {}
func (*Blockquote) block()    {}
func (*ThematicBreak) block() {}

func (*Text) inline()           {}
func (*Emphasis) inline()       {}
func (*Strong) inline()         {}
func (*InlineCodeSpan) inline() {}
func (*Link) inline()           {}
func (*Break) inline()          {}

// PlainText concatenates the text content of inline nodes.
func PlainText(nodes []Inline) string {
	var b []byte
	for _, node := range nodes {
		switch node := node.(type) {
		case *Text:
			b = append(b, node.Value...)
		case *InlineCodeSpan:
			b = append(b, node.Value...)
		case *Emphasis:
			b = append(b, PlainText(node.Children)...)
		case *Strong:
			b = append(b, PlainText(node.Children)...)
		case *Link:
			b = append(b, PlainText(node.Children)...)
		case *Break:
			b = append(b, '\n')
		}
	}
	return string(b)
}
