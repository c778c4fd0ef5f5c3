package snapshot

import "github.com/dhamidi/parsecore/parser"

type Root struct {
	parser.RootBase
	Body []Block `json:"body"`
}

type Block interface {
	parser.Node
	block()
}

type Heading struct {
	parser.NodeBase
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type CodeBlock struct {
	parser.NodeBase
	Language string `json:"language"`
	Text     string `json:"text"`
}

type TextLine struct {
	parser.NodeBase
	Text string `json:"text"`
}

func (*Heading) block()   {}
func (*CodeBlock) block() {}
func (*TextLine) block()  {}

// Section is a heading with the code blocks that follow it up to the next
// heading. The section before the first heading has a nil Heading.
type Section struct {
	Heading    *Heading
	CodeBlocks []*CodeBlock
}

// Sections groups the code blocks of the file by their nearest preceding
// heading, in source order.
func (r *Root) Sections() []Section {
	var sections []Section
	current := Section{}
	for _, block := range r.Body {
		switch b := block.(type) {
		case *Heading:
			if current.Heading != nil || len(current.CodeBlocks) > 0 {
				sections = append(sections, current)
			}
			current = Section{Heading: b}
		case *CodeBlock:
			current.CodeBlocks = append(current.CodeBlocks, b)
		}
	}
	if current.Heading != nil || len(current.CodeBlocks) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// Entry returns the first section whose heading text is heading.
func (r *Root) Entry(heading string) (Section, bool) {
	for _, section := range r.Sections() {
		if section.Heading != nil && section.Heading.Text == heading {
			return section, true
		}
	}
	return Section{}, false
}
