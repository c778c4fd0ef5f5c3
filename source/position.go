// Package source maps offsets in immutable source text to line/column
// positions and back.
package source

import "fmt"

// Position is a line/column pair. Lines are one-based, columns are
// zero-based byte offsets from the start of the line.
type Position struct {
	Line   OneIndexed  `json:"line"`
	Column ZeroIndexed `json:"column"`
}

// Start is the position of the first byte of any input.
var Start = Position{Line: 1, Column: 0}

// Compare orders positions by line, then column.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location is a range of source text in a named input.
type Location struct {
	Path  string   `json:"path"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Valid reports whether the location is ordered start <= end.
func (l Location) Valid() bool {
	return l.Start.Compare(l.End) <= 0
}

// Empty reports whether the location is zero-width.
func (l Location) Empty() bool {
	return l.Start == l.End
}

// Contains reports whether pos falls inside [Start, End].
func (l Location) Contains(pos Position) bool {
	return l.Start.Compare(pos) <= 0 && pos.Compare(l.End) <= 0
}

func (l Location) String() string {
	if l.Path != "" {
		return fmt.Sprintf("%s:%s", l.Path, l.Start)
	}
	return l.Start.String()
}
