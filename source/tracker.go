package source

import (
	"sort"
	"strings"
)

// EscapedNewlineFunc returns the indices of the '\n' bytes in input that are
// escaped and therefore do not start a new line, in increasing order.
type EscapedNewlineFunc func(input string) []int

type TrackerOption func(*Tracker)

// WithEscapedNewline configures the grammar-specific escape rule for line
// terminators.
func WithEscapedNewline(fn EscapedNewlineFunc) TrackerOption {
	return func(t *Tracker) {
		t.escaped = fn
	}
}

// Tracker converts between offsets and positions for one immutable input.
// The line index is built on first use.
type Tracker struct {
	path    string
	input   string
	escaped EscapedNewlineFunc
	lines   []ZeroIndexed
}

func NewTracker(path, input string, opts ...TrackerOption) *Tracker {
	t := &Tracker{path: path, input: input}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Path() string  { return t.path }
func (t *Tracker) Input() string { return t.input }

// End is the offset one past the last byte of the input.
func (t *Tracker) End() ZeroIndexed {
	return ZeroIndexed(len(t.input))
}

func (t *Tracker) lineStarts() []ZeroIndexed {
	if t.lines != nil {
		return t.lines
	}
	var escaped []int
	if t.escaped != nil {
		escaped = t.escaped(t.input)
	}
	lines := []ZeroIndexed{0}
	for i := 0; i < len(t.input); i++ {
		if t.input[i] != '\n' {
			continue
		}
		for len(escaped) > 0 && escaped[0] < i {
			escaped = escaped[1:]
		}
		if len(escaped) > 0 && escaped[0] == i {
			continue
		}
		lines = append(lines, ZeroIndexed(i+1))
	}
	t.lines = lines
	return lines
}

// LineCount returns the number of lines, counting a trailing empty line.
func (t *Tracker) LineCount() int {
	return len(t.lineStarts())
}

// PositionOf returns the position of offset. Offsets outside the input are
// clamped to its bounds.
func (t *Tracker) PositionOf(offset ZeroIndexed) Position {
	if offset < 0 {
		offset = 0
	}
	if end := t.End(); offset > end {
		offset = end
	}
	lines := t.lineStarts()
	// first line starting after offset, minus one
	idx := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	return Position{
		Line:   ZeroIndexed(idx).ToOneIndexed(),
		Column: offset - lines[idx],
	}
}

// IndexOf is the inverse of PositionOf. It reports false when the line does
// not exist in the input.
func (t *Tracker) IndexOf(pos Position) (ZeroIndexed, bool) {
	lines := t.lineStarts()
	idx := pos.Line.ToZeroIndexed()
	if idx < 0 || int(idx) >= len(lines) || pos.Column < 0 {
		return 0, false
	}
	return lines[idx] + pos.Column, true
}

// Location builds a location for the offset range [start, end).
func (t *Tracker) Location(start, end ZeroIndexed) Location {
	if end < start {
		end = start
	}
	return Location{
		Path:  t.path,
		Start: t.PositionOf(start),
		End:   t.PositionOf(end),
	}
}

// LineText returns the text of a line without its terminator.
func (t *Tracker) LineText(line OneIndexed) string {
	lines := t.lineStarts()
	idx := line.ToZeroIndexed()
	if idx < 0 || int(idx) >= len(lines) {
		return ""
	}
	start := lines[idx]
	end := t.End()
	if int(idx)+1 < len(lines) {
		end = lines[idx+1]
	}
	return strings.TrimRight(t.input[start:end], "\r\n")
}
