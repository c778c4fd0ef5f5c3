// Package diag holds parse diagnostics: records of problems found in input
// text that are attached to a parse result instead of aborting it.
package diag

import (
	"fmt"

	"github.com/dhamidi/parsecore/source"
)

// Category is a stable key naming the grammar that produced a diagnostic.
type Category string

const (
	CategoryConfig     Category = "parse/toml"
	CategoryDocument   Category = "parse/markdown"
	CategoryStylesheet Category = "parse/css"
	CategorySnapshot   Category = "parse/snapshots"
	CategoryScript     Category = "parse/js"
)

type Diagnostic struct {
	Category Category        `json:"category"`
	Message  string          `json:"message"`
	Location source.Location `json:"location"`
	Advice   []string        `json:"advice,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s]", d.Location, d.Message, d.Category)
}

// Sink is an append-only list of diagnostics. It never deduplicates.
type Sink struct {
	items []Diagnostic
}

func (s *Sink) Add(d Diagnostic) {
	s.items = append(s.items, d)
}

func (s *Sink) Len() int {
	return len(s.items)
}

// All returns a copy of the recorded diagnostics. The result is never nil.
func (s *Sink) All() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Rewind drops every diagnostic recorded after the sink had n entries. It
// exists for atomic backtracking and is not a general removal API.
func (s *Sink) Rewind(n int) {
	if n < 0 || n > len(s.items) {
		panic(fmt.Sprintf("diag: rewind to %d outside [0, %d]", n, len(s.items)))
	}
	s.items = s.items[:n]
}
