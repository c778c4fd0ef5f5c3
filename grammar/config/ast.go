package config

import (
	"strings"
	"time"

	"github.com/dhamidi/parsecore/parser"
)

// Root is a parsed configuration file. Body holds the top-level key/value
// pairs followed by the tables in source order.
type Root struct {
	parser.RootBase
	Body  []parser.Node `json:"body"`
	State State         `json:"state"`
}

type Table struct {
	parser.NodeBase
	Key           *Key        `json:"key"`
	ArrayOfTables bool        `json:"arrayOfTables,omitempty"`
	Body          []*KeyValue `json:"body"`
}

type KeyValue struct {
	parser.NodeBase
	Key   *Key  `json:"key"`
	Value Value `json:"value"`
}

// Key is a possibly dotted key; Parts holds the unquoted segments.
type Key struct {
	parser.NodeBase
	Parts []string `json:"parts"`
}

func (k *Key) String() string {
	return strings.Join(k.Parts, ".")
}

// Value is implemented by every node that may appear on the right-hand side
// of a key/value pair.
type Value interface {
	parser.Node
	value()
}

type String struct {
	parser.NodeBase
	Value     string `json:"value"`
	Delimiter string `json:"delimiter"`
}

type Integer struct {
	parser.NodeBase
	Value int64  `json:"value"`
	Raw   string `json:"raw"`
}

type Float struct {
	parser.NodeBase
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

type Boolean struct {
	parser.NodeBase
	Value bool `json:"value"`
}

// DateTime holds offset and local date-times, dates and times. Local values
// are stored in UTC.
type DateTime struct {
	parser.NodeBase
	Value time.Time `json:"value"`
	Raw   string    `json:"raw"`
}

type Array struct {
	parser.NodeBase
	Elements []Value `json:"elements"`
}

type InlineTable struct {
	parser.NodeBase
	Entries []*KeyValue `json:"entries"`
}

// Bogus stands in for a value that could not be parsed.
type Bogus struct {
	parser.NodeBase
	Raw string `json:"raw"`
}

func (*String) value()      {}
func (*Integer) value()     {}
func (*Float) value()       {}
func (*Boolean) value()     {}
func (*DateTime) value()    {}
func (*Array) value()       {}
func (*InlineTable) value() {}
func (*Bogus) value()       {}
