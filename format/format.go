// Package format writes parse results and token streams for the command
// line tool.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/parsecore/grammar"
	"github.com/dhamidi/parsecore/source"
)

type Encoder interface {
	Encode(result grammar.Result) error
	EncodeTokens(tokens []grammar.Token, tracker *source.Tracker) error
}

// Names lists the formats New accepts.
var Names = []string{"json", "dump", "line"}

func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "dump":
		return NewDumpEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (expected json, dump or line)", name)
	}
}
