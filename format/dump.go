package format

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/dhamidi/parsecore/grammar"
	"github.com/dhamidi/parsecore/source"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// DumpEncoder prints Go values as they are, including node types and
// token payloads.
type DumpEncoder struct {
	w io.Writer
}

func NewDumpEncoder(w io.Writer) *DumpEncoder {
	return &DumpEncoder{w: w}
}

func (e *DumpEncoder) Encode(result grammar.Result) error {
	dumpConfig.Fdump(e.w, result.Root)
	return nil
}

func (e *DumpEncoder) EncodeTokens(tokens []grammar.Token, tracker *source.Tracker) error {
	dumpConfig.Fdump(e.w, tokens)
	return nil
}
