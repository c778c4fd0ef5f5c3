package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/parsecore/grammar"
	"github.com/dhamidi/parsecore/source"
)

// LineEncoder writes one tab separated record per line: diagnostics for a
// result, and span, kind, text and payload for tokens.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(result grammar.Result) error {
	var sb strings.Builder
	for _, d := range result.Diagnostics {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", d.Location, d.Category, d.Message)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *LineEncoder) EncodeTokens(tokens []grammar.Token, tracker *source.Tracker) error {
	var sb strings.Builder
	for _, tok := range tokens {
		loc := tracker.Location(tok.Start, tok.End)
		fmt.Fprintf(&sb, "%s-%s\t%s\t%s",
			loc.Start,
			loc.End,
			tok.Kind,
			strconv.Quote(tok.Text(tracker.Input())),
		)
		if tok.Value != nil {
			fmt.Fprintf(&sb, "\t%v", tok.Value)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}
