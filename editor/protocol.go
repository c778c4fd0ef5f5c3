// Package editor connects parse results to editors speaking the Language
// Server Protocol. Locations become protocol ranges measured in UTF-16 code
// units on physical lines, and diagnostics are published as
// textDocument/publishDiagnostics notifications.
package editor

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/source"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("parsecore.editor")

const sourceName = "parsecore"

// PositionAt converts a byte offset of input into a protocol position.
// Lines are split at every '\n' regardless of grammar escapes, since that is
// how editors count them.
func PositionAt(input string, offset source.ZeroIndexed) protocol.Position {
	end := min(max(int(offset), 0), len(input))
	lineStart := strings.LastIndexByte(input[:end], '\n') + 1
	line := strings.Count(input[:lineStart], "\n")

	var units int
	for i := lineStart; i < end; {
		r, size := utf8.DecodeRuneInString(input[i:])
		if i+size > end {
			// offset splits a rune; count what lies before it
			break
		}
		if n := len(utf16.Encode([]rune{r})); n > 0 {
			units += n
		} else {
			units++
		}
		i += size
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

// OffsetOf is the inverse of PositionAt. Positions past the end of a line
// clamp to the line end and positions past the last line clamp to the end
// of input.
func OffsetOf(input string, pos protocol.Position) source.ZeroIndexed {
	i := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(input[i:], '\n')
		if next < 0 {
			return source.ZeroIndexed(len(input))
		}
		i += next + 1
	}
	var units protocol.UInteger
	for i < len(input) && input[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(input[i:])
		if n := len(utf16.Encode([]rune{r})); n > 0 {
			units += protocol.UInteger(n)
		} else {
			units++
		}
		i += size
	}
	return source.ZeroIndexed(i)
}

// Range converts loc to a protocol range. The tracker must be the one the
// location was computed with, so escaped newlines map back to the right
// offsets.
func Range(loc source.Location, tracker *source.Tracker) protocol.Range {
	input := tracker.Input()
	return protocol.Range{
		Start: PositionAt(input, offsetOf(tracker, loc.Start)),
		End:   PositionAt(input, offsetOf(tracker, loc.End)),
	}
}

func offsetOf(tracker *source.Tracker, pos source.Position) source.ZeroIndexed {
	offset, ok := tracker.IndexOf(pos)
	if !ok || offset > tracker.End() {
		return tracker.End()
	}
	return offset
}

// Diagnostic converts d to a protocol diagnostic. Advice lines are appended
// to the message because editors show the message verbatim.
func Diagnostic(d diag.Diagnostic, tracker *source.Tracker) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	name := sourceName
	message := d.Message
	if len(d.Advice) > 0 {
		message += "\n" + strings.Join(d.Advice, "\n")
	}
	return protocol.Diagnostic{
		Range:    Range(d.Location, tracker),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: string(d.Category)},
		Source:   &name,
		Message:  message,
	}
}

// Publish sends the diagnostics of one document version to the client. An
// empty list clears earlier diagnostics. A negative version is omitted.
func Publish(ctx *glsp.Context, uri protocol.DocumentUri, version protocol.Integer, diagnostics []diag.Diagnostic, tracker *source.Tracker) {
	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: make([]protocol.Diagnostic, 0, len(diagnostics)),
	}
	if version >= 0 {
		v := protocol.UInteger(version)
		params.Version = &v
	}
	for _, d := range diagnostics {
		params.Diagnostics = append(params.Diagnostics, Diagnostic(d, tracker))
	}
	log.Debugf("publishing %d diagnostics for %s", len(params.Diagnostics), uri)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}
