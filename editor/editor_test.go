package editor

import (
	"testing"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/grammar"
	"github.com/dhamidi/parsecore/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recorder(t *testing.T) (*glsp.Context, *[]notification) {
	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			p, ok := params.(protocol.PublishDiagnosticsParams)
			require.True(t, ok, "got %T", params)
			sent = append(sent, notification{method: method, params: p})
		},
	}
	return ctx, &sent
}

func TestPositionAtCountsUTF16(t *testing.T) {
	input := "é😀x\nab"
	tests := []struct {
		offset source.ZeroIndexed
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{2, protocol.Position{Line: 0, Character: 1}},
		{6, protocol.Position{Line: 0, Character: 3}},
		{7, protocol.Position{Line: 0, Character: 4}},
		{9, protocol.Position{Line: 1, Character: 1}},
		{100, protocol.Position{Line: 1, Character: 2}},
		// inside the emoji
		{3, protocol.Position{Line: 0, Character: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PositionAt(input, tt.offset), "offset %d", tt.offset)
	}
}

func TestOffsetOfInvertsPositionAt(t *testing.T) {
	input := "é😀x\r\nab\n\nlast"
	for i := range input {
		offset := source.ZeroIndexed(i)
		assert.Equal(t, offset, OffsetOf(input, PositionAt(input, offset)), "offset %d", i)
	}
	assert.Equal(t, source.ZeroIndexed(len(input)), OffsetOf(input, protocol.Position{Line: 9}))
	// past the end of the first line
	assert.Equal(t, source.ZeroIndexed(8), OffsetOf(input, protocol.Position{Line: 0, Character: 40}))
}

func TestRangeUsesPhysicalLines(t *testing.T) {
	g, ok := grammar.Lookup("config")
	require.True(t, ok)

	input := "s = \"\"\"a \\\n  b\"\"\"\nx = ?"
	result := g.Parse("test.toml", input)
	require.NotEmpty(t, result.Diagnostics)
	d := result.Diagnostics[0]
	require.Equal(t, source.OneIndexed(2), d.Location.Start.Line)

	r := Range(d.Location, result.Tracker)
	assert.Equal(t, protocol.UInteger(2), r.Start.Line)
	assert.Equal(t, protocol.UInteger(d.Location.Start.Column), r.Start.Character)
}

func TestDiagnostic(t *testing.T) {
	tracker := source.NewTracker("a.css", "@meda screen {}")
	d := diag.Diagnostic{
		Category: diag.CategoryStylesheet,
		Message:  `Unknown at-rule "@meda"`,
		Location: tracker.Location(0, 5),
		Advice:   []string{`did you mean "@media"?`},
	}

	got := Diagnostic(d, tracker)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 5},
	}, got.Range)
	require.NotNil(t, got.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *got.Severity)
	require.NotNil(t, got.Code)
	assert.Equal(t, "parse/css", got.Code.Value)
	require.NotNil(t, got.Source)
	assert.Equal(t, "parsecore", *got.Source)
	assert.Equal(t, "Unknown at-rule \"@meda\"\ndid you mean \"@media\"?", got.Message)
}

func TestPublish(t *testing.T) {
	ctx, sent := recorder(t)
	tracker := source.NewTracker("a.js", "x")
	d := diag.Diagnostic{Category: diag.CategoryScript, Message: "boom", Location: tracker.Location(0, 1)}

	Publish(ctx, "file:///a.js", 3, []diag.Diagnostic{d}, tracker)
	Publish(ctx, "file:///a.js", -1, nil, tracker)

	require.Len(t, *sent, 2)
	first := (*sent)[0]
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, first.method)
	assert.Equal(t, "file:///a.js", first.params.URI)
	require.NotNil(t, first.params.Version)
	assert.Equal(t, protocol.UInteger(3), *first.params.Version)
	require.Len(t, first.params.Diagnostics, 1)
	assert.Equal(t, "boom", first.params.Diagnostics[0].Message)

	second := (*sent)[1]
	assert.Nil(t, second.params.Version)
	assert.NotNil(t, second.params.Diagnostics)
	assert.Empty(t, second.params.Diagnostics)
}
