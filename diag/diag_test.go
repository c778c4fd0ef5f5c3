package diag

import (
	"strings"
	"testing"

	"github.com/dhamidi/parsecore/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAppendOnly(t *testing.T) {
	var s Sink
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.All())

	d := Diagnostic{Category: CategoryConfig, Message: "first"}
	s.Add(d)
	s.Add(d)
	require.Equal(t, 2, s.Len(), "sink must not deduplicate")

	all := s.All()
	all[0].Message = "mutated"
	assert.Equal(t, "first", s.All()[0].Message)

	s.Add(Diagnostic{Message: "third"})
	s.Rewind(1)
	assert.Equal(t, 1, s.Len())
	assert.Panics(t, func() { s.Rewind(5) })
}

func TestSuggest(t *testing.T) {
	candidates := []string{"media", "import", "keyframes", "font-face"}

	got, ok := Suggest("medai", candidates)
	require.True(t, ok)
	assert.Equal(t, "media", got)

	got, ok = Suggest("keyframe", candidates)
	require.True(t, ok)
	assert.Equal(t, "keyframes", got)

	_, ok = Suggest("media", candidates)
	assert.False(t, ok, "exact matches are not suggestions")

	_, ok = Suggest("totally-unrelated", candidates)
	assert.False(t, ok)

	_, ok = Suggest("x", nil)
	assert.False(t, ok)
}

func TestDisplay(t *testing.T) {
	input := "a {\n  colr: red;\n}\n"
	tr := source.NewTracker("style.css", input)
	d := Diagnostic{
		Category: CategoryStylesheet,
		Message:  "Unknown property",
		Location: tr.Location(6, 10),
		Advice:   []string{"Did you mean color?"},
	}

	out := Display(d, tr, false)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "style.css:2:2 parse/css", lines[0])
	assert.Equal(t, " 1   | a {", lines[1])
	assert.Equal(t, " 2   |   colr: red;", lines[2])
	assert.Equal(t, "         ^^^^", lines[3])
	assert.Equal(t, " 3   | }", lines[4])
	assert.Contains(t, out, "Unknown property")
	assert.Contains(t, out, "note: Did you mean color?")
	assert.NotContains(t, out, "\x1b[")

	colored := Display(d, tr, true)
	assert.Contains(t, colored, "\x1b[1;31m")
}

func TestDisplayWideRunes(t *testing.T) {
	input := "日本 x"
	tr := source.NewTracker("", input)
	start := source.ZeroIndexed(strings.Index(input, "x"))
	d := Diagnostic{Message: "m", Location: tr.Location(start, start.Increment())}

	out := Display(d, tr, false)
	lines := strings.Split(out, "\n")
	// two wide runes take four cells, plus the space
	assert.Equal(t, strings.Repeat(" ", gutterWidth+5)+"^", lines[2])
}

func TestDisplayWithoutSource(t *testing.T) {
	d := Diagnostic{Category: CategoryScript, Message: "boom"}
	out := Display(d, nil, false)
	assert.Contains(t, out, "boom")
}
