package diag

import (
	"fmt"
	"strings"

	"github.com/dhamidi/parsecore/source"
	"golang.org/x/text/width"
)

// Display renders a diagnostic with a code frame: the offending line, the
// lines around it, and a marker row underlining the location.
func Display(d Diagnostic, tracker *source.Tracker, color bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s", d.Location, d.Category)
	b.WriteString(paint(header, "1;39", color))
	b.WriteString("\n")

	line := d.Location.Start.Line
	if tracker != nil && line >= 1 && int(line) <= tracker.LineCount() {
		if line > 1 {
			writeFrameLine(&b, line.Decrement(), tracker.LineText(line.Decrement()), color)
		}
		text := tracker.LineText(line)
		writeFrameLine(&b, line, text, color)

		startCol := int(d.Location.Start.Column)
		endCol := len(text)
		if d.Location.End.Line == line {
			endCol = int(d.Location.End.Column)
		}
		pad := displayWidth(prefix(text, startCol))
		span := displayWidth(slice(text, startCol, endCol))
		if span < 1 {
			span = 1
		}
		marker := strings.Repeat(" ", pad) + strings.Repeat("^", span)
		if d.Location.End.Line > line {
			marker += fmt.Sprintf(" +%d more lines", d.Location.End.Line-line)
		}
		b.WriteString(strings.Repeat(" ", gutterWidth))
		b.WriteString(paint(marker, "1;31", color))
		b.WriteString("\n")

		if int(line) < tracker.LineCount() {
			writeFrameLine(&b, line.Increment(), tracker.LineText(line.Increment()), color)
		}
	}

	b.WriteString("\n")
	b.WriteString(paint(d.Message, "1;31", color))
	b.WriteString("\n")
	for _, advice := range d.Advice {
		b.WriteString(paint("  - note:", "1;36", color))
		b.WriteString(" ")
		b.WriteString(advice)
		b.WriteString("\n")
	}
	return b.String()
}

// " 12  | " is the gutter printed before each source line.
const gutterWidth = 7

func writeFrameLine(b *strings.Builder, line source.OneIndexed, text string, color bool) {
	b.WriteString(paint(fmt.Sprintf(" %-4d| ", line), "90", color))
	b.WriteString(strings.ReplaceAll(text, "\t", "    "))
	b.WriteString("\n")
}

func paint(s, code string, color bool) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func prefix(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	if n < 0 {
		n = 0
	}
	return s[:n]
}

func slice(s string, start, end int) string {
	if start > len(s) {
		start = len(s)
	}
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if end < start {
		end = start
	}
	return s[start:end]
}

// displayWidth counts terminal cells, with East Asian wide runes taking two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			if r == '\t' {
				n += 4
			} else {
				n++
			}
		}
	}
	return n
}
