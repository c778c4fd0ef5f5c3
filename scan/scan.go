// Package scan holds character classes and escape helpers shared by the
// grammar tokenizers. Grammars decide for themselves what counts as an
// escaped line break; the helpers here only count and classify.
package scan

import (
	"strings"

	"github.com/dhamidi/parsecore/source"
)

// Predicate is the shape accepted by parser.Core.ReadInputFrom.
type Predicate = func(r rune, index source.ZeroIndexed, input string) bool

func IsNewline(r rune) bool { return r == '\n' || r == '\r' }
func IsBlank(r rune) bool   { return r == ' ' || r == '\t' }
func IsSpace(r rune) bool   { return IsBlank(r) || IsNewline(r) || r == '\f' }
func IsDigit(r rune) bool   { return '0' <= r && r <= '9' }
func IsLetter(r rune) bool  { return 'a' <= r|0x20 && r|0x20 <= 'z' }

func IsHexDigit(r rune) bool {
	return IsDigit(r) || ('a' <= r|0x20 && r|0x20 <= 'f')
}

// IsNameStart reports whether r may start an identifier. Runes outside
// ASCII are accepted so that non-English identifiers lex as one token.
func IsNameStart(r rune) bool {
	return IsLetter(r) || r == '_' || r >= 0x80
}

func IsNameChar(r rune) bool {
	return IsNameStart(r) || IsDigit(r)
}

var (
	Blanks   Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return IsBlank(r) }
	Spaces   Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return IsSpace(r) }
	Digits   Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return IsDigit(r) }
	Names    Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return IsNameChar(r) }
	NotEOL   Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return r != '\n' }
	AnyRune  Predicate = func(rune, source.ZeroIndexed, string) bool { return true }
	NotBlank Predicate = func(r rune, _ source.ZeroIndexed, _ string) bool { return !IsSpace(r) }
)

// Until returns a predicate that stops at the first rune in stop.
func Until(stop string) Predicate {
	return func(r rune, _ source.ZeroIndexed, _ string) bool {
		return !strings.ContainsRune(stop, r)
	}
}

// Backslashes counts the run of backslashes ending just before index i.
func Backslashes(input string, i int) int {
	n := 0
	for j := i - 1; j >= 0 && input[j] == '\\'; j-- {
		n++
	}
	return n
}

// Escaped reports whether the byte at i is preceded by an odd number of
// backslashes.
func Escaped(input string, i int) bool {
	return Backslashes(input, i)%2 == 1
}

// LastNonBlank returns the index of the last byte before i on the same line
// that is not a space, tab or carriage return, or -1 if there is none.
func LastNonBlank(input string, i int) int {
	for j := i - 1; j >= 0; j-- {
		switch input[j] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return -1
		}
		return j
	}
	return -1
}

// LineEnd returns the offset of the next '\n' at or after from, or the end
// of the input.
func LineEnd(input string, from int) int {
	if from >= len(input) {
		return len(input)
	}
	if i := strings.IndexByte(input[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(input)
}

// LineStart returns the offset of the first byte of the line containing i.
func LineStart(input string, i int) int {
	if i > len(input) {
		i = len(input)
	}
	return strings.LastIndexByte(input[:i], '\n') + 1
}

// AtLineStart reports whether only blanks precede i on its line.
func AtLineStart(input string, i int) bool {
	return strings.TrimLeft(input[LineStart(input, i):i], " \t") == ""
}
