// Package grammar is the registry of the grammars in its subpackages. It
// resolves a grammar by name or by file path and presents parse results and
// token streams in one shape regardless of the grammar that produced them.
package grammar

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/grammar/config"
	"github.com/dhamidi/parsecore/grammar/document"
	"github.com/dhamidi/parsecore/grammar/script"
	"github.com/dhamidi/parsecore/grammar/snapshot"
	"github.com/dhamidi/parsecore/grammar/stylesheet"
	"github.com/dhamidi/parsecore/parser"
	"github.com/dhamidi/parsecore/source"
)

var ErrUnknown = errors.New("unknown grammar")

// Token is a grammar-independent view of a token. Kind is the name the
// grammar gives its token kind.
type Token struct {
	Kind  string             `json:"kind"`
	Start source.ZeroIndexed `json:"start"`
	End   source.ZeroIndexed `json:"end"`
	Value any                `json:"value,omitempty"`
}

// Text returns the raw source text of the token.
func (t Token) Text(input string) string {
	if t.Start < 0 || int(t.End) > len(input) || t.End < t.Start {
		return ""
	}
	return input[t.Start:t.End]
}

type Result struct {
	Grammar     string            `json:"grammar"`
	Root        parser.Root       `json:"root"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	// Tracker maps offsets of the parsed input to positions using the
	// grammar's line rules.
	Tracker *source.Tracker `json:"-"`
}

func (r Result) OK() bool { return len(r.Diagnostics) == 0 }

type Grammar struct {
	Name       string
	Aliases    []string
	Category   diag.Category
	Extensions []string

	escaped source.EscapedNewlineFunc
	parse   func(path, input string) (parser.Root, []diag.Diagnostic)
	tokens  func(path, input string) []Token
}

func (g *Grammar) Parse(path, input string) Result {
	root, diagnostics := g.parse(path, input)
	return Result{
		Grammar:     g.Name,
		Root:        root,
		Diagnostics: diagnostics,
		Tracker:     g.Tracker(path, input),
	}
}

// Tokens returns every token of input including whitespace and the final
// EOF token.
func (g *Grammar) Tokens(path, input string) []Token {
	return g.tokens(path, input)
}

// Tracker returns a position tracker that agrees with the positions the
// grammar reports in its diagnostics.
func (g *Grammar) Tracker(path, input string) *source.Tracker {
	if g.escaped == nil {
		return source.NewTracker(path, input)
	}
	return source.NewTracker(path, input, source.WithEscapedNewline(g.escaped))
}

func (g *Grammar) String() string { return g.Name }

func convert[K parser.Kind](tokens []parser.Token[K]) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{Kind: tok.Kind.String(), Start: tok.Start, End: tok.End, Value: tok.Value}
	}
	return out
}

var registry = sync.OnceValue(func() []*Grammar {
	return []*Grammar{
		{
			Name:       "config",
			Aliases:    []string{"toml"},
			Category:   diag.CategoryConfig,
			Extensions: []string{".toml"},
			escaped:    config.EscapedNewlines,
			parse: func(path, input string) (parser.Root, []diag.Diagnostic) {
				root := config.Parse(path, input)
				return root, root.Diagnostics
			},
			tokens: func(path, input string) []Token { return convert(config.Tokens(path, input)) },
		},
		{
			Name:       "document",
			Aliases:    []string{"markdown", "md"},
			Category:   diag.CategoryDocument,
			Extensions: []string{".md", ".markdown"},
			parse: func(path, input string) (parser.Root, []diag.Diagnostic) {
				root := document.Parse(path, input)
				return root, root.Diagnostics
			},
			tokens: func(path, input string) []Token { return convert(document.Tokens(path, input)) },
		},
		{
			Name:       "stylesheet",
			Aliases:    []string{"css"},
			Category:   diag.CategoryStylesheet,
			Extensions: []string{".css"},
			escaped:    stylesheet.EscapedNewlines,
			parse: func(path, input string) (parser.Root, []diag.Diagnostic) {
				root := stylesheet.Parse(path, input)
				return root, root.Diagnostics
			},
			tokens: func(path, input string) []Token { return convert(stylesheet.Tokens(path, input)) },
		},
		{
			Name:       "snapshot",
			Aliases:    []string{"snapshots", "snap"},
			Category:   diag.CategorySnapshot,
			Extensions: []string{".snap", ".snap.md"},
			parse: func(path, input string) (parser.Root, []diag.Diagnostic) {
				root := snapshot.Parse(path, input)
				return root, root.Diagnostics
			},
			tokens: func(path, input string) []Token { return convert(snapshot.Tokens(path, input)) },
		},
		{
			Name:       "script",
			Aliases:    []string{"js", "javascript"},
			Category:   diag.CategoryScript,
			Extensions: []string{".js", ".mjs", ".cjs"},
			parse: func(path, input string) (parser.Root, []diag.Diagnostic) {
				root := script.Parse(path, input)
				return root, root.Diagnostics
			},
			tokens: func(path, input string) []Token { return convert(script.Tokens(path, input)) },
		},
	}
})

// All returns the registered grammars sorted by name.
func All() []*Grammar {
	out := append([]*Grammar(nil), registry()...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the name of every registered grammar, sorted.
func Names() []string {
	var names []string
	for _, g := range All() {
		names = append(names, g.Name)
	}
	return names
}

// Lookup finds a grammar by name, alias or diagnostic category. Case is
// ignored.
func Lookup(name string) (*Grammar, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, g := range registry() {
		if g.Name == name || string(g.Category) == name {
			return g, true
		}
		for _, alias := range g.Aliases {
			if alias == name {
				return g, true
			}
		}
	}
	return nil, false
}

// ForPath finds the grammar for a file by its extension. The longest
// matching extension wins, so "a.snap.md" is a snapshot file rather than a
// document.
func ForPath(path string) (*Grammar, bool) {
	base := strings.ToLower(filepath.Base(path))
	var (
		found *Grammar
		best  int
	)
	for _, g := range registry() {
		for _, ext := range g.Extensions {
			if len(ext) > best && strings.HasSuffix(base, ext) && len(base) > len(ext) {
				found, best = g, len(ext)
			}
		}
	}
	return found, found != nil
}

// Resolver picks grammars for paths, consulting user supplied extension
// overrides before the built-in table.
type Resolver struct {
	// Overrides maps an extension such as ".jsx" to a grammar name.
	Overrides map[string]string
}

// Resolve returns the grammar for path. An override naming an unknown
// grammar is an error rather than a silent fallback.
func (r Resolver) Resolve(path string) (*Grammar, error) {
	base := strings.ToLower(filepath.Base(path))
	var (
		override string
		best     int
	)
	for ext, name := range r.Overrides {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if len(ext) > best && strings.HasSuffix(base, ext) {
			override, best = name, len(ext)
		}
	}
	if override != "" {
		g, ok := Lookup(override)
		if !ok {
			return nil, fmt.Errorf("%s: override %q: %w", path, override, ErrUnknown)
		}
		return g, nil
	}
	g, ok := ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: no grammar for extension %q: %w", path, filepath.Ext(path), ErrUnknown)
	}
	return g, nil
}
