package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/source"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("parsecore.parser")

type phase int

const (
	phaseStart phase = iota
	phaseRunning
	phaseEOF
	phaseFinalized
)

var phaseNames = map[phase]string{
	phaseStart:     "start",
	phaseRunning:   "running",
	phaseEOF:       "eof",
	phaseFinalized: "finalized",
}

func (p phase) String() string {
	return phaseNames[p]
}

// Core drives a grammar's tokenizer over one input and provides the
// primitives recursive-descent grammars are written against. A Core is used
// for exactly one parse.
type Core[K Kind, S any] struct {
	opts    Options[K, S]
	tracker *source.Tracker
	sink    diag.Sink

	current  Token[K]
	previous Token[K]
	consumed int

	offset     source.ZeroIndexed
	tokenStart source.ZeroIndexed
	state      S
	phase      phase
}

// New builds a core and tokenizes the first token.
func New[K Kind, S any](opts Options[K, S]) *Core[K, S] {
	if opts.Tokenize == nil {
		panic(contractf("New", "no tokenize function"))
	}
	var trackerOpts []source.TrackerOption
	if opts.EscapedNewline != nil {
		trackerOpts = append(trackerOpts, source.WithEscapedNewline(opts.EscapedNewline))
	}
	c := &Core[K, S]{
		opts:    opts,
		tracker: source.NewTracker(opts.Path, opts.Input, trackerOpts...),
	}
	if opts.InitialState != nil {
		c.state = opts.InitialState()
	}
	c.advance()
	return c
}

func (c *Core[K, S]) Input() string              { return c.opts.Input }
func (c *Core[K, S]) Path() string               { return c.opts.Path }
func (c *Core[K, S]) Category() diag.Category    { return c.opts.Category }
func (c *Core[K, S]) Tracker() *source.Tracker   { return c.tracker }
func (c *Core[K, S]) Offset() source.ZeroIndexed { return c.offset }
func (c *Core[K, S]) State() S                   { return c.state }

// Token returns the current token without consuming it.
func (c *Core[K, S]) Token() Token[K] { return c.current }

// Prev returns the most recently consumed token.
func (c *Core[K, S]) Prev() Token[K] { return c.previous }

func (c *Core[K, S]) AtEOF() bool {
	return c.current.Kind == c.opts.EOF
}

func (c *Core[K, S]) Match(kind K) bool {
	return c.current.Kind == kind
}

func (c *Core[K, S]) MatchAny(kinds ...K) bool {
	for _, kind := range kinds {
		if c.current.Kind == kind {
			return true
		}
	}
	return false
}

// Next consumes the current token and returns it. At EOF it keeps returning
// the EOF token without moving.
func (c *Core[K, S]) Next() Token[K] {
	c.requireActive("Next")
	tok := c.current
	if c.phase == phaseEOF {
		return tok
	}
	c.previous = tok
	c.consumed++
	c.advance()
	return tok
}

// Expect consumes the current token if it has the given kind. Otherwise it
// records a diagnostic and returns a zero-width token of that kind at the
// current position, leaving the stream where it was.
func (c *Core[K, S]) Expect(kind K) Token[K] {
	if c.current.Kind == kind {
		return c.Next()
	}
	c.Unexpected(fmt.Sprintf("Expected %s but found %s", kind, c.current.Kind))
	return Token[K]{Kind: kind, Start: c.current.Start, End: c.current.Start}
}

// Eat consumes the current token if it has the given kind.
func (c *Core[K, S]) Eat(kind K) (Token[K], bool) {
	if c.current.Kind != kind {
		return Token[K]{}, false
	}
	return c.Next(), true
}

// MustProgress guards a grammar loop. Call it at the start of an iteration
// and the returned function at the end: when nothing was consumed in between
// it skips the current token and reports false so the loop can stop.
func (c *Core[K, S]) MustProgress() func() bool {
	saved := c.consumed
	return func() bool {
		if c.consumed == saved {
			c.Next()
			return false
		}
		return true
	}
}

// SkipUntil consumes tokens until the current token has one of the given
// kinds or the stream reaches EOF.
func (c *Core[K, S]) SkipUntil(kinds ...K) {
	for !c.AtEOF() && !c.MatchAny(kinds...) {
		c.Next()
	}
}

// Lookahead returns the token after the current one without consuming
// anything. Diagnostics raised while tokenizing it are discarded.
func (c *Core[K, S]) Lookahead() Token[K] {
	c.requireActive("Lookahead")
	if c.phase == phaseEOF {
		return c.current
	}
	saved := c.Save()
	c.advance()
	next := c.current
	c.Restore(saved)
	return next
}

// TokenizeAt runs the tokenizer at offset with state without moving the
// stream. Diagnostics raised by the tokenizer are discarded.
func (c *Core[K, S]) TokenizeAt(offset source.ZeroIndexed, state S) (Token[K], S) {
	c.requireActive("TokenizeAt")
	saved := c.Save()
	defer c.Restore(saved)
	c.tokenStart = offset
	tok, next := c.opts.Tokenize(c, offset, state)
	c.checkToken(tok, offset)
	return tok, next
}

func (c *Core[K, S]) advance() {
	for {
		start := c.offset
		c.tokenStart = start
		tok, next := c.opts.Tokenize(c, start, c.state)
		c.checkToken(tok, start)
		c.offset = tok.End
		c.state = next
		if c.opts.IgnoreWhitespace && tok.Kind == c.opts.Whitespace {
			continue
		}
		c.current = tok
		break
	}
	if c.current.Kind == c.opts.EOF {
		c.phase = phaseEOF
	} else {
		c.phase = phaseRunning
	}
}

func (c *Core[K, S]) checkToken(tok Token[K], offset source.ZeroIndexed) {
	switch {
	case tok.Start < offset:
		panic(contractf("tokenize", "%s starts before tokenize offset %d", tok, offset))
	case tok.End < tok.Start:
		panic(contractf("tokenize", "%s ends before it starts", tok))
	case int(tok.End) > len(c.opts.Input):
		panic(contractf("tokenize", "%s ends past the input (%d bytes)", tok, len(c.opts.Input)))
	case tok.Kind != c.opts.EOF && tok.End <= offset:
		panic(contractf("tokenize", "%s at offset %d does not advance", tok, offset))
	}
}

func (c *Core[K, S]) requireActive(op string) {
	if c.phase == phaseFinalized {
		panic(contractf(op, "core already finalized"))
	}
}

// ReadInputFrom scans runes from offset while pred holds and returns the
// scanned text and the offset where scanning stopped. It always stops at the
// end of the input.
func (c *Core[K, S]) ReadInputFrom(offset source.ZeroIndexed, pred func(r rune, index source.ZeroIndexed, input string) bool) (string, source.ZeroIndexed) {
	input := c.opts.Input
	i := clampOffset(int(offset), len(input))
	start := i
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !pred(r, source.ZeroIndexed(i), input) {
			break
		}
		i += size
	}
	return input[start:i], source.ZeroIndexed(i)
}

// CharAt returns the byte at offset, or 0 past the end of the input.
func (c *Core[K, S]) CharAt(offset source.ZeroIndexed) byte {
	if offset < 0 || int(offset) >= len(c.opts.Input) {
		return 0
	}
	return c.opts.Input[offset]
}

// RuneAt decodes the rune at offset and returns it with its size in bytes.
func (c *Core[K, S]) RuneAt(offset source.ZeroIndexed) (rune, int) {
	if offset < 0 || int(offset) >= len(c.opts.Input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.opts.Input[offset:])
}

func (c *Core[K, S]) HasPrefixAt(offset source.ZeroIndexed, prefix string) bool {
	if offset < 0 || int(offset) > len(c.opts.Input) {
		return false
	}
	return strings.HasPrefix(c.opts.Input[offset:], prefix)
}

func (c *Core[K, S]) IsEOFAt(offset source.ZeroIndexed) bool {
	return int(offset) >= len(c.opts.Input)
}

// FinishToken builds a one-byte token starting where the current tokenize
// call began.
func (c *Core[K, S]) FinishToken(kind K) Token[K] {
	return c.FinishTokenAt(kind, c.tokenStart.Increment())
}

func (c *Core[K, S]) FinishTokenAt(kind K, end source.ZeroIndexed) Token[K] {
	return Token[K]{Kind: kind, Start: c.tokenStart, End: end}
}

func (c *Core[K, S]) FinishValueToken(kind K, value any, end source.ZeroIndexed) Token[K] {
	return Token[K]{Kind: kind, Start: c.tokenStart, End: end, Value: value}
}

// EOFToken is the terminal token at the end of the input.
func (c *Core[K, S]) EOFToken() Token[K] {
	end := c.tracker.End()
	return Token[K]{Kind: c.opts.EOF, Start: end, End: end}
}

// StartPosition is the position of the current token, used as the start of
// the node about to be parsed.
func (c *Core[K, S]) StartPosition() source.Position {
	return c.tracker.PositionOf(c.current.Start)
}

func (c *Core[K, S]) PositionAt(offset source.ZeroIndexed) source.Position {
	return c.tracker.PositionOf(offset)
}

func (c *Core[K, S]) finishLocation(op string, start source.Position) source.Location {
	if c.consumed == 0 {
		panic(contractf(op, "no token has been consumed"))
	}
	end := c.tracker.PositionOf(c.previous.End)
	if end.Before(start) {
		end = start
	}
	return source.Location{Path: c.opts.Path, Start: start, End: end}
}

// Unexpected describes a diagnostic. A nil Start or End defaults to the
// current token's range; an empty Description to "Unexpected <kind>".
type Unexpected struct {
	Description string
	Start       *source.ZeroIndexed
	End         *source.ZeroIndexed
	Advice      []string
}

// UnexpectedDiagnostic records a diagnostic and returns normally; recovery is
// left to the grammar.
func (c *Core[K, S]) UnexpectedDiagnostic(u Unexpected) {
	start, end := c.current.Start, c.current.End
	if u.Start != nil {
		start = *u.Start
		if u.End == nil {
			end = start
		}
	}
	if u.End != nil {
		end = *u.End
	}
	description := u.Description
	if description == "" {
		description = fmt.Sprintf("Unexpected %s", c.current.Kind)
	}
	c.sink.Add(diag.Diagnostic{
		Category: c.opts.Category,
		Message:  description,
		Location: c.tracker.Location(start, end),
		Advice:   u.Advice,
	})
}

func (c *Core[K, S]) Unexpected(description string) {
	c.UnexpectedDiagnostic(Unexpected{Description: description})
}

func (c *Core[K, S]) UnexpectedToken(tok Token[K], description string) {
	c.UnexpectedDiagnostic(Unexpected{Description: description, Start: &tok.Start, End: &tok.End})
}

func (c *Core[K, S]) UnexpectedRange(start, end source.ZeroIndexed, description string) {
	c.UnexpectedDiagnostic(Unexpected{Description: description, Start: &start, End: &end})
}

// UnexpectedNode records a diagnostic spanning an already finished node.
func (c *Core[K, S]) UnexpectedNode(node Node, description string, advice ...string) {
	c.sink.Add(diag.Diagnostic{
		Category: c.opts.Category,
		Message:  description,
		Location: node.Location(),
		Advice:   advice,
	})
}

// Diagnostics returns a copy of the diagnostics recorded so far.
func (c *Core[K, S]) Diagnostics() []diag.Diagnostic {
	return c.sink.All()
}

// Finalize ends the parse. It records a diagnostic when the stream has not
// reached EOF and returns every diagnostic of the parse.
func (c *Core[K, S]) Finalize() []diag.Diagnostic {
	c.requireActive("Finalize")
	if c.current.Kind != c.opts.EOF {
		c.Unexpected(fmt.Sprintf("Expected end of file but found %s", c.current.Kind))
	}
	c.phase = phaseFinalized
	log.Debugf("parsed %q (%s): %d tokens, %d diagnostics", c.opts.Path, c.opts.Category, c.consumed, c.sink.Len())
	return c.sink.All()
}

// Snapshot is a saved parser position used for backtracking.
type Snapshot[K Kind, S any] struct {
	owner       *Core[K, S]
	current     Token[K]
	previous    Token[K]
	consumed    int
	offset      source.ZeroIndexed
	tokenStart  source.ZeroIndexed
	state       S
	phase       phase
	diagnostics int
}

// Save captures the stream position, state and diagnostics count together.
func (c *Core[K, S]) Save() Snapshot[K, S] {
	return Snapshot[K, S]{
		owner:       c,
		current:     c.current,
		previous:    c.previous,
		consumed:    c.consumed,
		offset:      c.offset,
		tokenStart:  c.tokenStart,
		state:       c.state,
		phase:       c.phase,
		diagnostics: c.sink.Len(),
	}
}

// Restore rewinds to a snapshot taken from this core, dropping diagnostics
// recorded since.
func (c *Core[K, S]) Restore(s Snapshot[K, S]) {
	c.requireActive("Restore")
	if s.owner != c {
		panic(contractf("Restore", "snapshot belongs to another core"))
	}
	c.current = s.current
	c.previous = s.previous
	c.consumed = s.consumed
	c.offset = s.offset
	c.tokenStart = s.tokenStart
	c.state = s.state
	c.phase = s.phase
	c.sink.Rewind(s.diagnostics)
}

// Collect consumes the remaining tokens, including the final EOF.
func Collect[K Kind, S any](c *Core[K, S]) []Token[K] {
	var tokens []Token[K]
	for {
		tokens = append(tokens, c.Token())
		if c.AtEOF() {
			return tokens
		}
		c.Next()
	}
}

func clampOffset(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
