package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/grammar"
	"github.com/dhamidi/parsecore/source"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

type jsonResult struct {
	Grammar     string            `json:"grammar"`
	Path        string            `json:"path"`
	Root        any               `json:"root"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

type jsonToken struct {
	Kind  string          `json:"kind"`
	Text  string          `json:"text"`
	Span  source.Location `json:"span"`
	Value any             `json:"value,omitempty"`
}

func (e *JSONEncoder) Encode(result grammar.Result) error {
	diagnostics := result.Diagnostics
	if diagnostics == nil {
		diagnostics = []diag.Diagnostic{}
	}
	return e.write(jsonResult{
		Grammar:     result.Grammar,
		Path:        result.Tracker.Path(),
		Root:        nodeToJSON(result.Root),
		Diagnostics: diagnostics,
	})
}

func (e *JSONEncoder) EncodeTokens(tokens []grammar.Token, tracker *source.Tracker) error {
	out := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		out[i] = jsonToken{
			Kind:  tok.Kind,
			Text:  tok.Text(tracker.Input()),
			Span:  tracker.Location(tok.Start, tok.End),
			Value: tok.Value,
		}
	}
	return e.write(out)
}

func (e *JSONEncoder) write(v any) error {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}
