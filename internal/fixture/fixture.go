// Package fixture loads the YAML corpora of known-valid and known-invalid
// inputs that grammar tests run against.
package fixture

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/dhamidi/parsecore/diag"
	"github.com/dhamidi/parsecore/source"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

type Case struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	// Messages lists substrings expected among the diagnostic messages of
	// an invalid case.
	Messages []string `yaml:"messages,omitempty"`
}

type Corpus struct {
	Valid   []Case `yaml:"valid"`
	Invalid []Case `yaml:"invalid"`
}

func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	return &corpus, nil
}

// ParseFunc parses one input and returns its diagnostics.
type ParseFunc func(path, input string) []diag.Diagnostic

// Run checks that every valid case parses without diagnostics and every
// invalid case produces at least one diagnostic located inside the input.
func Run(t *testing.T, path string, parse ParseFunc) {
	t.Helper()
	corpus, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range corpus.Valid {
		t.Run("valid/"+c.Name, func(t *testing.T) {
			diagnostics := parse(c.Name, c.Input)
			assert.Empty(t, diagnostics, "input:\n%s", c.Input)
		})
	}
	for _, c := range corpus.Invalid {
		t.Run("invalid/"+c.Name, func(t *testing.T) {
			diagnostics := parse(c.Name, c.Input)
			if !assert.NotEmpty(t, diagnostics, "input:\n%s", c.Input) {
				return
			}
			tracker := source.NewTracker(c.Name, c.Input)
			end := tracker.PositionOf(tracker.End())
			var messages []string
			for _, d := range diagnostics {
				assert.True(t, d.Location.Valid(), "location %v", d.Location)
				assert.False(t, end.Before(d.Location.End), "location %v past end %v", d.Location, end)
				messages = append(messages, d.Message)
			}
			joined := strings.Join(messages, "\n")
			for _, want := range c.Messages {
				assert.Contains(t, joined, want)
			}
		})
	}
}
