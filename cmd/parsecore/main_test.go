package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/parsecore/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLoadConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.toml": "color = \"never\"\nworkers = 3\n\n[extensions]\n\".conf\" = \"toml\"\n",
		"b.yaml": "color: always\nverbosity: 2\nworkers: 1\nextensions:\n  .jsx: js\n",
		"c.toml": "color = \"sometimes\"\n",
		"d.yml":  "extensions:\n  .x: cobol\n",
		"e.json": "{}",
	})

	cfg, err := loadConfig(filepath.Join(dir, "a.toml"), dir)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, map[string]string{".conf": "toml"}, cfg.Extensions)

	cfg, err = loadConfig(filepath.Join(dir, "b.yaml"), dir)
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Color)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, map[string]string{".jsx": "js"}, cfg.Extensions)

	_, err = loadConfig(filepath.Join(dir, "c.toml"), dir)
	assert.ErrorContains(t, err, "unknown color mode: sometimes")

	_, err = loadConfig(filepath.Join(dir, "d.yml"), dir)
	assert.ErrorIs(t, err, grammar.ErrUnknown)

	_, err = loadConfig(filepath.Join(dir, "e.json"), dir)
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = loadConfig(filepath.Join(dir, "missing.toml"), dir)
	assert.ErrorContains(t, err, "read config")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	dir := writeFiles(t, map[string]string{".parsecore.yaml": "workers: 5\n"})
	cfg, err = loadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "auto", cfg.Color)
}

func TestParseCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.css":  "a { color: red; }",
		"bad.css": "@meda screen {}",
	})

	stdout, stderr, err := run(t, "", "parse", filepath.Join(dir, "ok.css"))
	require.NoError(t, err)
	assert.Contains(t, stdout, `"type": "StyleRule"`)
	assert.Empty(t, stderr)

	stdout, stderr, err = run(t, "", "--color", "never", "parse", "-q", filepath.Join(dir, "bad.css"))
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `Unknown at-rule "@meda"`)
	assert.Contains(t, stderr, `did you mean "@media"?`)
	assert.NotContains(t, stderr, "\x1b[")
}

func TestParseStdin(t *testing.T) {
	stdout, _, err := run(t, "let x = 1", "parse", "-g", "js", "-f", "dump", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "script.VariableDeclaration")

	_, _, err = run(t, "let x = 1", "parse", "-")
	assert.ErrorContains(t, err, "needs --grammar")

	_, _, err = run(t, "", "parse", "-g", "cobol", "-")
	assert.ErrorIs(t, err, grammar.ErrUnknown)
}

func TestParseUnknownExtension(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "hello"})
	_, _, err := run(t, "", "parse", filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, grammar.ErrUnknown)
}

func TestTokensCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.toml": "a = 1"})
	stdout, _, err := run(t, "", "tokens", filepath.Join(dir, "a.toml"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "1:0-1:1\ttext\t\"a\"\ta", lines[0])
}

func TestCheckCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"site/main.css":         "a { color: red; }",
		"site/broken.css":       "a { color red }",
		"docs/README.md":        "# Title\n\nSome text.\n",
		"src/index.js":          "let x = 1\n",
		"src/broken.js":         "retrun x\n",
		"config.toml":           "a = 1\n",
		"notes.txt":             "ignored",
		".hidden/skipped.js":    "retrun x\n",
		"tests/spec.snap.md":    "# a\n\n```\nx\n```\n",
		"tests/dup.snap":        "# a\n\n```\nx\n```\n\n# a\n\n```\ny\n```\n",
		"site/vendor/other.css": "b {}",
	})

	stdout, stderr, err := run(t, "", "--color", "never", "check", "-j", "3", "--lines", dir)
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stdout, filepath.Join(dir, "site", "broken.css")+":1:")
	assert.Contains(t, stdout, "Unknown keyword \"retrun\"")
	assert.Contains(t, stdout, "Duplicate snapshot")
	assert.NotContains(t, stdout, ".hidden")
	assert.Contains(t, stderr, "checked 9 files:")
	assert.Contains(t, stderr, "in 3 files")
}

func TestCheckCommandClean(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.css":  "a {}",
		"b.toml": "x = [1, 2]\n",
	})
	_, stderr, err := run(t, "", "check", filepath.Join(dir, "a.css"), filepath.Join(dir, "b.toml"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "checked 2 files: 0 diagnostics in 0 files")
}

func TestCheckConfigOverrides(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"cfg.yaml":    "extensions:\n  .conf: toml\n",
		"server.conf": "port = \n",
	})
	_, stderr, err := run(t, "", "--config", filepath.Join(dir, "cfg.yaml"), "check", filepath.Join(dir, "server.conf"))
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "parse/toml")
}

func TestCheckNamedFileWithoutGrammar(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "x"})
	_, stderr, err := run(t, "", "check", filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, stderr, "no grammar for extension")
}

func TestCheckFilesCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.css": "a {}", "b.css": "b {}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{filepath.Join(dir, "a.css"), filepath.Join(dir, "b.css")}
	results := checkFiles(ctx, files, grammar.Resolver{}, 1)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, files[i], r.path)
		if r.err != nil {
			assert.ErrorIs(t, r.err, context.Canceled)
		}
	}
}

func TestCheckFilesKeepsOrder(t *testing.T) {
	files := map[string]string{}
	var paths []string
	for _, name := range []string{"a.css", "b.js", "c.toml", "d.md", "e.snap"} {
		files[name] = ""
	}
	dir := writeFiles(t, files)
	for _, name := range []string{"a.css", "b.js", "c.toml", "d.md", "e.snap"} {
		paths = append(paths, filepath.Join(dir, name))
	}

	results := checkFiles(context.Background(), paths, grammar.Resolver{}, 4)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.path)
		require.NoError(t, r.err)
		assert.True(t, r.result.OK(), "%s: %v", r.path, r.result.Diagnostics)
	}
}

func TestGrammarsCommand(t *testing.T) {
	stdout, _, err := run(t, "", "grammars")
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	for _, name := range grammar.Names() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, ".snap.md")
}
