package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bddview/pkg/bdd"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/graph"
)

// runCLI executes the root command with args in an isolated environment and
// returns the status output and the log output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, logs bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "drawing")

	out, _, err := runCLI(t, "render", bdd.ExampleText, "-f", "svg,json,dot", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, out, "Render complete")

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(svg), "<circle"))

	l, err := graph.ReadLayoutFile(base + ".json")
	require.NoError(t, err)
	assert.Equal(t, 800.0, l.Width)
	assert.Len(t, l.Nodes, 4)

	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph")
}

func TestRenderCommandFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nodes.txt")
	require.NoError(t, os.WriteFile(in, []byte("0;1;2,a,0,1\n"), 0o644))
	outPath := filepath.Join(dir, "a.svg")

	_, _, err := runCLI(t, "render", "-i", in, "-o", outPath, "--width", "200", "--height", "100")
	require.NoError(t, err)

	svg, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(svg), "<circle"))
}

func TestRenderCommandWarnsOnMalformedInput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "bad.svg")
	out, logs, err := runCLI(t, "render", "0;1;2,x,0,zz", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, logs, "unresolved_ref")
	assert.Contains(t, out, "problems in the node list")
	assert.FileExists(t, outPath)
}

func TestRenderCommandStrict(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "bad.svg")
	_, _, err := runCLI(t, "render", "a;1", "--strict", "-o", outPath)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
	assert.NoFileExists(t, outPath)
}

func TestRenderCommandRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"UnknownFormat", []string{"-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"UnknownType", []string{"-t", "tower"}, errs.ErrCodeInvalidVizType},
		{"NaNWidth", []string{"--width", "NaN"}, errs.ErrCodeInvalidInput},
		{"InfiniteHeight", []string{"--height", "Inf"}, errs.ErrCodeInvalidInput},
		{"SeveralToStdout", []string{"-f", "svg,png", "-o", "-"}, errs.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", bdd.ExampleText, "--no-cache", "-o", filepath.Join(t.TempDir(), "x")}, tt.args...)
			_, _, err := runCLI(t, args...)
			assert.True(t, errs.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestRenderCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bddview.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[output]\nformats = [\"svg\", \"dot\"]\n[cache]\nbackend = \"none\"\n"), 0o644))

	base := filepath.Join(dir, "cfg")
	_, _, err := runCLI(t, "--config", cfg, "render", bdd.ExampleText, "-o", base)
	require.NoError(t, err)
	assert.FileExists(t, base+".svg")
	assert.FileExists(t, base+".dot")
}

func TestBadConfigFails(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "bddview.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[output]\nformats = [\"gif\"]\n"), 0o644))

	_, _, err := runCLI(t, "--config", cfg, "demo", "-o", filepath.Join(t.TempDir(), "x.svg"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
}

func TestLayoutThenVisualize(t *testing.T) {
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "bdd.layout.json")

	out, _, err := runCLI(t, "layout", bdd.ExampleText, "-o", layoutPath, "--width", "300", "--height", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "bddview visualize "+layoutPath)

	l, err := graph.ReadLayoutFile(layoutPath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, l.Width, 300.0)
	assert.Equal(t, 300.0, l.Height)

	_, _, err = runCLI(t, "visualize", layoutPath, "-f", "svg,dot")
	require.NoError(t, err)

	svg, err := os.ReadFile(filepath.Join(dir, "bdd.svg"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(svg), "<circle"))
	assert.FileExists(t, filepath.Join(dir, "bdd.dot"))
}

func TestVisualizeMissingLayout(t *testing.T) {
	_, _, err := runCLI(t, "visualize", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "example.svg")
	_, _, err := runCLI(t, "demo", "-o", outPath)
	require.NoError(t, err)

	svg, err := os.ReadFile(outPath)
	require.NoError(t, err)
	for _, label := range []string{">x1<", ">x2<", ">0<", ">1<"} {
		assert.Contains(t, string(svg), label)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "bddview.yaml")
	cacheDir := filepath.Join(dir, "cache")
	require.NoError(t, os.WriteFile(cfg, []byte("cache:\n  dir: "+cacheDir+"\n"), 0o644))

	out, _, err := runCLI(t, "--config", cfg, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, cacheDir+"\n", out)

	out, _, err = runCLI(t, "--config", cfg, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	_, _, err = runCLI(t, "--config", cfg, "render", bdd.ExampleText, "-o", filepath.Join(dir, "x.svg"))
	require.NoError(t, err)

	out, _, err = runCLI(t, "--config", cfg, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 cached entries")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bddview")

	_, _, err = runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}
