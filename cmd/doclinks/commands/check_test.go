package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/report"
)

func setupDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	t.Chdir(dir)
	return dir
}

func testGlobal(stdin string) (*Global, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: out,
		Stdin:  strings.NewReader(stdin),
	}, out
}

func TestCheckCmd_Clean(t *testing.T) {
	setupDocs(t, map[string]string{
		"docs/a.md": "# A\n\n[b](b.md#intro)\n",
		"docs/b.md": "# Intro\n",
	})
	g, out := testGlobal("")

	cmd := &CheckCmd{NoRepository: true}
	require.NoError(t, cmd.Run(context.Background(), g, &CLI{}))
	assert.Equal(t, "2 files checked, no issues found\n", out.String())
}

func TestCheckCmd_QuietClean(t *testing.T) {
	setupDocs(t, map[string]string{"docs/a.md": "# A\n\n[top](#a)\n"})
	g, out := testGlobal("")

	cmd := &CheckCmd{NoRepository: true, Quiet: true}
	require.NoError(t, cmd.Run(context.Background(), g, &CLI{}))
	assert.Empty(t, out.String())
}

func TestCheckCmd_ProblemsFound(t *testing.T) {
	setupDocs(t, map[string]string{"a.md": "# Hello World\n\n[x](#world)\n"})
	g, out := testGlobal("")

	cmd := &CheckCmd{Paths: []string{"a.md"}, NoRepository: true}
	err := cmd.Run(context.Background(), g, &CLI{})
	require.ErrorIs(t, err, ErrProblemsFound)
	assert.Contains(t, out.String(), "a.md\n  3:1  warning  Link to unknown heading: `world`  missing-heading\n")
	assert.Contains(t, out.String(), "1 file checked, 1 warning")
}

func TestCheckCmd_JSON(t *testing.T) {
	setupDocs(t, map[string]string{"a.md": "[x](missing.md)\n"})
	g, out := testGlobal("")

	cmd := &CheckCmd{Paths: []string{"a.md"}, NoRepository: true, Format: "json"}
	require.ErrorIs(t, cmd.Run(context.Background(), g, &CLI{}), ErrProblemsFound)

	var got report.JSONOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "a.md", got.Diagnostics[0].File)
	assert.Equal(t, "missing-file", string(got.Diagnostics[0].Rule))
}

func TestCheckCmd_InvalidFormat(t *testing.T) {
	setupDocs(t, map[string]string{"a.md": "# A\n"})
	g, _ := testGlobal("")

	cmd := &CheckCmd{Paths: []string{"a.md"}, NoRepository: true, Format: "xml"}
	require.Error(t, cmd.Run(context.Background(), g, &CLI{}))
}

func TestCheckCmd_Stdin(t *testing.T) {
	setupDocs(t, nil)
	g, out := testGlobal("# Title\n\n[a](#title)\n[b](#nope)\n")

	cmd := &CheckCmd{Paths: []string{"-"}, NoRepository: true}
	require.ErrorIs(t, cmd.Run(context.Background(), g, &CLI{}), ErrProblemsFound)
	assert.Contains(t, out.String(), "<stdin>\n  4:1  warning  Link to unknown heading: `nope`")
}

func TestCheckCmd_ConfigAndMetrics(t *testing.T) {
	dir := setupDocs(t, map[string]string{
		"a.md":           "[x](vendor/lib.md)\n\n[y](gone.md)\n",
		".doclinks.yaml": "repository: false\nignore:\n  - vendor/\noutput:\n  metrics_file: out.prom\n",
	})
	g, _ := testGlobal("")

	cmd := &CheckCmd{Paths: []string{"a.md"}}
	require.ErrorIs(t, cmd.Run(context.Background(), g, &CLI{}), ErrProblemsFound)

	data, err := os.ReadFile(filepath.Join(dir, "out.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `doclinks_diagnostics_total{rule="missing-file"} 1`)
}

func TestCheckCmd_ExplicitConfigMustExist(t *testing.T) {
	setupDocs(t, map[string]string{"a.md": "# A\n"})
	g, _ := testGlobal("")

	cmd := &CheckCmd{Paths: []string{"a.md"}}
	require.Error(t, cmd.Run(context.Background(), g, &CLI{Config: "nope.yaml"}))
}

func TestCLI_DefaultCommand(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Bind(&Global{}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"--no-repository", "-q", "docs", "README.md"})
	require.NoError(t, err)
	assert.Equal(t, "check <paths>", kctx.Command())
	assert.Equal(t, []string{"docs", "README.md"}, cli.Check.Paths)
	assert.True(t, cli.Check.NoRepository)
	assert.True(t, cli.Check.Quiet)
}

func TestInitCmd(t *testing.T) {
	dir := setupDocs(t, nil)
	g, out := testGlobal("")

	require.NoError(t, (&InitCmd{}).Run(g, &CLI{}))
	assert.FileExists(t, filepath.Join(dir, ".doclinks.yaml"))
	assert.Equal(t, "Wrote .doclinks.yaml\n", out.String())

	require.Error(t, (&InitCmd{}).Run(g, &CLI{}))
	require.NoError(t, (&InitCmd{Force: true}).Run(g, &CLI{}))
}
