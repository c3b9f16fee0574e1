package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/fileset"
	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/reconcile"
)

var base = filepath.FromSlash("/repo")

func sampleResult() *linkcheck.Result {
	return &linkcheck.Result{
		RunID:      "run-1",
		Files:      []string{filepath.Join(base, "a.md"), filepath.Join(base, "docs", "b.md")},
		References: 4,
		Diagnostics: []reconcile.Diagnostic{
			{File: filepath.Join(base, "a.md"), Position: markdown.Position{Line: 3, Column: 1}, Message: "Link to unknown heading: `world`", Rule: reconcile.RuleMissingHeading, URL: "#world"},
			{File: filepath.Join(base, "a.md"), Position: markdown.Position{Line: 5, Column: 7}, Message: "Link to unknown file: `c.md`", Rule: reconcile.RuleMissingFile, URL: "c.md"},
			{File: filepath.Join(base, "docs", "b.md"), Position: markdown.Position{Line: 1, Column: 1}, Message: "Link to unknown file: `x.md`. Did you mean `y.md`", Rule: reconcile.RuleMissingFile, URL: "x.md", Suggestion: "y.md"},
		},
		Errors: []*fileset.FileError{{Path: filepath.Join(base, "bin.md"), Err: errors.New("content is not valid UTF-8")}},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text", base, false).Format(&buf, sampleResult()))

	want := "a.md\n" +
		"  3:1  warning  Link to unknown heading: `world`  missing-heading\n" +
		"  5:7  warning  Link to unknown file: `c.md`  missing-file\n" +
		"\n" +
		"docs/b.md\n" +
		"  1:1  warning  Link to unknown file: `x.md`. Did you mean `y.md`  missing-file\n" +
		"\n" +
		"bin.md\n" +
		"  error  content is not valid UTF-8\n" +
		"\n" +
		"2 files checked, 3 warnings, 1 file error\n"
	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_Clean(t *testing.T) {
	res := &linkcheck.Result{Files: []string{filepath.Join(base, "a.md")}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text", base, false).Format(&buf, res))
	assert.Equal(t, "1 file checked, no issues found\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter("text", base, true).Format(&buf, res))
	assert.Empty(t, buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json", base, false).Format(&buf, sampleResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, 2, out.FilesTotal)
	assert.Equal(t, 4, out.References)
	assert.Equal(t, 3, out.WarningCount)
	assert.Equal(t, 1, out.ErrorCount)
	require.Len(t, out.Diagnostics, 3)
	assert.Equal(t, JSONDiagnostic{
		File: "docs/b.md", Line: 1, Column: 1, Rule: reconcile.RuleMissingFile,
		Message: "Link to unknown file: `x.md`. Did you mean `y.md`", URL: "x.md", Suggestion: "y.md",
	}, out.Diagnostics[2])
	assert.Equal(t, []JSONFileError{{File: "bin.md", Error: "content is not valid UTF-8"}}, out.Errors)
}

func TestJSONFormatter_EmptyDiagnosticsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json", base, false).Format(&buf, &linkcheck.Result{}))
	assert.Contains(t, buf.String(), `"diagnostics": []`)
	assert.NotContains(t, buf.String(), `"errors"`)
}

func TestDisplayFile(t *testing.T) {
	assert.Equal(t, "<stdin>", displayFile(base, ""))
	assert.Equal(t, "a.md", displayFile(base, filepath.Join(base, "a.md")))
	outside := filepath.FromSlash("/elsewhere/x.md")
	assert.Equal(t, "/elsewhere/x.md", displayFile(base, outside))
}
