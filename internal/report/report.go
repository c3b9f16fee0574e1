// Package report renders link check results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
	"git.home.luguber.info/inful/doclinks/internal/reconcile"
)

// Formatter writes a result.
type Formatter interface {
	Format(w io.Writer, res *linkcheck.Result) error
}

// NewFormatter returns the formatter for format ("text" or "json"). Paths
// are printed relative to base when possible.
func NewFormatter(format, base string, quiet bool) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{Base: base}
	default:
		return &TextFormatter{Base: base, Quiet: quiet}
	}
}

// TextFormatter groups diagnostics by file:
//
//	docs/a.md
//	  3:1  warning  Link to unknown heading: `world`  missing-heading
type TextFormatter struct {
	Base  string
	Quiet bool // omit the summary for clean runs
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, res *linkcheck.Result) error {
	current := ""
	for i, d := range res.Diagnostics {
		if i == 0 || d.File != current {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			current = d.File
			if _, err := fmt.Fprintln(w, displayFile(f.Base, d.File)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %d:%d  warning  %s  %s\n", d.Position.Line, d.Position.Column, d.Message, d.Rule); err != nil {
			return err
		}
	}

	if len(res.Errors) > 0 {
		if len(res.Diagnostics) > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, fe := range res.Errors {
			if _, err := fmt.Fprintf(w, "%s\n  error  %v\n", displayFile(f.Base, fe.Path), fe.Err); err != nil {
				return err
			}
		}
	}

	if f.Quiet && res.Clean() {
		return nil
	}
	if len(res.Diagnostics) > 0 || len(res.Errors) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summary(res))
	return err
}

func summary(res *linkcheck.Result) string {
	parts := []string{fmt.Sprintf("%d file%s checked", len(res.Files), pluralize(len(res.Files)))}
	if n := len(res.Diagnostics); n > 0 {
		parts = append(parts, fmt.Sprintf("%d warning%s", n, pluralize(n)))
	}
	if n := len(res.Errors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d file error%s", n, pluralize(n)))
	}
	if res.Clean() {
		parts = append(parts, "no issues found")
	}
	return strings.Join(parts, ", ")
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Base string
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	RunID        string           `json:"run_id"`
	FilesTotal   int              `json:"files_total"`
	References   int              `json:"references"`
	WarningCount int              `json:"warning_count"`
	ErrorCount   int              `json:"error_count"`
	Diagnostics  []JSONDiagnostic `json:"diagnostics"`
	Errors       []JSONFileError  `json:"errors,omitempty"`
}

// JSONDiagnostic is one diagnostic in JSON format.
type JSONDiagnostic struct {
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Column     int            `json:"column"`
	Rule       reconcile.Rule `json:"rule"`
	Message    string         `json:"message"`
	URL        string         `json:"url"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// JSONFileError is a document that could not be checked.
type JSONFileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, res *linkcheck.Result) error {
	out := JSONOutput{
		RunID:        res.RunID,
		FilesTotal:   len(res.Files),
		References:   res.References,
		WarningCount: len(res.Diagnostics),
		ErrorCount:   len(res.Errors),
		Diagnostics:  make([]JSONDiagnostic, 0, len(res.Diagnostics)),
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, JSONDiagnostic{
			File:       displayFile(f.Base, d.File),
			Line:       d.Position.Line,
			Column:     d.Position.Column,
			Rule:       d.Rule,
			Message:    d.Message,
			URL:        d.URL,
			Suggestion: d.Suggestion,
		})
	}
	for _, fe := range res.Errors {
		out.Errors = append(out.Errors, JSONFileError{File: displayFile(f.Base, fe.Path), Error: fe.Err.Error()})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func displayFile(base, path string) string {
	if path == "" {
		return "<stdin>"
	}
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
