package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitOK},
		{name: "validation", err: ValidationError("bad threshold").Build(), expected: ExitUsage},
		{name: "no repository", err: GitError("could not find remote origin").Build(), expected: ExitFailure},
		{name: "config", err: ConfigError("bad repository").Build(), expected: ExitFailure},
		{name: "filesystem", err: FileSystemError("unreadable").Build(), expected: ExitFileSystem},
		{name: "internal", err: InternalError("boom").Build(), expected: ExitInternal},
		{name: "unclassified", err: errors.New("unknown"), expected: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var code int

	adapter := NewCLIErrorAdapter(false, nil)
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(GitError("could not find remote origin").Build())

	if code != ExitFailure {
		t.Errorf("expected exit %d, got %d", ExitFailure, code)
	}
	if !strings.Contains(out.String(), "repository: false") {
		t.Errorf("expected hint about repository: false, got %q", out.String())
	}
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	err := ParseError("bad document").WithCause(errors.New("eof")).Build()

	if got := NewCLIErrorAdapter(true, nil).FormatError(err); got != "[parse:error] bad document: eof" {
		t.Errorf("unexpected verbose format %q", got)
	}
	if got := NewCLIErrorAdapter(false, nil).FormatError(err); got != "Error: bad document: eof" {
		t.Errorf("unexpected terse format %q", got)
	}
}
