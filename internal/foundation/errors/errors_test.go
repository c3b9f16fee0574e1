package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", ".doclinks.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != ".doclinks.yaml" {
			t.Errorf("expected context file=.doclinks.yaml, got %v", file)
		}
	})

	t.Run("Wrapped detection", func(t *testing.T) {
		cause := errors.New("exit status 128")
		err := fmt.Errorf("resolve host: %w", GitError("could not find remote origin").WithCause(cause).Build())

		if !HasCategory(err, CategoryGit) {
			t.Error("expected git category through fmt wrapping")
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause to be reachable")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to be internal")
		}
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := ParseError("bad document").Build()
		derived := base.WithContext("path", "a.md")

		if _, ok := base.Context().Get("path"); ok {
			t.Error("expected base context untouched")
		}
		if p, _ := derived.Context().GetString("path"); p != "a.md" {
			t.Errorf("expected derived path a.md, got %q", p)
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
		{"GitError", GitError("test"), CategoryGit, SeverityFatal, RetryUserAction},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryNever},
		{"ParseError", ParseError("test"), CategoryParse, SeverityError, RetryNever},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
			if err.RetryStrategy() != tt.retry {
				t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
			}
			if err.CanRetry() {
				t.Error("expected no constructor to be retryable")
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	if v, _ := merged.GetString("key1"); v != "value1" {
		t.Errorf("expected key1=value1, got %s", v)
	}
	if v, _ := merged.GetString("key2"); v != "value2" {
		t.Errorf("expected key2=value2, got %s", v)
	}
	if v, _ := merged.GetString("shared"); v != "overridden" {
		t.Errorf("expected shared=overridden, got %s", v)
	}
}
