package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile        = "file"
	KeyTarget      = "target"
	KeyAnchor      = "anchor"
	KeyRepo        = "repository"
	KeyRoot        = "root"
	KeyFiles       = "files"
	KeyDiagnostics = "diagnostics"
	KeyDurationMS  = "duration_ms"
	KeyRunID       = "run_id"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Target(path string) slog.Attr    { return slog.String(KeyTarget, path) }
func Anchor(a string) slog.Attr       { return slog.String(KeyAnchor, a) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Root(path string) slog.Attr      { return slog.String(KeyRoot, path) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Diagnostics(n int) slog.Attr     { return slog.Int(KeyDiagnostics, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
