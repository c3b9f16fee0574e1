// Package errors provides the classified error primitives used across doclinks.
//
// Link diagnostics are not errors: a missing file or heading is the normal
// output of a run. This package covers the failures that stop or degrade a
// run, such as an undiscoverable repository, an invalid configuration or an
// unreadable document.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryGit, "could not find remote origin").
//		WithContext("dir", dir).
//		Build()
package errors
