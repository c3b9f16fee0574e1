// Package fsprobe is the file-system boundary of the link checker.
package fsprobe

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Prober answers whether a path exists.
type Prober interface {
	Exists(path string) bool
}

// Func adapts a function to Prober.
type Func func(path string) bool

// Exists calls f(path).
func (f Func) Exists(path string) bool { return f(path) }

// OS reads the local file system.
type OS struct{}

// Exists reports whether path exists. Only "not found" and "not a directory"
// count as missing; any other error (permissions, transient I/O) is treated
// as existing so that it never produces a missing-file diagnostic.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !IsNotFound(err)
}

func (OS) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }
func (OS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (OS) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }

// IsNotFound reports whether err means the path does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
