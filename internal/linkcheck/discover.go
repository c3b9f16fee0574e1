package linkcheck

import (
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/fileset"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

var skippedDirs = sets.New("node_modules", "vendor")

// DetectDefaultPath picks the documentation directory when no path is given.
func DetectDefaultPath() (string, bool) {
	for _, candidate := range []string{"docs", "documentation"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return ".", false
}

// Discover expands files and directories into absolute Markdown file paths.
// Directories are walked, skipping hidden entries, node_modules and vendor.
// Files named explicitly are kept whatever their extension.
func Discover(paths []string) ([]string, error) {
	var out sets.Ordered[string]
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid path").WithContext("path", p).Build()
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read input").
				WithContext("path", p).
				UserAction().
				Build()
		}
		if !info.IsDir() {
			out.Add(abs)
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if path != abs && (name[0] == '.' || (d.IsDir() && skippedDirs.Has(name))) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && fileset.IsMarkdown(path) {
				out.Add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk input directory").WithContext("path", p).Build()
		}
	}
	return out.Items(), nil
}
