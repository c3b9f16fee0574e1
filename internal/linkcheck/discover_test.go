package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

func TestDiscover(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"readme.md":                 "x",
		"docs/guide.markdown":       "x",
		"docs/image.png":            "x",
		".github/template.md":       "x",
		"node_modules/pkg/readme.md": "x",
		"vendor/lib/readme.md":      "x",
		"notes.txt":                 "x",
	})

	files, err := Discover([]string{dir, filepath.Join(dir, "notes.txt"), filepath.Join(dir, "readme.md")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "docs", "guide.markdown"),
		filepath.Join(dir, "readme.md"),
		filepath.Join(dir, "notes.txt"),
	}, files)
}

func TestDiscover_MissingInput(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestDetectDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path, detected := DetectDefaultPath()
	assert.Equal(t, ".", path)
	assert.False(t, detected)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "documentation"), 0o750))
	path, detected = DetectDefaultPath()
	assert.Equal(t, "documentation", path)
	assert.True(t, detected)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o750))
	path, _ = DetectDefaultPath()
	assert.Equal(t, "docs", path)
}
