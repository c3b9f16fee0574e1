package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	split, err := Parse(input)
	require.NoError(t, err)
	require.False(t, split.Had)
	require.Empty(t, split.Raw)
	require.Equal(t, input, split.Body)
	require.Equal(t, 0, split.LineOffset())
}

func TestParse_YAMLFrontmatter(t *testing.T) {
	input := []byte("---\nkey: value\nother: 1\n---\n# Title\n")

	split, err := Parse(input)
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Equal(t, []byte("key: value\nother: 1\n"), split.Raw)
	require.Equal(t, []byte("# Title\n"), split.Body)
	require.Equal(t, 4, split.LineOffset())
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	split, err := Parse(input)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, split.Had)
	require.Equal(t, input, split.Body)
}

func TestParse_CRLF(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	split, err := Parse(input)
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Equal(t, []byte("key: value\r\n"), split.Raw)
	require.Equal(t, []byte("# Title\r\n"), split.Body)
	require.Equal(t, 3, split.LineOffset())
}

func TestParse_EmptyFrontmatterBlock(t *testing.T) {
	split, err := Parse([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Empty(t, split.Raw)
	require.Equal(t, []byte("# Title\n"), split.Body)
	require.Equal(t, 2, split.LineOffset())
}
