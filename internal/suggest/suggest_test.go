package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("intro", "intro"), 1e-9)
	assert.InDelta(t, 1-1.0/11, Similarity("missing.md", "missingx.md"), 1e-9)
	assert.InDelta(t, 1-6.0/11, Similarity("world", "hello-world"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("über", "uber"), 1e-9, "distance counts runes")
}

func TestPropose(t *testing.T) {
	got, ok := Propose("missing.md", []string{"a.md", "missingx.md"}, DefaultThreshold)
	assert.True(t, ok)
	assert.Equal(t, "missingx.md", got)

	_, ok = Propose("world", []string{"hello-world"}, DefaultThreshold)
	assert.False(t, ok)

	_, ok = Propose("x", nil, DefaultThreshold)
	assert.False(t, ok)
}

func TestPropose_TiesGoToFirstCandidate(t *testing.T) {
	candidates := []string{"introb", "introa", "intro"}
	for range 5 {
		got, ok := Propose("introc", candidates, DefaultThreshold)
		assert.True(t, ok)
		assert.Equal(t, "introb", got)
	}
}

func TestPropose_PrefersCloserCandidate(t *testing.T) {
	got, ok := Propose("installation", []string{"instalation-guide", "installations"}, DefaultThreshold)
	assert.True(t, ok)
	assert.Equal(t, "installations", got)
}
