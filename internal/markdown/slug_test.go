package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":    "hello-world",
		"Café & Bar!":    "café--bar",
		"API_v2.0":       "api_v20",
		"ÜNÏCÖDÉ":        "ünïcödé",
		"  padded  ":     "--padded--",
		"dash-separated": "dash-separated",
		"emoji 🎉 party":  "emoji--party",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugger_Uniqueness(t *testing.T) {
	s := NewSlugger()
	assert.Equal(t, "foo", s.Slug("Foo"))
	assert.Equal(t, "foo-1", s.Slug("foo"))
	assert.Equal(t, "foo-2", s.Slug("FOO"))
	assert.Equal(t, "foo-1-1", s.Slug("foo-1"))

	s.Reset()
	assert.Equal(t, "foo", s.Slug("foo"))
}
