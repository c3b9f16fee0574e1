package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("c"))
	assert.Len(t, s, 3)
}

func TestOrdered(t *testing.T) {
	var o Ordered[string]
	assert.False(t, o.Has("x"))

	assert.True(t, o.Add("z"))
	assert.True(t, o.Add("a"))
	assert.False(t, o.Add("z"))
	assert.True(t, o.Add("m"))

	assert.Equal(t, 3, o.Len())
	assert.Equal(t, []string{"z", "a", "m"}, o.Items())

	items := o.Items()
	items[0] = "changed"
	assert.Equal(t, "z", o.Items()[0], "Items returns a copy")
}
