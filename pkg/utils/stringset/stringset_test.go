package stringset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSet(t *testing.T) {
	ss := Of("b", "a", "b")
	assert.True(t, ss.Contains("a"))
	assert.False(t, ss.Contains("c"))
	assert.Equal(t, []string{"a", "b"}, ss.Sorted())

	ss.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, ss.Sorted())
	assert.Empty(t, Of().Sorted())
}
