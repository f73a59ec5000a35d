package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Len(t, Hash("a"), 64)
	assert.Equal(t, Hash("a", "b"), Hash("a", "b"))
	assert.NotEqual(t, Hash("ab", "c"), Hash("a", "bc"))
	assert.NotEqual(t, Hash("a"), Hash("a", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 4))
	assert.Equal(t, `a\nb`, Truncate("a\nb", 10))
}
