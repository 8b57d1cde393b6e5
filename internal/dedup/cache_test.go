package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("job-1"))

	cache.MarkSeen([]string{"job-1", "job-2"})
	assert.True(t, cache.IsSeen("job-1"))
	assert.True(t, cache.IsSeen("job-2"))

	// a fresh cache instance must see the persisted entries
	reloaded := NewSeenCache(dir)
	assert.True(t, reloaded.IsSeen("job-1"))
	assert.False(t, reloaded.IsSeen("job-3"))
}
