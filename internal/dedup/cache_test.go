package dedup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSeenAndMark(t *testing.T) {
	cache, err := Open(filepath.Join(t.TempDir(), "visited.db"))
	require.NoError(t, err)
	defer cache.Close()

	const url = "https://maps.example/place/abc"

	seen, err := cache.Seen(url)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.MarkSeen(url))

	seen, err = cache.Seen(url)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestCacheMarkSeenIdempotent(t *testing.T) {
	cache, err := Open(filepath.Join(t.TempDir(), "visited.db"))
	require.NoError(t, err)
	defer cache.Close()

	const url = "https://maps.example/place/abc"

	require.NoError(t, cache.MarkSeen(url))
	require.NoError(t, cache.MarkSeen(url))

	seen, err := cache.Seen(url)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestCacheSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visited.db")

	cache, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, cache.MarkSeen("https://maps.example/place/abc"))
	require.NoError(t, cache.Close())

	cache, err = Open(path)
	require.NoError(t, err)
	defer cache.Close()

	seen, err := cache.Seen("https://maps.example/place/abc")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = cache.Seen("https://maps.example/place/other")
	require.NoError(t, err)
	assert.False(t, seen)
}
