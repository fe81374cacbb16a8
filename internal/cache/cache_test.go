package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	Time  string `json:"time"`
	Lines int    `json:"lines"`
}

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)
	return c
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c, err := New(dir, 1, true)
	require.NoError(t, err)
	assert.True(t, c.Enabled())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPutAndGet(t *testing.T) {
	c := newCache(t)
	key := Key("complexity", "javascript", HashBytes([]byte("for (;;) {}")))

	var got result
	assert.False(t, c.Get(key, &got))

	require.NoError(t, c.Put(key, result{Time: "O(n)", Lines: 1}))
	require.True(t, c.Get(key, &got))
	assert.Equal(t, result{Time: "O(n)", Lines: 1}, got)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Positive(t, stats.TotalSize)
}

func TestGetExpired(t *testing.T) {
	c := newCache(t)
	key := Key("expired")

	data, err := json.Marshal(Entry{
		Key:       key,
		Timestamp: time.Now().Add(-48 * time.Hour),
		Data:      json.RawMessage(`{"time":"O(1)"}`),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.keyPath(key), data, 0o600))

	var got result
	assert.False(t, c.Get(key, &got))
	_, err = os.Stat(c.keyPath(key))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c, err := New(t.TempDir(), 0, true)
	require.NoError(t, err)
	key := Key("old")

	data, err := json.Marshal(Entry{Key: key, Timestamp: time.Now().Add(-1000 * time.Hour), Data: json.RawMessage(`{"lines":3}`)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.keyPath(key), data, 0o600))

	var got result
	require.True(t, c.Get(key, &got))
	assert.Equal(t, 3, got.Lines)
}

func TestGetCorruptEntry(t *testing.T) {
	c := newCache(t)
	key := Key("corrupt")
	require.NoError(t, os.WriteFile(c.keyPath(key), []byte("{not json"), 0o600))

	var got result
	assert.False(t, c.Get(key, &got))
}

func TestInvalidateAndClear(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Put(Key("a"), result{Lines: 1}))
	require.NoError(t, c.Put(Key("b"), result{Lines: 2}))

	require.NoError(t, c.Invalidate(Key("a")))
	require.NoError(t, c.Invalidate(Key("missing")))
	var got result
	assert.False(t, c.Get(Key("a"), &got))
	assert.True(t, c.Get(Key("b"), &got))

	require.NoError(t, c.Clear())
	assert.False(t, c.Get(Key("b"), &got))
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 24, false)
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	require.NoError(t, c.Put(Key("x"), result{Lines: 1}))
	var got result
	assert.False(t, c.Get(Key("x"), &got))
	require.NoError(t, c.Invalidate(Key("x")))
	require.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, Key("a"), Key("a", ""))
	assert.Len(t, Key("x"), 64)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("same")), HashBytes([]byte("same")))
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestConcurrentPut(t *testing.T) {
	c := newCache(t)
	key := Key("shared")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, c.Put(key, result{Lines: n}))
		}(i)
	}
	wg.Wait()

	var got result
	assert.True(t, c.Get(key, &got))
}
