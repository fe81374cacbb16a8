// Package cache persists analysis results on disk, keyed by a BLAKE3 hash
// of the analyzed content and the settings that produced them.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"
)

// Cache is a directory of JSON entries. A disabled cache misses every
// lookup and drops every write. Safe for concurrent use.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool

	hits   atomic.Int64
	misses atomic.Int64
}

// Entry is one stored result.
type Entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a cache rooted at dir. A ttlHours of 0 never expires entries.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool { return c.enabled }

// HashBytes returns the hex BLAKE3 hash of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key derives a cache key from its parts. Parts are length-delimited, so
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		_, _ = h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get decodes the entry for key into v. Expired or unreadable entries miss.
func (c *Cache) Get(key string, v any) bool {
	if !c.enabled {
		return false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		c.misses.Add(1)
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Key != key {
		c.misses.Add(1)
		return false
	}
	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(path)
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(entry.Data, v); err != nil {
		c.misses.Add(1)
		return false
	}

	c.hits.Add(1)
	return true
}

// Put stores v under key. The file is written atomically.
func (c *Cache) Put(key string, v any) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	entry, err := json.Marshal(Entry{Key: key, Timestamp: time.Now(), Data: data})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(entry); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.keyPath(key))
}

// Invalidate removes the entry for key. A missing entry is not an error.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	if err := os.Remove(c.keyPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Stats describes the cache contents and this process's lookups.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
}

// GetStats returns cache statistics.
func (c *Cache) GetStats() (*Stats, error) {
	stats := &Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if !c.enabled {
		return stats, nil
	}

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
