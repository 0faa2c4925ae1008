package enrichment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"mediaparse/internal/fileutil"
	"mediaparse/internal/logging"
)

// Retention is how long a cached match stays usable.
const Retention = 7 * 24 * time.Hour

// CacheFileName is the cache file inside the cache directory.
const CacheFileName = "wikidata-cache.json"

// Match is an accepted enrichment result.
type Match struct {
	Title      string `json:"title"`
	Year       string `json:"year,omitempty"`
	Type       string `json:"type"`
	WikidataID string `json:"wikidata_id"`
	IMDbID     string `json:"imdb_id,omitempty"`
	SteamID    string `json:"steam_id,omitempty"`
	Confidence int    `json:"confidence"`
}

// CacheEntry is the on-disk record for one cache key. Timestamp is Unix
// milliseconds.
type CacheEntry struct {
	Data      Match `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Entries int
	Oldest  time.Time
	Newest  time.Time
	Expired int
}

// CacheKey returns the lookup key for a title and optional year.
func CacheKey(title, year string) string {
	if strings.TrimSpace(year) == "" {
		year = "any"
	}
	return "search:" + strings.ToLower(title) + ":" + year
}

// Cache is the JSON-backed match cache.
type Cache struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]CacheEntry
	dropped int
	dirty   bool
}

// NewCache returns an empty cache backed by path on fs. Call Load to read
// existing entries.
func NewCache(fs afero.Fs, path string, logger *slog.Logger) *Cache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Cache{
		fs:      fs,
		path:    path,
		logger:  logging.NewComponentLogger(logger, "wikidata-cache"),
		now:     time.Now,
		entries: make(map[string]CacheEntry),
	}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Load replaces the in-memory entries with the unexpired entries on disk. A
// missing file yields an empty cache. A corrupt file yields an empty cache
// and an error.
func (c *Cache) Load() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
	c.dropped = 0
	c.dirty = false

	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		exists, statErr := afero.Exists(c.fs, c.path)
		if statErr == nil && !exists {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return 0, nil
	}

	var raw map[string]CacheEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse cache file: %w", err)
	}

	cutoff := c.cutoff()
	for key, entry := range raw {
		if entry.Timestamp > cutoff {
			c.entries[key] = entry
		}
	}
	c.dropped = len(raw) - len(c.entries)
	c.dirty = c.dropped > 0

	c.logger.Debug("loaded wikidata cache",
		logging.Int("entry_count", len(c.entries)),
		logging.Int("expired", c.dropped),
		logging.String("path", c.path))
	return len(c.entries), nil
}

// Get returns the cached match for key.
func (c *Cache) Get(key string) (Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry.Data, ok
}

// Put stores match under key with the current time.
func (c *Cache) Put(key string, match Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = CacheEntry{Data: match, Timestamp: c.now().UnixMilli()}
	c.dirty = true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports entry counts and the timestamp range. Expired includes
// entries dropped by the last Load.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Entries: len(c.entries), Expired: c.dropped}
	cutoff := c.cutoff()
	for _, entry := range c.entries {
		ts := time.UnixMilli(entry.Timestamp)
		if stats.Oldest.IsZero() || ts.Before(stats.Oldest) {
			stats.Oldest = ts
		}
		if ts.After(stats.Newest) {
			stats.Newest = ts
		}
		if entry.Timestamp <= cutoff {
			stats.Expired++
		}
	}
	return stats
}

// Prune drops expired entries and returns how many were removed, counting
// those already dropped by the last Load.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.cutoff()
	removed := c.dropped
	c.dropped = 0
	for key, entry := range c.entries {
		if entry.Timestamp <= cutoff {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.dirty = true
	}
	return removed
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CacheEntry)
	c.dropped = 0
	c.dirty = true
}

// Keys returns the cache keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the cache atomically when it has changed since the last load
// or save.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.dirty = false
	c.logger.Debug("saved wikidata cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

func (c *Cache) cutoff() int64 {
	return c.now().Add(-Retention).UnixMilli()
}
