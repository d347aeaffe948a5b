package update

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheTTL is the time-to-live of a cached answer
const DefaultCacheTTL = 24 * time.Hour

// cacheFile represents the JSON structure stored on disk
type cacheFile struct {
	Release   Release   `json:"release"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache remembers the last answer from GitHub
type Cache struct {
	TTL time.Duration

	path    string
	entry   *cacheFile
	mu      sync.RWMutex
	nowFunc func() time.Time
}

// CacheOption is a functional option for configuring Cache
type CacheOption func(*Cache)

// WithTTL sets a custom TTL for the cache
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.TTL = ttl
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowFunc = fn
	}
}

// CacheDir returns $XDG_CACHE_HOME/turing-screen, falling back to ~/.cache
func CacheDir() (string, error) {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "turing-screen"), nil
}

// NewCache loads update.json from dir.
// A missing or corrupted file yields an empty cache.
func NewCache(dir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		TTL:     DefaultCacheTTL,
		path:    filepath.Join(dir, "update.json"),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if data, err := os.ReadFile(c.path); err == nil {
		var cf cacheFile
		if json.Unmarshal(data, &cf) == nil && cf.Release.Version != "" {
			c.entry = &cf
		}
	}
	return c, nil
}

// Path returns the cache file path
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached release if present and not expired
func (c *Cache) Get() (Release, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return Release{}, false
	}
	if c.nowFunc().Sub(c.entry.Timestamp) >= c.TTL {
		return Release{}, false
	}
	return c.entry.Release, true
}

// Set stores rel with the current time and saves the cache
func (c *Cache) Set(rel Release) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cacheFile{Release: rel, Timestamp: c.nowFunc()}

	data, err := json.MarshalIndent(c.entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Clear forgets the cached release
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = nil
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
