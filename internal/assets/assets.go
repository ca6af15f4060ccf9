// Package assets resolves and caches viewer assets from search
// directories and HTTP sources.
package assets

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultHTTPTimeout bounds remote asset fetches.
const DefaultHTTPTimeout = 15 * time.Second

// Manager loads asset bytes by path or URL, searching the configured
// directories and caching whatever it finds.
type Manager struct {
	dirs   []string
	client *http.Client
	cache  *Cache
	mu     sync.RWMutex
}

// NewManager creates a manager searching the given directories. The
// timeout applies to HTTP fetches.
func NewManager(dirs []string, httpTimeout time.Duration) *Manager {
	if httpTimeout <= 0 {
		httpTimeout = DefaultHTTPTimeout
	}
	return &Manager{
		dirs:   append([]string(nil), dirs...),
		client: &http.Client{Timeout: httpTimeout},
		cache:  NewCache(),
	}
}

// AddDir adds a search directory. Directories are searched in reverse
// order (last added = highest priority).
func (m *Manager) AddDir(dir string) {
	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
}

// Load reads an asset by path or http(s) URL.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	var data []byte
	var err error
	if isURL(path) {
		data, err = m.fetch(path)
	} else {
		var file string
		if file, err = m.ResolveFile(path); err == nil {
			data, err = os.ReadFile(file)
		}
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(path, data)
	return data, nil
}

// ResolveFile maps an asset path to an existing file on disk: the path
// itself if it exists, otherwise the search directories joined with
// the path (a leading slash is treated as asset-root relative).
func (m *Manager) ResolveFile(path string) (string, error) {
	if isURL(path) {
		return "", fmt.Errorf("not a local file: %s", path)
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	rel := strings.TrimPrefix(path, "/")

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.dirs) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.dirs[i], rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", path)
}

// Close clears the cache.
func (m *Manager) Close() {
	m.cache.Clear()
}

func (m *Manager) fetch(url string) ([]byte, error) {
	resp, err := m.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
