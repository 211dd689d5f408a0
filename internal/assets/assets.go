// Package assets handles exhibit asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// ErrNotFound is returned when an asset URL does not resolve to a file.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset URLs against a root file system.
// URLs are slash separated and may start with "./" or "/"; they never escape
// the root.
type Manager struct {
	root  fs.FS
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager reading from the directory dir.
func NewManager(dir string) *Manager {
	return NewManagerFS(os.DirFS(dir))
}

// NewManagerFS creates a manager reading from fsys.
func NewManagerFS(fsys fs.FS) *Manager {
	return &Manager{
		root:  fsys,
		cache: NewCache(),
	}
}

// Clean turns an asset URL into a root-relative fs path.
func Clean(url string) (string, error) {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	p := path.Clean("/" + strings.TrimPrefix(url, "./"))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, url)
	}
	return p, nil
}

// Load reads the asset at url, from the cache when possible.
func (m *Manager) Load(url string) ([]byte, error) {
	p, err := Clean(url)
	if err != nil {
		return nil, err
	}
	if data, ok := m.cache.Get(p); ok {
		return data, nil
	}

	m.mu.RLock()
	data, err := fs.ReadFile(m.root, p)
	m.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	m.cache.Set(p, data)
	return data, nil
}

// Open implements fs.FS over the asset root. Reads through Open bypass the
// cache.
func (m *Manager) Open(name string) (fs.File, error) {
	p, err := Clean(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root.Open(p)
}

// Close drops cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache returns the byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

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

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
