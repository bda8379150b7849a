package utils

import (
	"os"
	"sync"
	"time"
)

type fileEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache holds values derived from files, keyed by path. An entry is
// valid while the file keeps the modification time and size it had when stored.
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]fileEntry[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{entries: make(map[string]fileEntry[V])}
}

// Load returns the value stored for path. A file that changed or vanished
// drops its entry.
func (c *FileCache[V]) Load(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if stat, err := os.Stat(path); err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, true
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
	return zero, false
}

// Store records value for path together with the file's current metadata
func (c *FileCache[V]) Store(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = fileEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}
