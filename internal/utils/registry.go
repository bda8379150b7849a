package utils

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe keyed store. Keys are passed through the
// normalize function so lookups can be case-insensitive.
type Registry[V any] struct {
	mu        sync.RWMutex
	items     map[string]V
	normalize func(string) string
	name      string
}

// NewRegistry creates a registry; normalize may be nil
func NewRegistry[V any](name string, normalize func(string) string) *Registry[V] {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Registry[V]{
		items:     make(map[string]V),
		normalize: normalize,
		name:      name,
	}
}

// Register adds an item, failing when the key is already taken
func (r *Registry[V]) Register(key string, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.normalize(key)
	if _, exists := r.items[k]; exists {
		return fmt.Errorf("%s registry: %s is already registered", r.name, key)
	}
	r.items[k] = value
	return nil
}

// Get retrieves an item from the registry
func (r *Registry[V]) Get(key string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[r.normalize(key)]
	return value, exists
}

// Keys returns the normalized keys in sorted order
func (r *Registry[V]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the number of items in the registry
func (r *Registry[V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
