// Package registry provides the ordered, concurrency-safe collections that
// back the server's tools, resources, and prompts.
//
// A Registry is generic over the stored entry type T and the metadata view
// type V it exposes through List. Handlers and readers live on T only; V is
// plain data, so listings can cross the wire without ever leaking a
// callable.
package registry

import (
	"sync"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
)

// Entry is implemented by everything a Registry can hold.
type Entry interface {
	// RegistryKey returns the unique key the item registers under. Tools
	// and prompts key by name, resources by URI.
	RegistryKey() string
	// Validate reports whether the item is well formed enough to
	// register. The returned error already speaks the error taxonomy.
	Validate() error
}

// Registry is an insertion-ordered collection keyed by the entries'
// RegistryKey. All methods are safe for concurrent use.
type Registry[T Entry, V any] struct {
	mu      sync.RWMutex
	entity  string
	view    func(T) V
	entries map[string]T
	order   []string
}

// New creates an empty registry. entity names the item class in error
// messages, for example "Tool". view projects an entry to the metadata
// returned by List.
func New[T Entry, V any](entity string, view func(T) V) *Registry[T, V] {
	return &Registry[T, V]{
		entity:  entity,
		view:    view,
		entries: make(map[string]T),
	}
}

// Register validates item and inserts it under its key. It fails without
// mutating the registry when validation fails or the key is already taken.
func (r *Registry[T, V]) Register(item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	key := item.RegistryKey()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return mcperrors.DuplicateKey(r.entity, key)
	}
	r.entries[key] = item
	r.order = append(r.order, key)
	return nil
}

// Get returns the entry registered under key.
func (r *Registry[T, V]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return item, true
}

// List returns the metadata views of all entries in registration order.
func (r *Registry[T, V]) List() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]V, 0, len(r.order))
	for _, key := range r.order {
		views = append(views, r.view(r.entries[key]))
	}
	return views
}

// Keys returns all registered keys in registration order.
func (r *Registry[T, V]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Unregister removes the entry registered under key. Removing an absent key
// is a no-op.
func (r *Registry[T, V]) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; !exists {
		return
	}
	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry, returning the registry to its initial state.
func (r *Registry[T, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]T)
	r.order = nil
}

// Len returns the number of registered entries.
func (r *Registry[T, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Contains reports whether key is registered.
func (r *Registry[T, V]) Contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[key]
	return ok
}
