package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a named plugin registry. Registration happens during startup
// (usually from init functions); lookups resolve configured names to
// implementations.
type Registry[T any] struct {
	mu      sync.RWMutex
	kind    string
	entries map[string]T
}

// NewRegistry creates an empty registry; kind names the plugin role in
// error messages.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, entries: make(map[string]T)}
}

// Register adds a plugin under its name. Duplicate names are an error: two
// plugins competing for one name is a wiring bug, not a runtime condition.
func (r *Registry[T]) Register(name string, impl T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%s %q is already registered", r.kind, name)
	}
	r.entries[name] = impl
	return nil
}

// Get resolves a configured name to its implementation.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s %q (registered: %v)", r.kind, name, r.names())
	}
	return impl, nil
}

// Names returns the registered plugin names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry[T]) names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default registries, populated by plugin init functions.
var (
	Harvesters = NewRegistry[Harvester]("harvester")
	Curators   = NewRegistry[Curator]("curator")
	Depositors = NewRegistry[Depositor]("depositor")
)
