// Package task defines task registration and the schema-tagged payload
// codec. A task couples a name with a typed handler; the registry maps
// queue envelopes back to the handler that executes them.
package task

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the task definitions a worker pool can execute. It is
// safe for concurrent reads; registration happens before workers start.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Add registers a definition. Registering two definitions under the same
// name is an error.
func (r *Registry) Add(d *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, d.name)
	}
	r.defs[d.name] = d
	return nil
}

// Get returns the definition for name, or ErrUnknownTask.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return d, nil
}

// Names returns the registered task names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register builds a definition from a typed handler and adds it to the
// registry in one step.
func Register[C, R any](r *Registry, name string, fn Handler[C, R], opts ...Option) (*Definition, error) {
	d, err := New(name, fn, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(d); err != nil {
		return nil, err
	}
	return d, nil
}
