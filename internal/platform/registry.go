package platform

import (
	"sync"

	"github.com/thoreinstein/loadout/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrAdapterAlreadyRegistered is returned when registering an adapter
	// with a name that is already in use.
	ErrAdapterAlreadyRegistered = errors.New("adapter already registered")

	// ErrAdapterNotFound is returned when looking up an unknown adapter.
	ErrAdapterNotFound = errors.New("adapter not found")
)

// Registry holds the set of available platform adapters and the currently
// active one. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	order    []string
	active   string
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter to the registry.
func (r *Registry) Register(a Adapter) error {
	if a == nil || a.Name() == "" {
		return errors.New("adapter with a non-empty name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[a.Name()]; exists {
		return errors.Wrapf(ErrAdapterAlreadyRegistered, "%q", a.Name())
	}
	r.adapters[a.Name()] = a
	r.order = append(r.order, a.Name())
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, errors.Wrapf(ErrAdapterNotFound, "%q", name)
	}
	return a, nil
}

// All returns all registered adapters in registration order.
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Available returns registered adapters whose vendor tooling is installed,
// in registration order.
func (r *Registry) Available() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		if a := r.adapters[name]; a.Detect() {
			out = append(out, a)
		}
	}
	return out
}

// SetActive selects the active adapter by name.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.adapters[name]; !ok {
		return errors.Wrapf(ErrAdapterNotFound, "%q", name)
	}
	r.active = name
	return nil
}

// ClearActive deselects the active adapter.
func (r *Registry) ClearActive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ""
}

// Active returns the currently active adapter. Operations that require an
// active adapter treat ErrNoActiveAdapter as a wiring bug: it is never
// converted into a soft result.
func (r *Registry) Active() (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == "" {
		return nil, errors.ErrNoActiveAdapter
	}
	return r.adapters[r.active], nil
}
