package schema

import (
	"fmt"
	"sync"

	"github.com/thoreinstein/loadout/internal/errors"
)

// Schema validates a parsed document, returning the normalized document and
// any issues. Implementations must tolerate unknown fields.
type Schema interface {
	Validate(doc map[string]any) (map[string]any, []Issue)
}

// Error aggregates the issues from a failed validation.
type Error struct {
	// Schema is the registered schema name.
	Schema string
	// Issues are the individual failures, each with a field path.
	Issues []Issue
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("schema %q: %s", e.Schema, e.Issues[0].Error())
	}
	return fmt.Sprintf("schema %q: %d validation issues (first: %s)",
		e.Schema, len(e.Issues), e.Issues[0].Error())
}

// ErrSchemaAlreadyRegistered is returned when registering a duplicate name.
var ErrSchemaAlreadyRegistered = errors.New("schema already registered")

// Registry holds named schemas. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]Schema),
	}
}

// Register adds a schema under the given name.
// Returns ErrSchemaAlreadyRegistered if the name is taken.
func (r *Registry) Register(name string, s Schema) error {
	if name == "" {
		return errors.New("schema name is required")
	}
	if s == nil {
		return errors.New("schema is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[name]; exists {
		return errors.Wrapf(ErrSchemaAlreadyRegistered, "%q", name)
	}
	r.schemas[name] = s
	return nil
}

// Has returns true if a schema is registered under the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[name]
	return exists
}

// Validate checks doc against the named schema. On success it returns the
// normalized document; on failure a *Error listing the offending field paths.
//
// Calling Validate with an unregistered name panics: it indicates a missing
// registration (a wiring bug), not bad user data, and must not be absorbed
// into a recoverable error.
func (r *Registry) Validate(name string, doc map[string]any) (map[string]any, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()

	if !ok {
		panic(fmt.Sprintf("schema: validate called with unregistered schema %q", name))
	}

	normalized, issues := s.Validate(doc)
	if len(issues) > 0 {
		return nil, &Error{Schema: name, Issues: issues}
	}
	return normalized, nil
}
