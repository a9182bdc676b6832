// Package engine implements the configuration resolution and safe-mutation
// core: scope precedence resolution across platform adapters and the
// re-read/mutate/validate/backup/write pipeline used by every structured
// configuration mutation.
package engine

import (
	"log/slog"

	"github.com/thoreinstein/loadout/internal/backup"
	"github.com/thoreinstein/loadout/internal/logging"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/schema"
)

// Engine aggregates tool entries from the active platform adapter, resolves
// scope precedence, and exposes the generic write pipeline used by
// vendor-specific writers.
//
// The engine holds no document state between calls: every read goes back to
// the filesystem and every write re-reads immediately before mutating, so
// the staleness window is bounded by one read-write cycle, not by how long
// an Engine has existed.
type Engine struct {
	adapters *platform.Registry
	schemas  *schema.Registry
	backups  *backup.Store
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackupStore sets the backup store used before overwrites.
func WithBackupStore(s *backup.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.backups = s
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine reading through the given adapter registry and
// validating writes against the given schema registry.
//
// Adapters that need the write pipeline receive the Engine by reference
// after construction; the Engine itself never depends on a concrete
// adapter, which keeps the dependency graph acyclic.
func New(adapters *platform.Registry, schemas *schema.Registry, opts ...Option) *Engine {
	e := &Engine{
		adapters: adapters,
		schemas:  schemas,
		backups:  backup.NewStore(),
		log:      logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schemas returns the engine's schema registry, so adapters can register
// the document schemas they write against.
func (e *Engine) Schemas() *schema.Registry {
	return e.schemas
}

// Backups returns the engine's backup store.
func (e *Engine) Backups() *backup.Store {
	return e.backups
}

// Adapters returns the adapter registry the engine reads through.
func (e *Engine) Adapters() *platform.Registry {
	return e.adapters
}
