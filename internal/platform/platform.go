package platform

import (
	"github.com/thoreinstein/loadout/internal/tool"
)

// Adapter is the contract implemented once per vendor (Claude Code,
// OpenCode, Codex, Gemini, ...). The engine depends only on this interface;
// everything vendor-specific (file layout, format, nesting) stays behind it.
//
// Implementations must be safe for concurrent reads. Mutating methods are
// expected to route through the engine's write pipeline so that re-read,
// validation, and backup semantics hold for every vendor.
type Adapter interface {
	// Name returns the adapter identifier (e.g. "claude").
	Name() string

	// DisplayName returns a human-readable vendor name.
	DisplayName() string

	// ReadTools returns the entities of the given type configured at the
	// given scope. "Nothing configured here" is an empty list, never an
	// error; errors indicate genuine I/O or parse failure and are converted
	// by the engine into a synthetic error entity for the scope.
	ReadTools(typ tool.Type, scope tool.Scope) ([]*tool.Entity, error)

	// WriteTool creates or updates a tool at the given scope.
	WriteTool(t *tool.Entity, scope tool.Scope) error

	// RemoveTool deletes a tool from its scope.
	RemoveTool(t *tool.Entity) error

	// ToggleTool sets a tool's enabled state in place.
	ToggleTool(t *tool.Entity, enabled bool) error

	// WatchPaths returns the filesystem paths a file-watch layer should
	// observe for the given scope.
	WatchPaths(scope tool.Scope) []string

	// Detect reports whether this vendor's tooling appears to be installed.
	Detect() bool
}
