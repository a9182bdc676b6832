// Package tool defines the canonical data model shared by the engine,
// the profile manager, and platform adapters: tool entities, types,
// scopes, and canonical keys.
package tool

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/loadout/internal/errors"
)

// Type identifies the kind of configurable unit an Entity represents.
type Type string

// Supported tool types.
const (
	TypeMCPServer Type = "mcp-server"
	TypeSkill     Type = "skill"
	TypeCommand   Type = "command"
	TypeHook      Type = "hook"
	TypePrompt    Type = "prompt"
)

// Types returns all supported tool types in deterministic order.
func Types() []Type {
	return []Type{TypeMCPServer, TypeSkill, TypeCommand, TypeHook, TypePrompt}
}

// Valid returns true if the type is one of the supported tool types.
func (t Type) Valid() bool {
	switch t {
	case TypeMCPServer, TypeSkill, TypeCommand, TypeHook, TypePrompt:
		return true
	}
	return false
}

// Scope is a precedence level at which a tool may be configured.
// Lower ordinal means higher precedence: Managed > Project > Local > User.
type Scope int

// Scopes ordered by precedence.
const (
	ScopeManaged Scope = iota
	ScopeProject
	ScopeLocal
	ScopeUser
)

// String returns the scope's identifier.
func (s Scope) String() string {
	switch s {
	case ScopeManaged:
		return "managed"
	case ScopeProject:
		return "project"
	case ScopeLocal:
		return "local"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope converts a scope identifier to a Scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "managed":
		return ScopeManaged, nil
	case "project":
		return ScopeProject, nil
	case "local":
		return ScopeLocal, nil
	case "user":
		return ScopeUser, nil
	}
	return 0, errors.Newf("unknown scope %q", s)
}

// Scopes returns all scopes ordered by precedence, highest first.
func Scopes() []Scope {
	return []Scope{ScopeManaged, ScopeProject, ScopeLocal, ScopeUser}
}

// typeScopes is the fixed table of valid scopes per tool type.
// Markdown-backed resources (skills, commands, prompts) have no managed or
// local variant; MCP servers and hooks exist at every level.
var typeScopes = map[Type][]Scope{
	TypeMCPServer: {ScopeManaged, ScopeProject, ScopeLocal, ScopeUser},
	TypeHook:      {ScopeManaged, ScopeProject, ScopeLocal, ScopeUser},
	TypeSkill:     {ScopeProject, ScopeUser},
	TypeCommand:   {ScopeProject, ScopeUser},
	TypePrompt:    {ScopeProject, ScopeUser},
}

// ScopesFor returns the scopes at which a tool type may be configured,
// ordered by precedence. Returns nil for unknown types.
func ScopesFor(t Type) []Scope {
	return typeScopes[t]
}

// ValidAt returns true if the tool type may be configured at the scope.
func (t Type) ValidAt(scope Scope) bool {
	for _, s := range typeScopes[t] {
		if s == scope {
			return true
		}
	}
	return false
}

// Status is the reported state of a tool entity.
type Status string

// Entity statuses.
const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
	StatusError    Status = "error"
)

// ScopeEntry records that a logical tool also exists at another scope.
// It is attached to resolved entities so consumers can show cross-scope
// state without re-reading configuration files.
type ScopeEntry struct {
	Scope  Scope  `json:"scope"`
	Status Status `json:"status"`
	Path   string `json:"path,omitempty"`
}

// Entity is the canonical representation of one configurable unit:
// an MCP server, a skill, a command, a hook, or a custom prompt.
//
// Entities are ephemeral: they are recomputed from the underlying files on
// every read and are never the system of record.
type Entity struct {
	// ID is an opaque, adapter-constructed identifier.
	ID string `json:"id"`

	// Type is the kind of tool.
	Type Type `json:"type"`

	// Name is the human-readable tool name.
	Name string `json:"name"`

	// Description is optional descriptive text.
	Description string `json:"description,omitempty"`

	// Scope is the level this entity was read from (or, after resolution,
	// the winning scope).
	Scope Scope `json:"scope"`

	// Status is enabled, disabled, or error.
	Status Status `json:"status"`

	// StatusDetail carries a human-readable message. Populated only when
	// Status is StatusError.
	StatusDetail string `json:"statusDetail,omitempty"`

	// Path is the primary source file.
	Path string `json:"path,omitempty"`

	// Dir is an optional secondary directory (e.g. a skill's bundle dir).
	Dir string `json:"dir,omitempty"`

	// IsDir reports whether the tool is directory-backed rather than
	// file-backed.
	IsDir bool `json:"isDir,omitempty"`

	// Metadata holds open-ended vendor-specific fields (command, args, env,
	// transport, url, ...). Never reconstructed from typed fields; mutations
	// shallow-merge into it so unmodeled fields survive.
	Metadata map[string]any `json:"metadata,omitempty"`

	// ScopeEntries lists every scope that contributed an entity for this
	// tool's canonical key. Attached only by the resolution step.
	ScopeEntries []ScopeEntry `json:"scopeEntries,omitempty"`
}

// CanonicalKey returns the deterministic identifier grouping the same
// logical tool across scopes: type plus lowercased name, or for hooks
// type plus event plus matcher. Two entities from different scopes are
// the same logical tool iff their canonical keys are equal.
func (e *Entity) CanonicalKey() string {
	if e.Type == TypeHook {
		event, _ := e.Metadata["event"].(string)
		matcher, _ := e.Metadata["matcher"].(string)
		return string(e.Type) + ":" + strings.ToLower(event) + ":" + matcher
	}
	return string(e.Type) + ":" + strings.ToLower(e.Name)
}

// Enabled returns true if the entity's status is StatusEnabled.
func (e *Entity) Enabled() bool {
	return e.Status == StatusEnabled
}

// Entry returns the ScopeEntry describing this entity's own scope.
func (e *Entity) Entry() ScopeEntry {
	return ScopeEntry{
		Scope:  e.Scope,
		Status: e.Status,
		Path:   e.Path,
	}
}

// NewErrorEntity builds the synthetic entity representing "this scope's
// data could not be read". It carries the failure message and no metadata;
// it is not a real tool.
func NewErrorEntity(typ Type, scope Scope, path string, err error) *Entity {
	detail := "unreadable configuration"
	if err != nil {
		detail = err.Error()
	}
	return &Entity{
		ID:           fmt.Sprintf("%s:%s:error", typ, scope),
		Type:         typ,
		Name:         fmt.Sprintf("%s (%s)", typ, scope),
		Scope:        scope,
		Status:       StatusError,
		StatusDetail: detail,
		Path:         path,
	}
}
