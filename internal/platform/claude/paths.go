package claude

import (
	"path/filepath"
	"runtime"

	"github.com/thoreinstein/loadout/internal/tool"
)

// Schema names the adapter registers with the engine.
const (
	// schemaMCP covers documents whose only modeled content is the
	// mcpServers map (~/.claude.json, .mcp.json).
	schemaMCP = "claude.mcp"

	// schemaSettings covers settings documents, which may carry both
	// mcpServers and hooks (settings.json, settings.local.json,
	// managed-settings.json).
	schemaSettings = "claude.settings"
)

// defaultManagedDir returns the OS-level directory for administrator
// managed policy.
func defaultManagedDir() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Library/Application Support/ClaudeCode"
	case "windows":
		return `C:\ProgramData\ClaudeCode`
	default:
		return "/etc/claude-code"
	}
}

// userDir returns ~/.claude.
func (a *Adapter) userDir() string {
	return filepath.Join(a.home, ".claude")
}

// workspaceDir returns <workspace>/.claude, or "" without a workspace.
func (a *Adapter) workspaceDir() string {
	if a.workspace == "" {
		return ""
	}
	return filepath.Join(a.workspace, ".claude")
}

// mcpConfigPath returns the document holding MCP servers for a scope.
//
//   - managed: <managedDir>/managed-settings.json
//   - project: <workspace>/.mcp.json
//   - local:   <workspace>/.claude/settings.local.json
//   - user:    ~/.claude.json (not inside ~/.claude)
//
// Returns "" when the scope needs a workspace and none is set.
func (a *Adapter) mcpConfigPath(scope tool.Scope) string {
	switch scope {
	case tool.ScopeManaged:
		return filepath.Join(a.managedDir, "managed-settings.json")
	case tool.ScopeProject:
		if a.workspace == "" {
			return ""
		}
		return filepath.Join(a.workspace, ".mcp.json")
	case tool.ScopeLocal:
		if d := a.workspaceDir(); d != "" {
			return filepath.Join(d, "settings.local.json")
		}
		return ""
	case tool.ScopeUser:
		return filepath.Join(a.home, ".claude.json")
	default:
		return ""
	}
}

// mcpSchemaFor returns the schema name matching the MCP document at scope.
func (a *Adapter) mcpSchemaFor(scope tool.Scope) string {
	switch scope {
	case tool.ScopeManaged, tool.ScopeLocal:
		return schemaSettings
	default:
		return schemaMCP
	}
}

// settingsPath returns the settings document holding hooks for a scope.
//
//   - managed: <managedDir>/managed-settings.json
//   - project: <workspace>/.claude/settings.json
//   - local:   <workspace>/.claude/settings.local.json
//   - user:    ~/.claude/settings.json
func (a *Adapter) settingsPath(scope tool.Scope) string {
	switch scope {
	case tool.ScopeManaged:
		return filepath.Join(a.managedDir, "managed-settings.json")
	case tool.ScopeProject:
		if d := a.workspaceDir(); d != "" {
			return filepath.Join(d, "settings.json")
		}
		return ""
	case tool.ScopeLocal:
		if d := a.workspaceDir(); d != "" {
			return filepath.Join(d, "settings.local.json")
		}
		return ""
	case tool.ScopeUser:
		return filepath.Join(a.userDir(), "settings.json")
	default:
		return ""
	}
}

// markdownDir returns the directory holding Markdown tools of typ at scope.
// Skills are directory bundles (<dir>/<name>/SKILL.md); commands and
// prompts are flat files (<dir>/<name>.md).
func (a *Adapter) markdownDir(typ tool.Type, scope tool.Scope) string {
	var base string
	switch scope {
	case tool.ScopeUser:
		base = a.userDir()
	case tool.ScopeProject:
		base = a.workspaceDir()
	default:
		return ""
	}
	if base == "" {
		return ""
	}

	switch typ {
	case tool.TypeSkill:
		return filepath.Join(base, "skills")
	case tool.TypeCommand:
		return filepath.Join(base, "commands")
	case tool.TypePrompt:
		return filepath.Join(base, "prompts")
	default:
		return ""
	}
}

// markdownPath returns the source file for a named Markdown tool.
func (a *Adapter) markdownPath(typ tool.Type, scope tool.Scope, name string) string {
	dir := a.markdownDir(typ, scope)
	if dir == "" || name == "" {
		return ""
	}
	if typ == tool.TypeSkill {
		return filepath.Join(dir, name, "SKILL.md")
	}
	return filepath.Join(dir, name+".md")
}
