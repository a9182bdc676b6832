// Package claude implements the platform adapter for Claude Code.
//
// Claude Code spreads its configuration across several files per scope:
// MCP servers live in JSON documents (~/.claude.json at user scope,
// .mcp.json at project scope, settings files elsewhere), hooks live in
// settings files, and skills, commands, and prompts are Markdown files
// with YAML frontmatter. The adapter maps all of them onto the engine's
// entity model and routes every structured mutation through the engine's
// write pipeline.
package claude

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/loadout/internal/engine"
	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/logging"
	"github.com/thoreinstein/loadout/internal/paths"
	"github.com/thoreinstein/loadout/internal/schema"
	"github.com/thoreinstein/loadout/internal/tool"
)

// Adapter is the Claude Code platform adapter.
//
// The adapter receives the engine by reference after engine construction;
// it never constructs one, which keeps the dependency graph acyclic.
type Adapter struct {
	engine     *engine.Engine
	home       string
	workspace  string
	managedDir string
	log        *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHome overrides the user home directory. Test use mostly.
func WithHome(dir string) Option {
	return func(a *Adapter) {
		if dir != "" {
			a.home = dir
		}
	}
}

// WithWorkspace sets the workspace root for project and local scopes.
func WithWorkspace(dir string) Option {
	return func(a *Adapter) {
		a.workspace = dir
	}
}

// WithManagedDir overrides the managed policy directory.
func WithManagedDir(dir string) Option {
	return func(a *Adapter) {
		if dir != "" {
			a.managedDir = dir
		}
	}
}

// WithLogger sets the adapter's logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates a Claude Code adapter reading and writing through eng.
// The adapter registers its document schemas with the engine's registry.
func New(eng *engine.Engine, opts ...Option) *Adapter {
	a := &Adapter{
		engine:     eng,
		home:       paths.Home(),
		managedDir: defaultManagedDir(),
		log:        logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(a)
	}

	registerSchemas(eng.Schemas())
	return a
}

func registerSchemas(reg *schema.Registry) {
	for name, s := range map[string]schema.Object{
		schemaMCP:      mcpDocumentSchema(),
		schemaSettings: settingsDocumentSchema(),
	} {
		if err := reg.Register(name, s); err != nil && !errors.Is(err, schema.ErrSchemaAlreadyRegistered) {
			panic(err)
		}
	}
}

// Name implements platform.Adapter.
func (a *Adapter) Name() string {
	return "claude"
}

// DisplayName implements platform.Adapter.
func (a *Adapter) DisplayName() string {
	return "Claude Code"
}

// Detect reports whether Claude Code appears to be installed, judged by
// the presence of its user-level configuration.
func (a *Adapter) Detect() bool {
	if _, err := os.Stat(a.userDir()); err == nil {
		return true
	}
	_, err := os.Stat(filepath.Join(a.home, ".claude.json"))
	return err == nil
}

// ReadTools implements platform.Adapter.
func (a *Adapter) ReadTools(typ tool.Type, scope tool.Scope) ([]*tool.Entity, error) {
	switch typ {
	case tool.TypeMCPServer:
		return a.readMCPServers(scope)
	case tool.TypeHook:
		return a.readHooks(scope)
	case tool.TypeSkill, tool.TypeCommand, tool.TypePrompt:
		return a.readMarkdown(typ, scope)
	default:
		return nil, errors.Newf("claude: unsupported tool type %q", typ)
	}
}

// WriteTool implements platform.Adapter.
func (a *Adapter) WriteTool(t *tool.Entity, scope tool.Scope) error {
	if !t.Type.ValidAt(scope) {
		return errors.Newf("claude: %s tools cannot live at %s scope", t.Type, scope)
	}
	switch t.Type {
	case tool.TypeMCPServer:
		return a.writeMCPServer(t, scope)
	case tool.TypeHook:
		return a.writeHook(t, scope)
	case tool.TypeSkill, tool.TypeCommand, tool.TypePrompt:
		return a.writeMarkdown(t, scope)
	default:
		return errors.Newf("claude: unsupported tool type %q", t.Type)
	}
}

// RemoveTool implements platform.Adapter.
func (a *Adapter) RemoveTool(t *tool.Entity) error {
	switch t.Type {
	case tool.TypeMCPServer:
		return a.removeMCPServer(t)
	case tool.TypeHook:
		return a.removeHook(t)
	case tool.TypeSkill, tool.TypeCommand, tool.TypePrompt:
		return a.removeMarkdown(t)
	default:
		return errors.Newf("claude: unsupported tool type %q", t.Type)
	}
}

// ToggleTool implements platform.Adapter.
func (a *Adapter) ToggleTool(t *tool.Entity, enabled bool) error {
	if t.Scope == tool.ScopeManaged {
		return errors.Newf("claude: managed-scope tools are policy controlled and cannot be toggled")
	}
	switch t.Type {
	case tool.TypeMCPServer:
		return a.toggleMCPServer(t, enabled)
	case tool.TypeHook:
		return a.toggleHook(t, enabled)
	case tool.TypeSkill, tool.TypeCommand, tool.TypePrompt:
		return a.toggleMarkdown(t, enabled)
	default:
		return errors.Newf("claude: unsupported tool type %q", t.Type)
	}
}

// WatchPaths implements platform.Adapter. It returns the configuration
// files and tool directories a watcher should observe for the scope.
func (a *Adapter) WatchPaths(scope tool.Scope) []string {
	var out []string
	if p := a.mcpConfigPath(scope); p != "" {
		out = append(out, p)
	}
	if p := a.settingsPath(scope); p != "" && (len(out) == 0 || p != out[0]) {
		out = append(out, p)
	}
	for _, typ := range []tool.Type{tool.TypeSkill, tool.TypeCommand, tool.TypePrompt} {
		if !typ.ValidAt(scope) {
			continue
		}
		if dir := a.markdownDir(typ, scope); dir != "" {
			out = append(out, dir)
		}
	}
	return out
}
