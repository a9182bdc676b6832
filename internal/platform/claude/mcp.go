package claude

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/tool"
	"github.com/thoreinstein/loadout/pkg/fileutil"
)

// ErrServerNotFound is returned when a named MCP server is absent from the
// scope's document.
var ErrServerNotFound = errors.New("MCP server not found")

// readMCPServers loads the mcpServers map from the scope's document.
// A missing file or a scope with no configured path yields an empty list.
func (a *Adapter) readMCPServers(scope tool.Scope) ([]*tool.Entity, error) {
	path := a.mcpConfigPath(scope)
	if path == "" {
		return nil, nil
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	servers, _ := doc["mcpServers"].(map[string]any)

	entities := make([]*tool.Entity, 0, len(servers))
	for name, raw := range servers {
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, errors.Newf("parsing %s: server %q is not an object", path, name)
		}

		status := tool.StatusEnabled
		if disabled, _ := fields["disabled"].(bool); disabled {
			status = tool.StatusDisabled
		}
		desc, _ := fields["description"].(string)

		entities = append(entities, &tool.Entity{
			ID:          "claude:mcp:" + scope.String() + ":" + name,
			Type:        tool.TypeMCPServer,
			Name:        name,
			Description: desc,
			Scope:       scope,
			Status:      status,
			Path:        path,
			Metadata:    fields,
		})
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Name < entities[j].Name
	})
	return entities, nil
}

// writeMCPServer creates or updates a server entry at the given scope.
// The entity's metadata shallow-merges into any existing entry, so fields
// the caller does not model survive the update.
func (a *Adapter) writeMCPServer(t *tool.Entity, scope tool.Scope) error {
	if t.Name == "" {
		return errors.Newf("claude: MCP server name required")
	}
	path := a.mcpConfigPath(scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", scope)
	}

	return a.engine.WriteConfig(path, a.mcpSchemaFor(scope), func(doc map[string]any) (map[string]any, error) {
		servers, _ := doc["mcpServers"].(map[string]any)
		if servers == nil {
			servers = make(map[string]any)
		}

		name := t.Name
		if existing := findServerKey(servers, t.Name); existing != "" {
			name = existing
		}
		entry, _ := servers[name].(map[string]any)
		if entry == nil {
			entry = make(map[string]any)
		}
		for k, v := range t.Metadata {
			entry[k] = v
		}

		servers[name] = entry
		doc["mcpServers"] = servers
		return doc, nil
	})
}

// removeMCPServer deletes the server entry from its scope's document.
// Removing an absent server is idempotent.
func (a *Adapter) removeMCPServer(t *tool.Entity) error {
	path := a.mcpConfigPath(t.Scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", t.Scope)
	}

	return a.engine.WriteConfig(path, a.mcpSchemaFor(t.Scope), func(doc map[string]any) (map[string]any, error) {
		servers, _ := doc["mcpServers"].(map[string]any)
		if name := findServerKey(servers, t.Name); name != "" {
			delete(servers, name)
		}
		return doc, nil
	})
}

// toggleMCPServer flips the server's disabled field in place. Enabling
// deletes the field rather than writing disabled: false, keeping documents
// minimal.
func (a *Adapter) toggleMCPServer(t *tool.Entity, enabled bool) error {
	path := a.mcpConfigPath(t.Scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", t.Scope)
	}

	return a.engine.WriteConfig(path, a.mcpSchemaFor(t.Scope), func(doc map[string]any) (map[string]any, error) {
		servers, _ := doc["mcpServers"].(map[string]any)
		name := findServerKey(servers, t.Name)
		if name == "" {
			return nil, errors.Wrapf(ErrServerNotFound, "%q at %s scope", t.Name, t.Scope)
		}
		entry, ok := servers[name].(map[string]any)
		if !ok {
			return nil, errors.Newf("server %q is not an object", name)
		}

		if enabled {
			delete(entry, "disabled")
		} else {
			entry["disabled"] = true
		}
		return doc, nil
	})
}

// findServerKey locates the stored key matching name case-insensitively,
// since canonical identity lowercases names but documents keep the
// author's casing.
func findServerKey(servers map[string]any, name string) string {
	if _, ok := servers[name]; ok {
		return name
	}
	lower := strings.ToLower(name)
	for k := range servers {
		if strings.ToLower(k) == lower {
			return k
		}
	}
	return ""
}
