package claude

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/tool"
	"github.com/thoreinstein/loadout/pkg/fileutil"
)

// ErrHookNotFound is returned when no matcher group exists for the
// entity's event and matcher.
var ErrHookNotFound = errors.New("hook not found")

// readHooks loads the hooks section of the scope's settings document.
// Each matcher group becomes one entity; the event and matcher land in
// metadata, where canonical identity expects them.
func (a *Adapter) readHooks(scope tool.Scope) ([]*tool.Entity, error) {
	path := a.settingsPath(scope)
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
	events, _ := doc["hooks"].(map[string]any)

	var entities []*tool.Entity
	for event, raw := range events {
		groups, ok := raw.([]any)
		if !ok {
			return nil, errors.Newf("parsing %s: hooks.%s is not a list", path, event)
		}
		for _, g := range groups {
			group, ok := g.(map[string]any)
			if !ok {
				return nil, errors.Newf("parsing %s: hooks.%s entry is not an object", path, event)
			}
			matcher, _ := group["matcher"].(string)

			status := tool.StatusEnabled
			if disabled, _ := group["disabled"].(bool); disabled {
				status = tool.StatusDisabled
			}

			meta := make(map[string]any, len(group)+1)
			for k, v := range group {
				meta[k] = v
			}
			meta["event"] = event

			entities = append(entities, &tool.Entity{
				ID:       "claude:hook:" + scope.String() + ":" + event + ":" + matcher,
				Type:     tool.TypeHook,
				Name:     event + "/" + matcher,
				Scope:    scope,
				Status:   status,
				Path:     path,
				Metadata: meta,
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
	return entities, nil
}

// hookIdentity extracts the event and matcher that address a hook group.
func hookIdentity(t *tool.Entity) (event, matcher string, err error) {
	event, _ = t.Metadata["event"].(string)
	matcher, _ = t.Metadata["matcher"].(string)
	if event == "" {
		return "", "", errors.Newf("claude: hook entity missing event metadata")
	}
	return event, matcher, nil
}

// writeHook creates or replaces the matcher group for the entity's event
// and matcher. The group content comes from the entity's metadata minus
// the event key, which exists only for identity.
func (a *Adapter) writeHook(t *tool.Entity, scope tool.Scope) error {
	event, matcher, err := hookIdentity(t)
	if err != nil {
		return err
	}
	path := a.settingsPath(scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", scope)
	}

	group := make(map[string]any, len(t.Metadata))
	for k, v := range t.Metadata {
		if k == "event" {
			continue
		}
		group[k] = v
	}
	group["matcher"] = matcher

	return a.engine.WriteConfig(path, schemaSettings, func(doc map[string]any) (map[string]any, error) {
		events, _ := doc["hooks"].(map[string]any)
		if events == nil {
			events = make(map[string]any)
		}
		groups, _ := events[event].([]any)

		replaced := false
		for i, g := range groups {
			if existing, ok := g.(map[string]any); ok {
				if m, _ := existing["matcher"].(string); m == matcher {
					groups[i] = group
					replaced = true
					break
				}
			}
		}
		if !replaced {
			groups = append(groups, group)
		}

		events[event] = groups
		doc["hooks"] = events
		return doc, nil
	})
}

// removeHook deletes the matcher group, dropping the event key entirely
// when its last group goes. Removing an absent hook is idempotent.
func (a *Adapter) removeHook(t *tool.Entity) error {
	event, matcher, err := hookIdentity(t)
	if err != nil {
		return err
	}
	path := a.settingsPath(t.Scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", t.Scope)
	}

	return a.engine.WriteConfig(path, schemaSettings, func(doc map[string]any) (map[string]any, error) {
		events, _ := doc["hooks"].(map[string]any)
		groups, _ := events[event].([]any)

		kept := make([]any, 0, len(groups))
		for _, g := range groups {
			if existing, ok := g.(map[string]any); ok {
				if m, _ := existing["matcher"].(string); m == matcher {
					continue
				}
			}
			kept = append(kept, g)
		}

		if len(kept) == 0 {
			delete(events, event)
		} else {
			events[event] = kept
		}
		return doc, nil
	})
}

// toggleHook flips the matcher group's disabled field in place.
func (a *Adapter) toggleHook(t *tool.Entity, enabled bool) error {
	event, matcher, err := hookIdentity(t)
	if err != nil {
		return err
	}
	path := a.settingsPath(t.Scope)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", t.Scope)
	}

	return a.engine.WriteConfig(path, schemaSettings, func(doc map[string]any) (map[string]any, error) {
		events, _ := doc["hooks"].(map[string]any)
		groups, _ := events[event].([]any)

		for _, g := range groups {
			group, ok := g.(map[string]any)
			if !ok {
				continue
			}
			if m, _ := group["matcher"].(string); m != matcher {
				continue
			}
			if enabled {
				delete(group, "disabled")
			} else {
				group["disabled"] = true
			}
			return doc, nil
		}
		return nil, errors.Wrapf(ErrHookNotFound, "%s/%s at %s scope", event, matcher, t.Scope)
	})
}
