package engine

import (
	"sort"

	"github.com/thoreinstein/loadout/internal/tool"
)

// ReadAll reads entities of the given type from every scope applicable to
// that type and resolves them to one winner per canonical key.
//
// A failed per-scope read is contained: it becomes a single synthetic
// error entity for that scope, so one corrupt file never blocks the other
// scopes from loading. Only the absence of an active adapter propagates
// as an error, since that is a wiring bug.
func (e *Engine) ReadAll(typ tool.Type) ([]*tool.Entity, error) {
	adapter, err := e.adapters.Active()
	if err != nil {
		return nil, err
	}

	var all []*tool.Entity
	for _, scope := range tool.ScopesFor(typ) {
		entities, err := adapter.ReadTools(typ, scope)
		if err != nil {
			e.log.Warn("scope read failed",
				"adapter", adapter.Name(),
				"type", string(typ),
				"scope", scope.String(),
				"error", err)
			all = append(all, tool.NewErrorEntity(typ, scope, "", err))
			continue
		}
		all = append(all, entities...)
	}

	return Resolve(all), nil
}

// ReadByScope bypasses resolution and returns the adapter's raw result for
// exactly one scope. Callers use it to learn what literally exists at one
// level before writing there; a read failure propagates, because "I can't
// determine the current state" must never look like "nothing is there".
func (e *Engine) ReadByScope(typ tool.Type, scope tool.Scope) ([]*tool.Entity, error) {
	adapter, err := e.adapters.Active()
	if err != nil {
		return nil, err
	}
	return adapter.ReadTools(typ, scope)
}

// ExistsAt reports whether the given scope already holds a tool with the
// same canonical key as name/typ. Callers use it as an explicit conflict
// check before a move or install, so overwriting is a caller decision,
// never a silent side effect.
func (e *Engine) ExistsAt(typ tool.Type, scope tool.Scope, name string) (bool, error) {
	entities, err := e.ReadByScope(typ, scope)
	if err != nil {
		return false, err
	}

	key := (&tool.Entity{Type: typ, Name: name}).CanonicalKey()
	for _, ent := range entities {
		if ent.CanonicalKey() == key {
			return true, nil
		}
	}
	return false, nil
}

// Resolve groups entities by canonical key and picks one winner per group:
// the member whose scope has the highest precedence (managed > project >
// local > user). The winner carries one scope entry per contributing member,
// sorted by precedence, so no entity's existence is silently dropped.
//
// Precedence is authoritative for status and metadata: a tool disabled at
// project scope resolves disabled even if enabled at user scope. The
// user-scope state remains visible through the scope entries.
func Resolve(entities []*tool.Entity) []*tool.Entity {
	if len(entities) == 0 {
		return nil
	}

	groups := make(map[string][]*tool.Entity)
	var keys []string
	for _, ent := range entities {
		key := ent.CanonicalKey()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], ent)
	}

	winners := make([]*tool.Entity, 0, len(keys))
	for _, key := range keys {
		group := groups[key]

		winner := group[0]
		for _, ent := range group[1:] {
			if ent.Scope < winner.Scope {
				winner = ent
			}
		}

		entries := make([]tool.ScopeEntry, 0, len(group))
		for _, ent := range group {
			entries = append(entries, ent.Entry())
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Scope < entries[j].Scope
		})

		winner.ScopeEntries = entries
		winners = append(winners, winner)
	}

	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].CanonicalKey() < winners[j].CanonicalKey()
	})
	return winners
}
