package profile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/loadout/internal/engine"
	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/logging"
	"github.com/thoreinstein/loadout/internal/state"
	"github.com/thoreinstein/loadout/internal/tool"
)

// Manager owns profile lifecycle and application. It reads the live tool
// set through the engine and persists profiles in the session store.
type Manager struct {
	kv     state.Store
	engine *engine.Engine
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// withClock overrides the time source. Test use only.
func withClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager persisting to kv and reading live state
// through eng.
func NewManager(kv state.Store, eng *engine.Engine, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		engine: eng,
		log:    logging.NewDiscard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// load reads the profile store blob. Missing blob means empty store.
// Always re-read, never cached: another process may have written between
// calls.
func (m *Manager) load() (*store, error) {
	data, ok, err := m.kv.Get(profilesKey)
	if err != nil {
		return nil, errors.Wrap(err, "loading profile store")
	}
	if !ok {
		return &store{}, nil
	}

	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding profile store")
	}
	return &s, nil
}

func (m *Manager) save(s *store) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding profile store")
	}
	return errors.Wrap(m.kv.Put(profilesKey, data), "saving profile store")
}

// Create snapshots the current live tool states into a new named profile.
//
// Managed-scope winners are excluded: their state is imposed by policy and
// cannot be toggled back. Synthetic error entities are excluded too; an
// unreadable scope is not a tool state worth capturing.
func (m *Manager) Create(name string) (*Profile, error) {
	if name == "" {
		return nil, errors.New("profile name must not be empty")
	}

	s, err := m.load()
	if err != nil {
		return nil, err
	}
	for _, p := range s.Profiles {
		if p.Name == name {
			return nil, errors.Wrapf(errors.ErrConflict, "profile %q already exists", name)
		}
	}

	entries, err := m.snapshotEntries()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	p := &Profile{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Entries:   entries,
	}
	s.Profiles = append(s.Profiles, p)

	if err := m.save(s); err != nil {
		return nil, err
	}
	m.log.Info("profile created", "name", name, "entries", len(entries))
	return p, nil
}

func (m *Manager) snapshotEntries() ([]Entry, error) {
	var entries []Entry
	for _, typ := range tool.Types() {
		live, err := m.engine.ReadAll(typ)
		if err != nil {
			return nil, err
		}
		for _, ent := range live {
			if ent.Status == tool.StatusError {
				continue
			}
			if ent.Scope == tool.ScopeManaged {
				continue
			}
			entries = append(entries, Entry{Key: ent.CanonicalKey(), Enabled: ent.Enabled()})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

// List returns all profiles sorted by name.
func (m *Manager) List() ([]*Profile, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}
	profiles := append([]*Profile(nil), s.Profiles...)
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// Get returns the profile with the given ID.
func (m *Manager) Get(id string) (*Profile, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}
	p := s.byID(id)
	if p == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "profile %q", id)
	}
	return p, nil
}

// GetByName returns the profile with the given name.
func (m *Manager) GetByName(name string) (*Profile, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}
	for _, p := range s.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "profile %q", name)
}

// Active returns the currently active profile, or nil when none is active
// or the marker points at a profile that no longer exists.
func (m *Manager) Active() (*Profile, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}
	if s.ActiveID == "" {
		return nil, nil
	}
	return s.byID(s.ActiveID), nil
}

// Delete removes a profile. Deleting the active profile also clears the
// active marker.
func (m *Manager) Delete(id string) error {
	s, err := m.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, p := range s.Profiles {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.Wrapf(errors.ErrNotFound, "profile %q", id)
	}

	s.Profiles = append(s.Profiles[:idx], s.Profiles[idx+1:]...)
	if s.ActiveID == id {
		s.ActiveID = ""
	}
	return m.save(s)
}

// Reconcile drops profile entries whose canonical key no longer exists in
// the live environment and reports how many entries remain valid and how
// many were removed. Profiles are never reconciled eagerly; callers invoke
// this when listing or before switching.
func (m *Manager) Reconcile(id string) (valid, removed int, err error) {
	live, err := m.liveEntities()
	if err != nil {
		return 0, 0, err
	}

	s, err := m.load()
	if err != nil {
		return 0, 0, err
	}
	p := s.byID(id)
	if p == nil {
		return 0, 0, errors.Wrapf(errors.ErrNotFound, "profile %q", id)
	}

	kept := p.Entries[:0]
	for _, e := range p.Entries {
		if _, ok := live[e.Key]; ok {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	p.Entries = kept

	if removed > 0 {
		p.UpdatedAt = m.now().UTC()
		if err := m.save(s); err != nil {
			return 0, 0, err
		}
		m.log.Info("profile reconciled", "name", p.Name, "removed", removed)
	}
	return len(p.Entries), removed, nil
}

// liveEntities returns the resolved entity per canonical key across every
// tool type, excluding synthetic error entities.
func (m *Manager) liveEntities() (map[string]*tool.Entity, error) {
	live := make(map[string]*tool.Entity)
	for _, typ := range tool.Types() {
		entities, err := m.engine.ReadAll(typ)
		if err != nil {
			return nil, err
		}
		for _, ent := range entities {
			if ent.Status == tool.StatusError {
				continue
			}
			live[ent.CanonicalKey()] = ent
		}
	}
	return live, nil
}

type pendingToggle struct {
	entity  *tool.Entity
	enabled bool
}

// Switch applies the profile with the given ID: it diffs the profile's
// desired states against the live environment and toggles only the tools
// whose state differs.
//
// An empty ID deactivates the current profile without touching any tool
// state; profiles describe desired state, so leaving one is not an action
// on the environment.
//
// Toggles run strictly sequentially. Adapters rewrite shared configuration
// files, and concurrent writers would race on the read-modify-write cycle.
// Partial failure is reported in the result, not returned as an error, and
// the profile still becomes active so the user can inspect and retry.
func (m *Manager) Switch(id string) (*SwitchResult, error) {
	s, err := m.load()
	if err != nil {
		return nil, err
	}

	if id == "" {
		if s.ActiveID != "" {
			s.ActiveID = ""
			if err := m.save(s); err != nil {
				return nil, err
			}
		}
		return &SwitchResult{Success: true}, nil
	}

	p := s.byID(id)
	if p == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "profile %q", id)
	}

	adapter, err := m.engine.Adapters().Active()
	if err != nil {
		return nil, err
	}

	live, err := m.liveEntities()
	if err != nil {
		return nil, err
	}

	res := &SwitchResult{}
	var queue []pendingToggle
	for _, entry := range p.Entries {
		ent, ok := live[entry.Key]
		if !ok {
			res.Skipped++
			continue
		}
		if ent.Enabled() == entry.Enabled {
			res.Skipped++
			continue
		}
		queue = append(queue, pendingToggle{entity: ent, enabled: entry.Enabled})
	}

	for _, tg := range queue {
		if err := adapter.ToggleTool(tg.entity, tg.enabled); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", tg.entity.CanonicalKey(), err))
			m.log.Warn("toggle failed",
				"profile", p.Name,
				"tool", tg.entity.CanonicalKey(),
				"error", err)
			continue
		}
		res.Toggled++
	}
	res.Success = res.Failed == 0

	s.ActiveID = p.ID
	if err := m.save(s); err != nil {
		return res, err
	}

	m.log.Info("profile switched",
		"name", p.Name,
		"toggled", res.Toggled,
		"skipped", res.Skipped,
		"failed", res.Failed)
	return res, nil
}

// SyncTool records a tool's new enabled state in the active profile so the
// profile tracks manual toggles made while it is active. No-op when no
// profile is active or the tool lives at managed scope.
func (m *Manager) SyncTool(t *tool.Entity, enabled bool) error {
	if t.Scope == tool.ScopeManaged {
		return nil
	}

	s, err := m.load()
	if err != nil {
		return err
	}
	if s.ActiveID == "" {
		return nil
	}
	p := s.byID(s.ActiveID)
	if p == nil {
		return nil
	}

	key := t.CanonicalKey()
	if i := p.entryIndex(key); i >= 0 {
		if p.Entries[i].Enabled == enabled {
			return nil
		}
		p.Entries[i].Enabled = enabled
	} else {
		p.Entries = append(p.Entries, Entry{Key: key, Enabled: enabled})
		sort.Slice(p.Entries, func(i, j int) bool {
			return p.Entries[i].Key < p.Entries[j].Key
		})
	}
	p.UpdatedAt = m.now().UTC()
	return m.save(s)
}

// RemoveTool drops a deleted tool's entry from the active profile. No-op
// when no profile is active or the profile has no entry for the tool.
func (m *Manager) RemoveTool(t *tool.Entity) error {
	s, err := m.load()
	if err != nil {
		return err
	}
	if s.ActiveID == "" {
		return nil
	}
	p := s.byID(s.ActiveID)
	if p == nil {
		return nil
	}

	i := p.entryIndex(t.CanonicalKey())
	if i < 0 {
		return nil
	}
	p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
	p.UpdatedAt = m.now().UTC()
	return m.save(s)
}
