package profile

import (
	"encoding/json"

	"github.com/thoreinstein/loadout/internal/errors"
)

// loadOverrides reads the workspace override map. Missing key means no
// overrides recorded.
func (m *Manager) loadOverrides() (map[string]Override, error) {
	data, ok, err := m.kv.Get(overridesKey)
	if err != nil {
		return nil, errors.Wrap(err, "loading workspace overrides")
	}
	if !ok {
		return make(map[string]Override), nil
	}

	var overrides map[string]Override
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, errors.Wrap(err, "decoding workspace overrides")
	}
	if overrides == nil {
		overrides = make(map[string]Override)
	}
	return overrides, nil
}

func (m *Manager) saveOverrides(overrides map[string]Override) error {
	data, err := json.Marshal(overrides)
	if err != nil {
		return errors.Wrap(err, "encoding workspace overrides")
	}
	return errors.Wrap(m.kv.Put(overridesKey, data), "saving workspace overrides")
}

// SetWorkspaceOverride records a manual profile choice for a workspace.
// A nil profileName is itself a meaningful override: it pins the workspace
// to "no automatic profile" rather than removing the record.
func (m *Manager) SetWorkspaceOverride(workspace string, profileName *string) error {
	overrides, err := m.loadOverrides()
	if err != nil {
		return err
	}
	overrides[workspace] = Override{
		ManualProfileName: profileName,
		Timestamp:         m.now().UTC(),
	}
	return m.saveOverrides(overrides)
}

// ClearWorkspaceOverride removes the override record for a workspace,
// restoring automatic selection. Clearing a workspace with no override is
// not an error.
func (m *Manager) ClearWorkspaceOverride(workspace string) error {
	overrides, err := m.loadOverrides()
	if err != nil {
		return err
	}
	if _, ok := overrides[workspace]; !ok {
		return nil
	}
	delete(overrides, workspace)
	return m.saveOverrides(overrides)
}

// WorkspaceOverride returns the override for a workspace, if one exists.
func (m *Manager) WorkspaceOverride(workspace string) (Override, bool, error) {
	overrides, err := m.loadOverrides()
	if err != nil {
		return Override{}, false, err
	}
	o, ok := overrides[workspace]
	return o, ok, nil
}
