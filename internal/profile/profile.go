// Package profile implements named snapshots of desired tool states and
// the diff/apply machinery that switches the live environment between them.
//
// Profiles hold identity plus a desired enabled flag per canonical key,
// never raw vendor configuration, so they cannot go stale against vendor
// config syntax. The full profile set is persisted as one serialized blob
// under a fixed key in an injected key-value store and re-loaded fresh on
// every operation, so external mutation between calls is always picked up.
package profile

import (
	"time"
)

// Fixed keys in the session key-value store.
const (
	// profilesKey holds the serialized profile store blob.
	profilesKey = "profiles"

	// overridesKey holds the per-workspace manual override map.
	overridesKey = "profileOverrides"
)

// Entry records the desired enabled state for one logical tool.
type Entry struct {
	// Key is the tool's canonical key (scope-independent identity).
	Key string `json:"key"`

	// Enabled is the desired state when this profile is applied.
	Enabled bool `json:"enabled"`
}

// Profile is a named, timestamped snapshot of desired tool states.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Entries   []Entry   `json:"entries"`
}

// entryIndex returns the index of the entry with the given key, or -1.
func (p *Profile) entryIndex(key string) int {
	for i, e := range p.Entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// store is the persisted blob: all profiles plus the active-profile marker.
type store struct {
	Profiles []*Profile `json:"profiles"`
	ActiveID string     `json:"activeId,omitempty"`
}

func (s *store) byID(id string) *Profile {
	for _, p := range s.Profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Override records a manual profile override for one workspace.
type Override struct {
	// ManualProfileName is the profile chosen by hand, or nil when the
	// override explicitly clears automatic selection.
	ManualProfileName *string   `json:"manualProfileName"`
	Timestamp         time.Time `json:"timestamp"`
}

// SwitchResult reports the outcome of applying a profile.
// Partial failure is a result, not an error: the toggles that succeeded
// are valid and are not rolled back.
type SwitchResult struct {
	// Success is true only if every queued toggle succeeded.
	Success bool `json:"success"`

	// Toggled counts tools whose state was changed.
	Toggled int `json:"toggled"`

	// Skipped counts entries whose tool no longer exists or was already
	// in the desired state.
	Skipped int `json:"skipped"`

	// Failed counts toggles that returned an error.
	Failed int `json:"failed"`

	// Errors holds one message per failed toggle.
	Errors []string `json:"errors,omitempty"`
}
