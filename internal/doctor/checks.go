package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thoreinstein/loadout/internal/config"
	"github.com/thoreinstein/loadout/internal/engine"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/tool"
)

// AdapterCheck reports which platform adapters are registered and whether
// their vendor tooling is actually installed.
type AdapterCheck struct {
	Registry *platform.Registry
}

var _ Check = (*AdapterCheck)(nil)

// Name returns the unique identifier for this check.
func (c *AdapterCheck) Name() string {
	return "adapters"
}

// Category returns the grouping for this check.
func (c *AdapterCheck) Category() string {
	return "platform"
}

// Run executes the adapter detection check.
func (c *AdapterCheck) Run() []*CheckResult {
	adapters := c.Registry.All()
	if len(adapters) == 0 {
		return []*CheckResult{{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "no platform adapters registered",
		}}
	}

	var results []*CheckResult
	for _, a := range adapters {
		r := &CheckResult{
			Name:     c.Name() + ":" + a.Name(),
			Category: c.Category(),
			Details:  map[string]any{"adapter": a.Name()},
		}
		if a.Detect() {
			r.Status = SeverityPass
			r.Message = fmt.Sprintf("%s detected", a.DisplayName())
		} else {
			r.Status = SeverityWarning
			r.Message = fmt.Sprintf("%s not detected", a.DisplayName())
			r.FixHint = fmt.Sprintf("install %s or remove it from your config", a.DisplayName())
		}
		results = append(results, r)
	}
	return results
}

// ScopeReadCheck reads every tool type across every scope and reports the
// scopes whose documents cannot be read or parsed. It relies on the
// engine's error containment: a corrupt scope surfaces as a synthetic
// error entity, never as a failed run.
type ScopeReadCheck struct {
	Engine *engine.Engine
}

var _ Check = (*ScopeReadCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ScopeReadCheck) Name() string {
	return "scope-documents"
}

// Category returns the grouping for this check.
func (c *ScopeReadCheck) Category() string {
	return "config"
}

// Run executes the scope document health check.
func (c *ScopeReadCheck) Run() []*CheckResult {
	var results []*CheckResult
	healthy := 0

	for _, typ := range tool.Types() {
		resolved, err := c.Engine.ReadAll(typ)
		if err != nil {
			results = append(results, &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityError,
				Message:  fmt.Sprintf("reading %s tools: %v", typ, err),
			})
			continue
		}

		for _, ent := range resolved {
			if ent.Status != tool.StatusError {
				healthy++
				continue
			}
			results = append(results, &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityError,
				Message:  fmt.Sprintf("%s scope unreadable for %s tools", ent.Scope, typ),
				Details: map[string]any{
					"scope":  ent.Scope.String(),
					"type":   string(typ),
					"detail": ent.StatusDetail,
				},
				FixHint: "fix the file by hand or restore it with 'loadout backup restore'",
			})
		}
	}

	if len(results) == 0 {
		results = append(results, &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "all scope documents readable",
			Details:  map[string]any{"entries": healthy},
		})
	}
	return results
}

// StateCheck verifies the session state database location is usable.
type StateCheck struct {
	// Path is the state database path.
	Path string
}

var _ Check = (*StateCheck)(nil)

// Name returns the unique identifier for this check.
func (c *StateCheck) Name() string {
	return "session-state"
}

// Category returns the grouping for this check.
func (c *StateCheck) Category() string {
	return "state"
}

// Run executes the session state check.
func (c *StateCheck) Run() []*CheckResult {
	r := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.Path},
	}

	dir := filepath.Dir(c.Path)
	if info, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			r.Status = SeverityInfo
			r.Message = "state directory does not exist yet (created on first use)"
			return []*CheckResult{r}
		}
		r.Status = SeverityError
		r.Message = fmt.Sprintf("cannot access state directory: %v", err)
		return []*CheckResult{r}
	} else if !info.IsDir() {
		r.Status = SeverityError
		r.Message = "state path's parent is not a directory"
		r.FixHint = fmt.Sprintf("remove %s or set state_path in the config", dir)
		return []*CheckResult{r}
	}

	probe := filepath.Join(dir, ".loadout-doctor-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		r.Status = SeverityError
		r.Message = fmt.Sprintf("state directory not writable: %v", err)
		return []*CheckResult{r}
	}
	os.Remove(probe)

	r.Status = SeverityPass
	r.Message = "state directory writable"
	return []*CheckResult{r}
}

// ConfigCheck validates loadout's own configuration.
type ConfigCheck struct {
	Config *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "loadout-config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the configuration validation check.
func (c *ConfigCheck) Run() []*CheckResult {
	errs := config.Validate(c.Config)
	if len(errs) == 0 {
		return []*CheckResult{{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "configuration valid",
		}}
	}

	results := make([]*CheckResult, 0, len(errs))
	for _, err := range errs {
		results = append(results, &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  err.Error(),
			FixHint:  "edit the loadout config file",
		})
	}
	return results
}
