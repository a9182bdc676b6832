package platform

import (
	"testing"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/tool"
)

// stubAdapter is a minimal Adapter for registry tests.
type stubAdapter struct {
	name      string
	installed bool
}

func (s *stubAdapter) Name() string        { return s.name }
func (s *stubAdapter) DisplayName() string { return s.name }
func (s *stubAdapter) ReadTools(tool.Type, tool.Scope) ([]*tool.Entity, error) {
	return nil, nil
}
func (s *stubAdapter) WriteTool(*tool.Entity, tool.Scope) error  { return nil }
func (s *stubAdapter) RemoveTool(*tool.Entity) error             { return nil }
func (s *stubAdapter) ToggleTool(*tool.Entity, bool) error       { return nil }
func (s *stubAdapter) WatchPaths(tool.Scope) []string            { return nil }
func (s *stubAdapter) Detect() bool                              { return s.installed }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubAdapter{name: "claude"}); err != nil {
		t.Fatal(err)
	}

	if err := r.Register(&stubAdapter{name: "claude"}); !errors.Is(err, ErrAdapterAlreadyRegistered) {
		t.Errorf("duplicate register = %v, want ErrAdapterAlreadyRegistered", err)
	}

	a, err := r.Get("claude")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "claude" {
		t.Errorf("Name = %q", a.Name())
	}

	if _, err := r.Get("gemini"); !errors.Is(err, ErrAdapterNotFound) {
		t.Errorf("Get unknown = %v, want ErrAdapterNotFound", err)
	}
}

func TestRegistryOrderAndAvailable(t *testing.T) {
	r := NewRegistry()
	for _, a := range []*stubAdapter{
		{name: "claude", installed: true},
		{name: "opencode", installed: false},
		{name: "gemini", installed: true},
	} {
		if err := r.Register(a); err != nil {
			t.Fatal(err)
		}
	}

	all := r.All()
	if len(all) != 3 || all[0].Name() != "claude" || all[2].Name() != "gemini" {
		t.Errorf("All order wrong: %v", names(all))
	}

	avail := r.Available()
	if len(avail) != 2 || avail[0].Name() != "claude" || avail[1].Name() != "gemini" {
		t.Errorf("Available = %v", names(avail))
	}
}

func TestRegistryActive(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Active(); !errors.Is(err, errors.ErrNoActiveAdapter) {
		t.Errorf("Active with none set = %v, want ErrNoActiveAdapter", err)
	}

	if err := r.SetActive("claude"); !errors.Is(err, ErrAdapterNotFound) {
		t.Errorf("SetActive unknown = %v", err)
	}

	if err := r.Register(&stubAdapter{name: "claude"}); err != nil {
		t.Fatal(err)
	}
	if err := r.SetActive("claude"); err != nil {
		t.Fatal(err)
	}
	a, err := r.Active()
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "claude" {
		t.Errorf("Active = %q", a.Name())
	}

	r.ClearActive()
	if _, err := r.Active(); !errors.Is(err, errors.ErrNoActiveAdapter) {
		t.Error("ClearActive did not clear the active adapter")
	}
}

func names(as []Adapter) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name()
	}
	return out
}
