package engine

import (
	"testing"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/schema"
	"github.com/thoreinstein/loadout/internal/tool"
)

// fakeAdapter serves canned entities per (type, scope) and records calls.
type fakeAdapter struct {
	name     string
	tools    map[tool.Type]map[tool.Scope][]*tool.Entity
	readErrs map[tool.Scope]error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		name:     "fake",
		tools:    make(map[tool.Type]map[tool.Scope][]*tool.Entity),
		readErrs: make(map[tool.Scope]error),
	}
}

func (f *fakeAdapter) add(e *tool.Entity) {
	byScope, ok := f.tools[e.Type]
	if !ok {
		byScope = make(map[tool.Scope][]*tool.Entity)
		f.tools[e.Type] = byScope
	}
	byScope[e.Scope] = append(byScope[e.Scope], e)
}

func (f *fakeAdapter) Name() string        { return f.name }
func (f *fakeAdapter) DisplayName() string { return "Fake" }

func (f *fakeAdapter) ReadTools(typ tool.Type, scope tool.Scope) ([]*tool.Entity, error) {
	if err := f.readErrs[scope]; err != nil {
		return nil, err
	}
	return f.tools[typ][scope], nil
}

func (f *fakeAdapter) WriteTool(*tool.Entity, tool.Scope) error { return nil }
func (f *fakeAdapter) RemoveTool(*tool.Entity) error            { return nil }
func (f *fakeAdapter) ToggleTool(*tool.Entity, bool) error      { return nil }
func (f *fakeAdapter) WatchPaths(tool.Scope) []string           { return nil }
func (f *fakeAdapter) Detect() bool                             { return true }

func entity(name string, scope tool.Scope, status tool.Status) *tool.Entity {
	return &tool.Entity{
		ID:     "fake:" + name + ":" + scope.String(),
		Type:   tool.TypeMCPServer,
		Name:   name,
		Scope:  scope,
		Status: status,
		Path:   "/cfg/" + scope.String() + ".json",
	}
}

func newTestEngine(t *testing.T, adapter platform.Adapter) *Engine {
	t.Helper()
	reg := platform.NewRegistry()
	if adapter != nil {
		if err := reg.Register(adapter); err != nil {
			t.Fatal(err)
		}
		if err := reg.SetActive(adapter.Name()); err != nil {
			t.Fatal(err)
		}
	}
	return New(reg, schema.NewRegistry())
}

func TestResolveEmptyInput(t *testing.T) {
	if got := Resolve(nil); len(got) != 0 {
		t.Errorf("Resolve(nil) = %d entities, want 0", len(got))
	}
	if got := Resolve([]*tool.Entity{}); len(got) != 0 {
		t.Errorf("Resolve(empty) = %d entities, want 0", len(got))
	}
}

func TestResolvePrecedenceTotality(t *testing.T) {
	// Same logical tool in every scope, inserted in every rotation order:
	// managed must always win.
	members := []*tool.Entity{
		entity("srv", tool.ScopeUser, tool.StatusEnabled),
		entity("srv", tool.ScopeLocal, tool.StatusEnabled),
		entity("srv", tool.ScopeProject, tool.StatusEnabled),
		entity("srv", tool.ScopeManaged, tool.StatusDisabled),
	}

	for rot := 0; rot < len(members); rot++ {
		input := append(append([]*tool.Entity{}, members[rot:]...), members[:rot]...)

		resolved := Resolve(input)
		if len(resolved) != 1 {
			t.Fatalf("rotation %d: %d winners, want 1", rot, len(resolved))
		}
		if resolved[0].Scope != tool.ScopeManaged {
			t.Errorf("rotation %d: winner scope = %v, want managed", rot, resolved[0].Scope)
		}
	}
}

func TestResolveScopeEntryCompleteness(t *testing.T) {
	input := []*tool.Entity{
		entity("srv", tool.ScopeUser, tool.StatusEnabled),
		entity("srv", tool.ScopeProject, tool.StatusDisabled),
		entity("other", tool.ScopeUser, tool.StatusEnabled),
	}

	resolved := Resolve(input)
	if len(resolved) != 2 {
		t.Fatalf("%d winners, want 2", len(resolved))
	}

	var srv *tool.Entity
	for _, e := range resolved {
		if e.Name == "srv" {
			srv = e
		}
	}
	if srv == nil {
		t.Fatal("srv winner missing")
	}

	if len(srv.ScopeEntries) != 2 {
		t.Fatalf("srv has %d scope entries, want 2", len(srv.ScopeEntries))
	}
	// Entries sorted by precedence: project before user.
	if srv.ScopeEntries[0].Scope != tool.ScopeProject || srv.ScopeEntries[1].Scope != tool.ScopeUser {
		t.Errorf("scope entries out of order: %+v", srv.ScopeEntries)
	}
}

func TestResolveDisabledAtHigherScopeWins(t *testing.T) {
	// Entity enabled at user and disabled at project: precedence governs
	// status even though user scope is "more enabled".
	input := []*tool.Entity{
		entity("a", tool.ScopeUser, tool.StatusEnabled),
		entity("a", tool.ScopeProject, tool.StatusDisabled),
	}

	resolved := Resolve(input)
	if len(resolved) != 1 {
		t.Fatalf("%d winners, want 1", len(resolved))
	}

	winner := resolved[0]
	if winner.Status != tool.StatusDisabled {
		t.Errorf("status = %v, want disabled", winner.Status)
	}
	if winner.Scope != tool.ScopeProject {
		t.Errorf("scope = %v, want project", winner.Scope)
	}
	if len(winner.ScopeEntries) != 2 {
		t.Fatalf("scope entries = %d, want 2", len(winner.ScopeEntries))
	}
	if winner.ScopeEntries[0].Status != tool.StatusDisabled {
		t.Errorf("project entry status = %v", winner.ScopeEntries[0].Status)
	}
	if winner.ScopeEntries[1].Status != tool.StatusEnabled {
		t.Errorf("user entry status = %v", winner.ScopeEntries[1].Status)
	}
}

func TestReadAllContainsScopeReadFailure(t *testing.T) {
	fake := newFakeAdapter()
	fake.add(entity("srv", tool.ScopeUser, tool.StatusEnabled))
	fake.readErrs[tool.ScopeProject] = errors.New("corrupt JSON at byte 17")

	e := newTestEngine(t, fake)
	resolved, err := e.ReadAll(tool.TypeMCPServer)
	if err != nil {
		t.Fatalf("one corrupt scope must not fail the whole read: %v", err)
	}

	var errEntity, srv *tool.Entity
	for _, ent := range resolved {
		switch ent.Status {
		case tool.StatusError:
			errEntity = ent
		default:
			if ent.Name == "srv" {
				srv = ent
			}
		}
	}
	if srv == nil {
		t.Error("healthy scope's entity missing from result")
	}
	if errEntity == nil {
		t.Fatal("expected a synthetic error entity for the corrupt scope")
	}
	if errEntity.Scope != tool.ScopeProject {
		t.Errorf("error entity scope = %v, want project", errEntity.Scope)
	}
	if errEntity.StatusDetail == "" {
		t.Error("error entity must carry the failure message")
	}
}

func TestReadAllNoActiveAdapter(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.ReadAll(tool.TypeMCPServer); !errors.Is(err, errors.ErrNoActiveAdapter) {
		t.Errorf("ReadAll = %v, want ErrNoActiveAdapter", err)
	}
}

func TestReadByScopeBypassesResolution(t *testing.T) {
	fake := newFakeAdapter()
	fake.add(entity("srv", tool.ScopeUser, tool.StatusEnabled))
	fake.add(entity("srv", tool.ScopeProject, tool.StatusDisabled))

	e := newTestEngine(t, fake)
	got, err := e.ReadByScope(tool.TypeMCPServer, tool.ScopeUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("%d entities, want the raw user-scope result", len(got))
	}
	if got[0].Scope != tool.ScopeUser || len(got[0].ScopeEntries) != 0 {
		t.Errorf("ReadByScope must return unresolved entities: %+v", got[0])
	}
}

func TestExistsAt(t *testing.T) {
	fake := newFakeAdapter()
	fake.add(entity("GitHub", tool.ScopeProject, tool.StatusEnabled))

	e := newTestEngine(t, fake)

	// Case-insensitive via canonical key.
	exists, err := e.ExistsAt(tool.TypeMCPServer, tool.ScopeProject, "github")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected conflict at project scope")
	}

	exists, err = e.ExistsAt(tool.TypeMCPServer, tool.ScopeUser, "github")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("no conflict expected at user scope")
	}
}
