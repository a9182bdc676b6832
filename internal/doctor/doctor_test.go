package doctor

import (
	"path/filepath"
	"testing"

	"github.com/thoreinstein/loadout/internal/config"
	"github.com/thoreinstein/loadout/internal/engine"
	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/schema"
	"github.com/thoreinstein/loadout/internal/tool"
)

type stubAdapter struct {
	name     string
	detected bool
	readErrs map[tool.Scope]error
}

func (s *stubAdapter) Name() string        { return s.name }
func (s *stubAdapter) DisplayName() string { return "Stub " + s.name }

func (s *stubAdapter) ReadTools(_ tool.Type, scope tool.Scope) ([]*tool.Entity, error) {
	if err := s.readErrs[scope]; err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *stubAdapter) WriteTool(*tool.Entity, tool.Scope) error { return nil }
func (s *stubAdapter) RemoveTool(*tool.Entity) error            { return nil }
func (s *stubAdapter) ToggleTool(*tool.Entity, bool) error      { return nil }
func (s *stubAdapter) WatchPaths(tool.Scope) []string           { return nil }
func (s *stubAdapter) Detect() bool                             { return s.detected }

type staticCheck struct {
	name    string
	results []*CheckResult
}

func (c *staticCheck) Name() string        { return c.name }
func (c *staticCheck) Category() string    { return "test" }
func (c *staticCheck) Run() []*CheckResult { return c.results }

func result(status Severity) *CheckResult {
	return &CheckResult{Name: "x", Category: "test", Status: status, Message: "msg"}
}

func TestRunnerAggregatesSummary(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&staticCheck{name: "a", results: []*CheckResult{result(SeverityPass), result(SeverityWarning)}})
	r.AddCheck(&staticCheck{name: "b", results: []*CheckResult{result(SeverityError), result(SeverityInfo)}})

	report := r.Run()

	if len(report.Results) != 4 {
		t.Fatalf("results = %d, want 4", len(report.Results))
	}
	want := Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if report.Timestamp.IsZero() {
		t.Error("report timestamp not set")
	}
}

func TestAdapterCheck(t *testing.T) {
	reg := platform.NewRegistry()
	if err := reg.Register(&stubAdapter{name: "present", detected: true}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&stubAdapter{name: "absent"}); err != nil {
		t.Fatal(err)
	}

	results := (&AdapterCheck{Registry: reg}).Run()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Status != SeverityPass {
		t.Errorf("detected adapter status = %v, want pass", results[0].Status)
	}
	if results[1].Status != SeverityWarning {
		t.Errorf("missing adapter status = %v, want warning", results[1].Status)
	}
	if results[1].FixHint == "" {
		t.Error("missing adapter has no fix hint")
	}
}

func TestAdapterCheckEmptyRegistry(t *testing.T) {
	results := (&AdapterCheck{Registry: platform.NewRegistry()}).Run()
	if len(results) != 1 || results[0].Status != SeverityError {
		t.Fatalf("got %+v, want single error result", results)
	}
}

func newCheckEngine(t *testing.T, a platform.Adapter) *engine.Engine {
	t.Helper()
	reg := platform.NewRegistry()
	if err := reg.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetActive(a.Name()); err != nil {
		t.Fatal(err)
	}
	return engine.New(reg, schema.NewRegistry())
}

func TestScopeReadCheckHealthy(t *testing.T) {
	eng := newCheckEngine(t, &stubAdapter{name: "ok", detected: true})

	results := (&ScopeReadCheck{Engine: eng}).Run()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != SeverityPass {
		t.Errorf("status = %v, want pass", results[0].Status)
	}
}

func TestScopeReadCheckReportsCorruptScope(t *testing.T) {
	a := &stubAdapter{
		name:     "bad",
		detected: true,
		readErrs: map[tool.Scope]error{tool.ScopeProject: errors.New("unexpected end of JSON input")},
	}
	eng := newCheckEngine(t, a)

	results := (&ScopeReadCheck{Engine: eng}).Run()

	var failures int
	for _, r := range results {
		if r.Status != SeverityError {
			t.Errorf("unexpected non-error result: %+v", r)
			continue
		}
		failures++
		if r.Details["scope"] != tool.ScopeProject.String() {
			t.Errorf("failure scope = %v, want project", r.Details["scope"])
		}
	}
	// Project scope applies to every tool type, so each type reports once.
	if failures != len(tool.Types()) {
		t.Errorf("failures = %d, want %d", failures, len(tool.Types()))
	}
}

func TestStateCheck(t *testing.T) {
	dir := t.TempDir()

	results := (&StateCheck{Path: filepath.Join(dir, "state.db")}).Run()
	if len(results) != 1 || results[0].Status != SeverityPass {
		t.Fatalf("writable dir: got %+v, want pass", results)
	}

	results = (&StateCheck{Path: filepath.Join(dir, "missing", "state.db")}).Run()
	if len(results) != 1 || results[0].Status != SeverityInfo {
		t.Fatalf("missing dir: got %+v, want info", results)
	}
}

func TestConfigCheck(t *testing.T) {
	valid := &config.Config{
		Version:         1,
		Adapter:         "claude",
		BackupRetention: 5,
		StatePath:       "/tmp/state.db",
	}
	valid.Log.Level = "info"
	valid.Log.Format = "text"

	results := (&ConfigCheck{Config: valid}).Run()
	if len(results) != 1 || results[0].Status != SeverityPass {
		t.Fatalf("valid config: got %+v, want pass", results)
	}

	invalid := *valid
	invalid.Adapter = "notepad"
	invalid.BackupRetention = 0

	results = (&ConfigCheck{Config: &invalid}).Run()
	if len(results) != 2 {
		t.Fatalf("invalid config results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Status != SeverityError {
			t.Errorf("status = %v, want error", r.Status)
		}
	}
}
