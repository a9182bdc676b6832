package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func serverSchema() Object {
	return Object{
		"mcpServers": {
			Kind: KindObject,
			Values: &Spec{
				Kind: KindObject,
				Fields: map[string]*Spec{
					"command":  {Kind: KindString},
					"args":     {Kind: KindArray, Elem: &Spec{Kind: KindString}},
					"env":      {Kind: KindObject, Values: &Spec{Kind: KindString}},
					"url":      {Kind: KindString},
					"disabled": {Kind: KindBool},
				},
			},
		},
	}
}

func TestValidatePassesUnknownFieldsThrough(t *testing.T) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			"github": map[string]any{
				"command":     "gh-mcp",
				"oauthTokens": map[string]any{"access": "secret"},
			},
		},
		"userPreferences": map[string]any{"theme": "dark"},
	}

	normalized, issues := serverSchema().Validate(doc)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if diff := cmp.Diff(doc, normalized); diff != "" {
		t.Errorf("normalized document dropped or changed fields (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			"github": map[string]any{
				"command": 42,
				"args":    []any{"ok", true},
			},
		},
	}

	_, issues := serverSchema().Validate(doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}

	fields := map[string]bool{}
	for _, i := range issues {
		fields[i.Field] = true
	}
	if !fields["mcpServers.github.command"] {
		t.Errorf("missing issue for command field, got %v", issues)
	}
	if !fields["mcpServers.github.args[1]"] {
		t.Errorf("missing issue for args element, got %v", issues)
	}
}

func TestValidateRequiredField(t *testing.T) {
	s := Object{
		"version": {Kind: KindNumber, Required: true},
	}

	_, issues := s.Validate(map[string]any{})
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if issues[0].Field != "version" {
		t.Errorf("Field = %q, want version", issues[0].Field)
	}
}

func TestValidateNilDocumentNormalizes(t *testing.T) {
	normalized, issues := serverSchema().Validate(nil)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if normalized == nil {
		t.Fatal("normalized document must not be nil")
	}
}

func TestValidateNullValueAccepted(t *testing.T) {
	doc := map[string]any{"mcpServers": nil}
	_, issues := serverSchema().Validate(doc)
	if len(issues) != 0 {
		t.Errorf("explicit null should not be a type mismatch: %v", issues)
	}
}

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("mcp.json", serverSchema()); err != nil {
		t.Fatal(err)
	}

	if !r.Has("mcp.json") {
		t.Error("Has should report registered schema")
	}
	if r.Has("settings.toml") {
		t.Error("Has should not report unregistered schema")
	}

	_, err := r.Validate("mcp.json", map[string]any{
		"mcpServers": map[string]any{"x": map[string]any{"command": 1}},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if serr.Issues[0].Field != "mcpServers.x.command" {
		t.Errorf("Field = %q", serr.Issues[0].Field)
	}
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("mcp.json", serverSchema()); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("mcp.json", serverSchema()); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestRegistryUnregisteredSchemaPanics(t *testing.T) {
	r := NewRegistry()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered schema name")
		}
	}()
	_, _ = r.Validate("never-registered", map[string]any{})
}
