// Package schema provides a registry of named structural schemas used to
// gate every structured configuration write.
//
// Schemas are deliberately tolerant: unknown top-level and nested fields
// always pass validation and survive in the normalized document. Vendor
// extensions, OAuth tokens, and user preferences the engine does not model
// must round-trip untouched; the write pipeline's correctness depends on it.
package schema

import (
	"fmt"
	"strings"
)

// Kind describes the expected shape of a document value.
type Kind int

// Value kinds.
const (
	KindAny Kind = iota
	KindString
	KindBool
	KindNumber
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Issue describes a single validation failure at a field path.
type Issue struct {
	// Field is the dotted path of the offending value, e.g. "mcpServers.github.args".
	Field string
	// Message is a human-readable description of the problem.
	Message string
	// Value is the offending value, when useful.
	Value any
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Spec describes the expected shape of one field. Fields not described by
// any Spec are passed through unchanged.
type Spec struct {
	// Kind is the expected value kind. KindAny accepts everything.
	Kind Kind

	// Required rejects documents where the field is absent.
	Required bool

	// Fields describes known child fields when Kind is KindObject.
	Fields map[string]*Spec

	// Values, when non-nil and Kind is KindObject, is applied to every
	// value in the object (a "map of" constraint). Checked in addition
	// to Fields.
	Values *Spec

	// Elem, when non-nil and Kind is KindArray, is applied to every element.
	Elem *Spec
}

// Object is a top-level document schema: a set of known field specs.
// It implements the Schema contract used by the Registry.
type Object map[string]*Spec

// Validate checks doc against the object schema. It returns the normalized
// document (never nil; unknown fields retained) and any issues found.
func (o Object) Validate(doc map[string]any) (map[string]any, []Issue) {
	if doc == nil {
		doc = make(map[string]any)
	}

	var issues []Issue
	for name, spec := range o {
		val, ok := doc[name]
		if !ok {
			if spec.Required {
				issues = append(issues, Issue{Field: name, Message: "required field is missing"})
			}
			continue
		}
		issues = append(issues, checkValue(name, val, spec)...)
	}

	return doc, issues
}

func checkValue(path string, val any, spec *Spec) []Issue {
	if spec == nil || spec.Kind == KindAny {
		return nil
	}
	// null is treated as absent rather than a type mismatch; JSON documents
	// routinely carry explicit nulls for cleared settings.
	if val == nil {
		return nil
	}

	var issues []Issue
	switch spec.Kind {
	case KindString:
		if _, ok := val.(string); !ok {
			issues = append(issues, Issue{Field: path, Message: "expected string", Value: val})
		}
	case KindBool:
		if _, ok := val.(bool); !ok {
			issues = append(issues, Issue{Field: path, Message: "expected bool", Value: val})
		}
	case KindNumber:
		switch val.(type) {
		case float64, int64, int, float32:
		default:
			issues = append(issues, Issue{Field: path, Message: "expected number", Value: val})
		}
	case KindObject:
		obj, ok := val.(map[string]any)
		if !ok {
			return []Issue{{Field: path, Message: "expected object", Value: val}}
		}
		for name, child := range spec.Fields {
			cv, present := obj[name]
			if !present {
				if child.Required {
					issues = append(issues, Issue{
						Field:   path + "." + name,
						Message: "required field is missing",
					})
				}
				continue
			}
			issues = append(issues, checkValue(path+"."+name, cv, child)...)
		}
		if spec.Values != nil {
			for name, cv := range obj {
				if _, known := spec.Fields[name]; known {
					continue
				}
				issues = append(issues, checkValue(path+"."+name, cv, spec.Values)...)
			}
		}
	case KindArray:
		arr, ok := val.([]any)
		if !ok {
			return []Issue{{Field: path, Message: "expected array", Value: val}}
		}
		if spec.Elem != nil {
			for i, ev := range arr {
				issues = append(issues, checkValue(fmt.Sprintf("%s[%d]", path, i), ev, spec.Elem)...)
			}
		}
	}

	return issues
}
