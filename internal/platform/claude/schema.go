package claude

import (
	"github.com/thoreinstein/loadout/internal/schema"
)

// mcpServerSpec models one entry of the mcpServers map. Fields beyond
// these pass through validation and serialization untouched.
func mcpServerSpec() *schema.Spec {
	return &schema.Spec{
		Kind: schema.KindObject,
		Fields: map[string]*schema.Spec{
			"type":      {Kind: schema.KindString},
			"command":   {Kind: schema.KindString},
			"args":      {Kind: schema.KindArray, Elem: &schema.Spec{Kind: schema.KindString}},
			"url":       {Kind: schema.KindString},
			"env":       {Kind: schema.KindObject, Values: &schema.Spec{Kind: schema.KindString}},
			"headers":   {Kind: schema.KindObject, Values: &schema.Spec{Kind: schema.KindString}},
			"disabled":  {Kind: schema.KindBool},
			"platforms": {Kind: schema.KindArray, Elem: &schema.Spec{Kind: schema.KindString}},
		},
	}
}

// hookGroupSpec models one matcher group inside a hooks event list.
func hookGroupSpec() *schema.Spec {
	return &schema.Spec{
		Kind: schema.KindObject,
		Fields: map[string]*schema.Spec{
			"matcher":  {Kind: schema.KindString},
			"disabled": {Kind: schema.KindBool},
			"hooks": {
				Kind: schema.KindArray,
				Elem: &schema.Spec{
					Kind: schema.KindObject,
					Fields: map[string]*schema.Spec{
						"type":    {Kind: schema.KindString},
						"command": {Kind: schema.KindString},
						"timeout": {Kind: schema.KindNumber},
					},
				},
			},
		},
	}
}

func mcpDocumentSchema() schema.Object {
	return schema.Object{
		"mcpServers": {
			Kind:   schema.KindObject,
			Values: mcpServerSpec(),
		},
	}
}

func settingsDocumentSchema() schema.Object {
	return schema.Object{
		"mcpServers": {
			Kind:   schema.KindObject,
			Values: mcpServerSpec(),
		},
		"hooks": {
			Kind: schema.KindObject,
			Values: &schema.Spec{
				Kind: schema.KindArray,
				Elem: hookGroupSpec(),
			},
		},
	}
}
