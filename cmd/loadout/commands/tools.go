package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/tool"
)

var (
	toolsTypeFlag  string
	toolsScopeFlag string
	toolsJSONFlag  bool
)

func init() {
	toolsCmd.PersistentFlags().StringVarP(&toolsTypeFlag, "type", "t", "",
		"tool type: mcp-server, skill, command, hook, prompt (default: all)")
	toolsListCmd.Flags().StringVarP(&toolsScopeFlag, "scope", "s", "",
		"show the raw contents of one scope instead of the resolved view")
	toolsListCmd.Flags().BoolVar(&toolsJSONFlag, "json", false, "output in JSON format")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsEnableCmd)
	toolsCmd.AddCommand(toolsDisableCmd)
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and toggle tools across scopes",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools with their resolved scope and status",
	Long: `List tools across the scope hierarchy.

By default each tool appears once with the scope that wins precedence
(managed > project > local > user) and every other scope it is defined
at. With --scope, the raw unresolved contents of a single scope are
shown instead.`,
	Example: `  # Resolved view of everything
  loadout tools list

  # Only MCP servers
  loadout tools list --type mcp-server

  # What literally exists at user scope
  loadout tools list --type mcp-server --scope user`,
	RunE: runToolsList,
}

var toolsEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a tool at its winning scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolsToggle(cmd, args[0], true)
	},
}

var toolsDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a tool at its winning scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolsToggle(cmd, args[0], false)
	},
}

// listTypes returns the types selected by --type, or all of them.
func listTypes() ([]tool.Type, error) {
	if toolsTypeFlag == "" {
		return tool.Types(), nil
	}
	typ := tool.Type(toolsTypeFlag)
	if !typ.Valid() {
		return nil, errors.NewUserError(
			errors.Newf("unknown tool type %q", toolsTypeFlag),
			"valid types: mcp-server, skill, command, hook, prompt")
	}
	return []tool.Type{typ}, nil
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	types, err := listTypes()
	if err != nil {
		return err
	}

	var entities []*tool.Entity
	for _, typ := range types {
		var batch []*tool.Entity
		if toolsScopeFlag != "" {
			scope, err := tool.ParseScope(toolsScopeFlag)
			if err != nil {
				return errors.NewUserError(err, "valid scopes: managed, project, local, user")
			}
			if !typ.ValidAt(scope) {
				continue
			}
			batch, err = a.engine.ReadByScope(typ, scope)
			if err != nil {
				return err
			}
		} else {
			batch, err = a.engine.ReadAll(typ)
			if err != nil {
				return err
			}
		}
		entities = append(entities, batch...)
	}

	if toolsJSONFlag {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entities)
	}

	printEntities(cmd, entities)
	return nil
}

func printEntities(cmd *cobra.Command, entities []*tool.Entity) {
	out := cmd.OutOrStdout()
	if len(entities) == 0 {
		fmt.Fprintln(out, "No tools found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSCOPE\tSTATUS\tALSO AT")
	for _, e := range entities {
		var also []string
		for _, se := range e.ScopeEntries {
			if se.Scope != e.Scope {
				also = append(also, se.Scope.String())
			}
		}

		status := string(e.Status)
		switch e.Status {
		case tool.StatusEnabled:
			status = color.GreenString(status)
		case tool.StatusDisabled:
			status = color.YellowString(status)
		case tool.StatusError:
			status = color.RedString(status)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Name, e.Type, e.Scope, status, strings.Join(also, ","))

		if e.Status == tool.StatusError && e.StatusDetail != "" {
			fmt.Fprintf(w, "\t\t\t\t%s\n", color.RedString(e.StatusDetail))
		}
	}
	w.Flush()
}

// findResolved locates the resolved entity for a name, requiring --type
// when the name is ambiguous across types.
func (a *app) findResolved(name string) (*tool.Entity, error) {
	types, err := listTypes()
	if err != nil {
		return nil, err
	}

	var matches []*tool.Entity
	for _, typ := range types {
		resolved, err := a.engine.ReadAll(typ)
		if err != nil {
			return nil, err
		}
		want := (&tool.Entity{Type: typ, Name: name}).CanonicalKey()
		for _, e := range resolved {
			if e.Status != tool.StatusError && e.CanonicalKey() == want {
				matches = append(matches, e)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "tool %q", name),
			"run 'loadout tools list' to see available tools")
	case 1:
		return matches[0], nil
	default:
		return nil, errors.NewUserError(
			errors.Newf("%q exists as multiple tool types", name),
			"disambiguate with --type")
	}
}

func runToolsToggle(cmd *cobra.Command, name string, enabled bool) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ent, err := a.findResolved(name)
	if err != nil {
		return err
	}
	adapter, err := a.activeAdapter()
	if err != nil {
		return err
	}

	if err := adapter.ToggleTool(ent, enabled); err != nil {
		return err
	}
	// Keep the active profile in sync with the manual change.
	if err := a.profiles.SyncTool(ent, enabled); err != nil {
		return err
	}

	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %q at %s scope\n", verb, ent.Type, ent.Name, ent.Scope)
	return nil
}
