package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/profile"
)

func init() {
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Snapshot and switch named tool setups",
	Long: `Profiles capture the enabled state of every tool as a named
snapshot. Switching to a profile toggles exactly the tools whose live
state differs from the snapshot; tools that no longer exist are skipped
and pruned on the next listing.`,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Snapshot the current tool states into a new profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.profiles.Create(args[0])
		if err != nil {
			if errors.Is(err, errors.ErrConflict) {
				return errors.NewUserError(err, "pick another name or delete the existing profile")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q with %d tools\n", p.Name, len(p.Entries))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		profiles, err := a.profiles.List()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles. Create one with 'loadout profile create <name>'.")
			return nil
		}

		// Listing is the lazy reconciliation point: entries whose tools
		// vanished since the snapshot are pruned here.
		for _, p := range profiles {
			if _, removed, err := a.profiles.Reconcile(p.ID); err != nil {
				return err
			} else if removed > 0 {
				a.log.Info("pruned stale profile entries", "profile", p.Name, "removed", removed)
			}
		}
		profiles, err = a.profiles.List()
		if err != nil {
			return err
		}
		active, err := a.profiles.Active()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTOOLS\tUPDATED\tACTIVE")
		for _, p := range profiles {
			marker := ""
			if active != nil && active.ID == p.ID {
				marker = color.GreenString("*")
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				p.Name, len(p.Entries), p.UpdatedAt.Local().Format("2006-01-02 15:04"), marker)
		}
		return w.Flush()
	},
}

var profileSwitchCmd = &cobra.Command{
	Use:   "switch [name]",
	Short: "Apply a profile's tool states",
	Long: `Apply a profile: every tool whose live enabled state differs from
the snapshot is toggled, one at a time. Without a name, an interactive
picker is shown. "none" deactivates the current profile without touching
any tool.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfileSwitch,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.profiles.GetByName(args[0])
		if err != nil {
			return errors.NewUserError(err, "run 'loadout profile list' to see profiles")
		}
		if err := a.profiles.Delete(p.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", p.Name)
		return nil
	},
}

// pickProfile shows the interactive fuzzy picker.
func pickProfile(profiles []*profile.Profile) (*profile.Profile, error) {
	idx, err := fuzzyfinder.Find(
		profiles,
		func(i int) string {
			return fmt.Sprintf("%s (%d tools)", profiles[i].Name, len(profiles[i].Entries))
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			p := profiles[i]
			var b strings.Builder
			fmt.Fprintf(&b, "Profile: %s\nUpdated: %s\n\n", p.Name, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			for _, e := range p.Entries {
				state := "disabled"
				if e.Enabled {
					state = "enabled"
				}
				fmt.Fprintf(&b, "%-9s %s\n", state, e.Key)
			}
			return b.String()
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting profile")
	}
	return profiles[idx], nil
}

func runProfileSwitch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	var target *profile.Profile
	switch {
	case len(args) == 1 && args[0] == "none":
		// Deactivate only.
	case len(args) == 1:
		target, err = a.profiles.GetByName(args[0])
		if err != nil {
			return errors.NewUserError(err, "run 'loadout profile list' to see profiles")
		}
	default:
		profiles, err := a.profiles.List()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No profiles. Create one with 'loadout profile create <name>'.")
			return nil
		}
		target, err = pickProfile(profiles)
		if err != nil {
			return err
		}
		if target == nil {
			return nil
		}
	}

	id := ""
	if target != nil {
		id = target.ID
		if _, _, err := a.profiles.Reconcile(id); err != nil {
			return err
		}
	}

	res, err := a.profiles.Switch(id)
	if err != nil {
		return err
	}

	if target == nil {
		fmt.Fprintln(out, "Deactivated profile")
		return nil
	}

	fmt.Fprintf(out, "Switched to %q: %d toggled, %d skipped", target.Name, res.Toggled, res.Skipped)
	if res.Failed > 0 {
		fmt.Fprintf(out, ", %s", color.RedString("%d failed", res.Failed))
	}
	fmt.Fprintln(out)
	for _, msg := range res.Errors {
		fmt.Fprintf(out, "  %s\n", color.RedString(msg))
	}
	if !res.Success {
		return errors.NewExitError(errors.Newf("%d toggles failed", res.Failed), errors.ExitSystem)
	}
	return nil
}
