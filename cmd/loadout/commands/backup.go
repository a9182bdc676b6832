package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/backup"
	"github.com/thoreinstein/loadout/internal/errors"
)

func init() {
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect and restore configuration file backups",
	Long: `Every destructive write keeps a rolling backup of the previous file
content next to the original (<file>.bak.1 is the newest). These
commands inspect and restore those backups.`,
}

var backupListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List backups of a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.engine.Backups().List(args[0])
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No backups for %s\n", args[0])
				return nil
			}
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLOT\tPATH\tSIZE\tMODIFIED")
		for i, path := range backups {
			info, err := os.Stat(path)
			if err != nil {
				return errors.Wrapf(err, "inspecting %s", path)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
				i+1, path, info.Size(), info.ModTime().Local().Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file> [slot]",
	Short: "Restore a configuration file from a backup slot",
	Long: `Restore a file from one of its backup slots (default: 1, the most
recent). The current content is backed up first, so a restore is itself
undoable.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		slot := 1
		if len(args) == 2 {
			slot, err = strconv.Atoi(args[1])
			if err != nil || slot < 1 {
				return errors.NewUserError(errors.Newf("invalid slot %q", args[1]),
					"slots are numbered from 1 (newest)")
			}
		}

		if err := a.engine.Backups().Restore(args[0], slot); err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, "run 'loadout backup list' to see available slots")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from slot %d\n", args[0], slot)
		return nil
	},
}
