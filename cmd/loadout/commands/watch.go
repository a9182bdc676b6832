package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the adapter's configuration files for external changes",
	Long: `Watch the active adapter's configuration paths and report when
another process changes them. Useful while hand-editing configs or
debugging a tool that rewrites them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		adapter, err := a.activeAdapter()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := watch.New(adapter, watch.WithLogger(a.log))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s configuration (Ctrl-C to stop)\n", adapter.DisplayName())

		err = w.Run(ctx, func(ev watch.Event) {
			fmt.Fprintf(out, "changed: %s\n", ev.Path)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
