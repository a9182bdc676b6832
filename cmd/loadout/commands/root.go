// Package commands implements the CLI commands for loadout.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/cmd"
	"github.com/thoreinstein/loadout/internal/config"
	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/logging"
)

// Persistent flag values.
var (
	configFile    string
	workspaceFlag string
	verbosity     int
	quiet         bool
	logFormat     string
)

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// loadedConfig is the configuration resolved during initialization.
var loadedConfig *config.Config

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to loadout config file")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "",
		"workspace root for project and local scopes (default: auto-detected)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")

	rootCmd.Version = cmd.String()
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "loadout",
	Short: "Resolve and safely mutate AI coding assistant configurations",
	Long: `loadout reads the configuration stores of AI coding assistants
(MCP servers, skills, commands, hooks, prompts) across their scope
hierarchy, resolves which definition wins at each level, and applies
changes through a validated, backed-up, atomic write pipeline.

Named profiles snapshot the enabled state of every tool so whole
working setups can be switched in one command.`,
	Example: `  # Show every tool with its winning scope
  loadout tools list

  # Disable an MCP server at project scope
  loadout tools disable github --type mcp-server

  # Snapshot the current setup and switch between setups
  loadout profile create work
  loadout profile switch`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr, "check your loadout config file")
		}
		if errs := config.Validate(loadedConfig); len(errs) > 0 {
			return errors.NewUserError(errs[0], "fix the loadout config file")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// setupLogging configures the default logger from verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUserError(err, "valid formats: text, json")
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)
	return nil
}

// Execute runs the root command and maps the error to an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
			}
			return exitErr.Code
		}
		return errors.ExitUser
	}
	return errors.ExitSuccess
}
