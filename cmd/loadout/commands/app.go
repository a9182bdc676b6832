package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/loadout/internal/backup"
	"github.com/thoreinstein/loadout/internal/engine"
	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/paths"
	"github.com/thoreinstein/loadout/internal/platform"
	"github.com/thoreinstein/loadout/internal/platform/claude"
	"github.com/thoreinstein/loadout/internal/profile"
	"github.com/thoreinstein/loadout/internal/schema"
	"github.com/thoreinstein/loadout/internal/state"
)

// app wires the engine, the active adapter, and the profile manager for
// one command invocation.
type app struct {
	engine   *engine.Engine
	profiles *profile.Manager
	kv       state.Store
	log      *slog.Logger
}

// newApp builds the dependency graph: adapter registry and schema registry
// feed the engine, the engine feeds the adapter, and the session store
// feeds the profile manager. Close it when the command is done.
func newApp(cmd *cobra.Command) (*app, error) {
	log := slog.Default()

	workspace := workspaceFlag
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "determining working directory")
		}
		// Without a marker the current directory itself serves as the
		// workspace, so project-scope commands still have a target.
		if root, err := paths.WorkspaceRoot(cwd); err == nil {
			workspace = root
		} else {
			workspace = cwd
		}
	}

	registry := platform.NewRegistry()
	eng := engine.New(registry, schema.NewRegistry(),
		engine.WithBackupStore(backup.NewStore(backup.WithRetention(loadedConfig.BackupRetention))),
		engine.WithLogger(log),
	)

	adapter := claude.New(eng,
		claude.WithWorkspace(workspace),
		claude.WithLogger(log),
	)
	if err := registry.Register(adapter); err != nil {
		return nil, err
	}
	if err := registry.SetActive(loadedConfig.Adapter); err != nil {
		return nil, errors.NewUserError(err, "set a known adapter in the loadout config")
	}

	kv, err := state.OpenBolt(loadedConfig.StatePath)
	if err != nil {
		return nil, errors.NewSystemError(err, "is another loadout process running?")
	}

	return &app{
		engine:   eng,
		profiles: profile.NewManager(kv, eng, profile.WithLogger(log)),
		kv:       kv,
		log:      log,
	}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn("closing state store", "error", err)
	}
}

// activeAdapter returns the adapter commands operate through.
func (a *app) activeAdapter() (platform.Adapter, error) {
	return a.engine.Adapters().Active()
}
