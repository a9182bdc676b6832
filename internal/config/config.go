// Package config provides configuration management for loadout using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/loadout/internal/backup"
	"github.com/thoreinstein/loadout/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "loadout"

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// Adapter is the platform adapter activated by default ("claude", ...).
	Adapter string `mapstructure:"adapter" yaml:"adapter"`

	// BackupRetention is the number of rolling backup slots kept per file.
	BackupRetention int `mapstructure:"backup_retention" yaml:"backup_retention"`

	// StatePath overrides the session state database location.
	StatePath string `mapstructure:"state_path" yaml:"state_path"`

	// Log controls diagnostic output.
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths, in order of precedence.
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	viper.SetEnvPrefix("LOADOUT")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("adapter", "claude")
	viper.SetDefault("backup_retention", backup.DefaultRetention)
	viper.SetDefault("state_path", paths.StateDBPath())
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns defaults when no file is found and no explicit path was given.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
