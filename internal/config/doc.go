// Package config loads loadout's own configuration through Viper.
//
// Configuration is looked up as config.yaml in the current directory and
// then in <XDG config home>/loadout/. Every key can also be set through
// environment variables with the LOADOUT_ prefix (LOADOUT_ADAPTER,
// LOADOUT_BACKUP_RETENTION, ...).
//
// This file configures loadout itself. The vendor configuration files the
// tool manages are read and written by the engine and platform adapters,
// never through Viper.
package config
