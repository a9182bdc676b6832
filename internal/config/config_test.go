package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	Init()
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	// Run from an empty directory so no stray config.yaml interferes.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Adapter != "claude" {
		t.Errorf("adapter = %q, want claude", cfg.Adapter)
	}
	if cfg.BackupRetention != 5 {
		t.Errorf("backup_retention = %d, want 5", cfg.BackupRetention)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
adapter: claude
backup_retention: 3
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackupRetention != 3 {
		t.Errorf("backup_retention = %d, want 3", cfg.BackupRetention)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	resetViper(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing config file must error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "zero version",
			mutate:  func(c *Config) { c.Version = 0 },
			wantErr: ErrVersionTooLow,
		},
		{
			name:    "unknown adapter",
			mutate:  func(c *Config) { c.Adapter = "copilot" },
			wantErr: ErrInvalidAdapter,
		},
		{
			name:    "retention too low",
			mutate:  func(c *Config) { c.BackupRetention = 0 },
			wantErr: ErrInvalidRetention,
		},
		{
			name:    "retention too high",
			mutate:  func(c *Config) { c.BackupRetention = 50 },
			wantErr: ErrInvalidRetention,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Version:         1,
				Adapter:         "claude",
				BackupRetention: 5,
			}
			tt.mutate(cfg)

			errs := Validate(cfg)
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), errs)
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("error = %v, want %v", errs[0], tt.wantErr)
			}
		})
	}

	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("nil config: %v", errs)
	}
}
