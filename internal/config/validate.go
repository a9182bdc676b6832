package config

import (
	"errors"
	"fmt"

	"github.com/thoreinstein/loadout/internal/logging"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidAdapter indicates an unrecognized adapter name.
	ErrInvalidAdapter = errors.New("invalid adapter")

	// ErrInvalidRetention indicates a backup retention outside 1..20.
	ErrInvalidRetention = errors.New("backup_retention must be between 1 and 20")

	// ErrInvalidLogLevel indicates an unrecognized log level.
	ErrInvalidLogLevel = errors.New("log.level must be debug, info, warn, or error")

	// ErrInvalidLogFormat indicates an unrecognized log format.
	ErrInvalidLogFormat = errors.New("log.format must be text or json")
)

// knownAdapters are the adapter names the CLI can activate.
var knownAdapters = map[string]bool{
	"claude": true,
}

// FieldError attaches the offending field and value to a validation error.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.Adapter != "" && !knownAdapters[cfg.Adapter] {
		errs = append(errs, &FieldError{Field: "adapter", Value: cfg.Adapter, Err: ErrInvalidAdapter})
	}

	if cfg.BackupRetention < 1 || cfg.BackupRetention > 20 {
		errs = append(errs, ErrInvalidRetention)
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, &FieldError{Field: "log.level", Value: cfg.Log.Level, Err: ErrInvalidLogLevel})
	}

	if _, err := logging.ParseFormat(cfg.Log.Format); err != nil {
		errs = append(errs, &FieldError{Field: "log.format", Value: cfg.Log.Format, Err: ErrInvalidLogFormat})
	}

	return errs
}
