// Package errors provides error handling conventions for loadout.
//
// It re-exports the cockroachdb/errors constructors used throughout the
// module, defines sentinel errors for common failure conditions, and an
// ExitError type carrying a CLI exit code and optional suggestion.
//
// Errors that compromise the integrity of a write (validation failure,
// unreadable source during a mutation) always propagate as errors. Errors
// scoped to a single configuration scope or a single profile entry are
// absorbed into result values by the callers in internal/engine and
// internal/profile.
package errors
