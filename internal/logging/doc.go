// Package logging provides slog-based logging for loadout with a
// TTY-optimized text handler and a JSON handler for machine consumption.
// Attribute values whose keys look secret-bearing are masked in text output.
package logging
