// Package fileutil provides file system utilities including atomic write
// operations and stable JSON/TOML serialization.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/loadout/internal/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename
// pattern. This ensures interrupted writes leave the original file intact.
//
// Parent directories are created as needed. Permissions are applied to the
// final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	// Temp file must live in the same directory for an atomic rename
	// (same filesystem required).
	tmp, err := os.CreateTemp(dir, ".loadout-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only remove if rename failed (file still exists)
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// MarshalJSONStable serializes v as indented JSON with a trailing newline.
// encoding/json sorts map keys, so documents decoded into maps re-serialize
// with deterministic key order.
func MarshalJSONStable(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return append(data, '\n'), nil
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
// The file is created with 0644 permissions.
func AtomicWriteJSON(path string, v any) error {
	data, err := MarshalJSONStable(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}

// MarshalTOMLStable serializes v as TOML with a trailing newline.
// go-toml emits map keys in sorted order, giving a stable layout.
func MarshalTOMLStable(v any) ([]byte, error) {
	data, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling TOML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// AtomicWriteTOML writes v as TOML to path atomically.
// The file is created with 0644 permissions.
func AtomicWriteTOML(path string, v any) error {
	data, err := MarshalTOMLStable(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}
