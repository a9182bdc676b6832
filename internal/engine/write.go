package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/pkg/fileutil"
)

// MutateFunc transforms the current document into a candidate document.
// It must be pure: no filesystem access, no retained references. Mutations
// should shallow-merge into the document rather than rebuilding it, so
// fields the caller does not model survive untouched.
type MutateFunc func(doc map[string]any) (map[string]any, error)

// WriteConfig runs the structured write pipeline against path:
//
//  1. Re-read the current document from disk (absent file = empty document).
//  2. Apply mutate to produce a candidate.
//  3. Validate the candidate against the named schema; abort with no
//     filesystem side effect on failure.
//  4. Back up the pre-mutation file.
//  5. Atomically write the candidate with a stable serialization.
//
// The re-read in step 1 exists so two back-to-back writes never clobber
// each other with a stale in-memory copy; the staleness window is the time
// between this read and this write, nothing more. The codec (JSON or TOML)
// is chosen by file extension.
func (e *Engine) WriteConfig(path, schemaName string, mutate MutateFunc) error {
	doc, err := e.readDocument(path)
	if err != nil {
		return err
	}

	candidate, err := mutate(doc)
	if err != nil {
		return errors.Wrapf(err, "mutating %s", path)
	}

	normalized, err := e.schemas.Validate(schemaName, candidate)
	if err != nil {
		return errors.Wrapf(err, "validating candidate for %s", path)
	}

	if err := e.backups.Backup(path); err != nil {
		return errors.Wrapf(err, "backing up %s", path)
	}

	data, err := encodeDocument(path, normalized)
	if err != nil {
		return err
	}

	e.log.Debug("writing config", "path", path, "schema", schemaName)
	return fileutil.AtomicWriteFile(path, data, 0o644)
}

// WriteText runs the unstructured pipeline: back up, then write content
// directly. No schema gate; used for markdown bodies and other free text
// where structural validation does not apply.
func (e *Engine) WriteText(path string, content []byte) error {
	if err := e.backups.Backup(path); err != nil {
		return errors.Wrapf(err, "backing up %s", path)
	}

	e.log.Debug("writing text", "path", path, "bytes", len(content))
	return fileutil.AtomicWriteFile(path, content, 0o644)
}

// readDocument loads and decodes the document at path. A missing file is an
// empty document; an unreadable or unparsable file is an error, since "I
// can't safely determine the current state" must never be treated as
// "current state is empty".
func (e *Engine) readDocument(path string) (map[string]any, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]any), nil
		}
		return nil, errors.Wrapf(err, "reading current state of %s", path)
	}
	return decodeDocument(path, data)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decodeDocument(path string, data []byte) (map[string]any, error) {
	doc := make(map[string]any)
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "parsing TOML document %s", path)
		}
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing JSON document %s", path)
	}
	return doc, nil
}

func encodeDocument(path string, doc map[string]any) ([]byte, error) {
	if isTOML(path) {
		return fileutil.MarshalTOMLStable(doc)
	}
	return fileutil.MarshalJSONStable(doc)
}
