package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// DefaultRetention is the number of rolling backups kept per file.
const DefaultRetention = 5

// ErrNoBackupsFound indicates no backup slots exist for a path.
var ErrNoBackupsFound = errors.New("no backups found")

// Store creates and rotates numbered backups of individual files.
//
// Backups are co-located with the original: <path>.bak.1 holds the
// immediately-prior version, <path>.bak.N the oldest. All state lives in
// the filesystem, so the rotation invariant holds across process restarts.
type Store struct {
	retention int
}

// Option configures a Store.
type Option func(*Store)

// WithRetention sets the number of backup slots to keep per file.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// NewStore creates a backup Store with the given options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retention returns the configured number of backup slots.
func (s *Store) Retention() int {
	return s.retention
}

// Backup rotates the numbered siblings of path and copies the current file
// into slot 1. It is a no-op if path does not exist.
//
// After any successful sequence of backups, at most Retention() backup files
// exist and slot 1 holds the immediately-prior version of the file.
func (s *Store) Backup(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return errors.Newf("cannot back up directory %s", path)
	}

	// Discard the oldest slot, then shift the rest down.
	oldest := SlotPath(path, s.retention)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return errors.Wrapf(err, "removing oldest backup %s", oldest)
		}
	}
	for i := s.retention - 1; i >= 1; i-- {
		src := SlotPath(path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, SlotPath(path, i+1)); err != nil {
			return errors.Wrapf(err, "rotating backup %s", src)
		}
	}

	if err := copyFile(path, SlotPath(path, 1), info.Mode()); err != nil {
		return errors.Wrapf(err, "writing backup slot 1 for %s", path)
	}
	return nil
}

// List returns the existing backup paths for path, newest (slot 1) first.
func (s *Store) List(path string) ([]string, error) {
	var found []string
	for i := 1; i <= s.retention; i++ {
		p := SlotPath(path, i)
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		found = append(found, p)
	}
	if len(found) == 0 {
		return nil, ErrNoBackupsFound
	}
	return found, nil
}

// Restore copies the backup in the given slot back over path.
// The current file is backed up first, so a restore is itself undoable.
func (s *Store) Restore(path string, slot int) error {
	if slot < 1 || slot > s.retention {
		return errors.Newf("slot must be between 1 and %d", s.retention)
	}

	src := SlotPath(path, slot)
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNoBackupsFound, "slot %d for %s", slot, path)
		}
		return errors.Wrapf(err, "stat %s", src)
	}

	if err := s.Backup(path); err != nil {
		return err
	}
	return copyFile(src, path, info.Mode())
}

// SlotPath returns the backup file path for the given slot.
func SlotPath(path string, slot int) string {
	return fmt.Sprintf("%s.bak.%d", path, slot)
}

// copyFile copies src to dst with the given mode. The copy is not atomic;
// callers rotate before copying so an interrupted copy only affects slot 1.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	return os.Chmod(dst, mode)
}
