package state

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/thoreinstein/loadout/internal/errors"
)

// bucketName is the single bucket holding all session state.
var bucketName = []byte("loadout")

// Bolt is a Store backed by a bbolt database file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bbolt-backed store at path, creating
// parent directories as needed. The open has a short timeout so a stale
// lock from another process fails fast instead of blocking forever.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating state directory")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening state database %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating state bucket")
	}

	return &Bolt{db: db}, nil
}

// Get implements Store.
func (b *Bolt) Get(key string) ([]byte, bool, error) {
	var value []byte
	var found bool

	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading key %q", key)
	}
	return value, found, nil
}

// Put implements Store.
func (b *Bolt) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	return errors.Wrapf(err, "writing key %q", key)
}

// Delete implements Store.
func (b *Bolt) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	return errors.Wrapf(err, "deleting key %q", key)
}

// Close implements Store.
func (b *Bolt) Close() error {
	return b.db.Close()
}
