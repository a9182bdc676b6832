package state

import (
	"path/filepath"
	"testing"
)

// storeConformance runs the Store contract against an implementation.
func storeConformance(t *testing.T, s Store) {
	t.Helper()

	// Missing key
	_, ok, err := s.Get("absent")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Get on absent key reported found")
	}

	// Put / Get
	if err := s.Put("profiles", []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get("profiles")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(v) != `{"v":1}` {
		t.Errorf("Get = %q, found=%v", v, ok)
	}

	// Overwrite
	if err := s.Put("profiles", []byte(`{"v":2}`)); err != nil {
		t.Fatal(err)
	}
	v, _, err = s.Get("profiles")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != `{"v":2}` {
		t.Errorf("overwrite failed: %q", v)
	}

	// Delete, including idempotent delete of a missing key
	if err := s.Delete("profiles"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("profiles"); ok {
		t.Error("key still present after delete")
	}
	if err := s.Delete("profiles"); err != nil {
		t.Errorf("deleting a missing key should not error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	storeConformance(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	buf := []byte("original")
	if err := s.Put("k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	v, _, err := s.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "original" {
		t.Error("store aliased the caller's buffer")
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	storeConformance(t, s)
}

func TestBoltStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("activeProfile", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	v, ok, err := s2.Get("activeProfile")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(v) != "abc" {
		t.Errorf("value lost across reopens: %q found=%v", v, ok)
	}
}
