package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeVersion(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.WriteFile(path, fmt.Appendf(nil, "version %d", n), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBackupNonexistentPathIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.json")

	s := NewStore()
	if err := s.Backup(path); err != nil {
		t.Fatalf("Backup on missing path: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no .bak files, found %d entries", len(entries))
	}
}

func TestBackupSlotOneHoldsPriorVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s := NewStore()

	writeVersion(t, path, 1)
	if err := s.Backup(path); err != nil {
		t.Fatal(err)
	}
	writeVersion(t, path, 2)
	if err := s.Backup(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(SlotPath(path, 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version 2" {
		t.Errorf("slot 1 = %q, want the immediately-prior version", data)
	}

	data, err = os.ReadFile(SlotPath(path, 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version 1" {
		t.Errorf("slot 2 = %q, want version 1", data)
	}
}

func TestBackupBound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s := NewStore()

	const k = 8
	for i := 1; i <= k; i++ {
		writeVersion(t, path, i)
		if err := s.Backup(path); err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
	}

	backups, err := s.List(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != DefaultRetention {
		t.Errorf("after %d backups, %d files exist, want %d", k, len(backups), DefaultRetention)
	}

	// Slot 1 holds the k-th version written (the content present at the
	// last Backup call); slot 5 holds version k-4.
	data, err := os.ReadFile(SlotPath(path, 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != fmt.Sprintf("version %d", k) {
		t.Errorf("slot 1 = %q", data)
	}
	data, err = os.ReadFile(SlotPath(path, DefaultRetention))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != fmt.Sprintf("version %d", k-DefaultRetention+1) {
		t.Errorf("oldest slot = %q", data)
	}
}

func TestBackupSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	writeVersion(t, path, 1)
	if err := NewStore().Backup(path); err != nil {
		t.Fatal(err)
	}

	// A fresh Store (new process) must continue the same rotation.
	writeVersion(t, path, 2)
	if err := NewStore().Backup(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(SlotPath(path, 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version 1" {
		t.Errorf("rotation state lost across stores: slot 2 = %q", data)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s := NewStore()

	for i := 1; i <= 3; i++ {
		writeVersion(t, path, i)
		if err := s.Backup(path); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := s.List(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{SlotPath(path, 1), SlotPath(path, 2), SlotPath(path, 3)}
	if len(backups) != len(want) {
		t.Fatalf("List returned %d paths, want %d", len(backups), len(want))
	}
	for i := range want {
		if backups[i] != want[i] {
			t.Errorf("backups[%d] = %q, want %q", i, backups[i], want[i])
		}
	}
}

func TestListNoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := NewStore().List(path); err != ErrNoBackupsFound {
		t.Errorf("List = %v, want ErrNoBackupsFound", err)
	}
}

func TestRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s := NewStore()

	writeVersion(t, path, 1)
	if err := s.Backup(path); err != nil {
		t.Fatal(err)
	}
	writeVersion(t, path, 2)

	if err := s.Restore(path, 1); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version 1" {
		t.Errorf("restored content = %q, want version 1", data)
	}

	// The pre-restore content was itself backed up.
	data, err = os.ReadFile(SlotPath(path, 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version 2" {
		t.Errorf("slot 1 after restore = %q, want version 2", data)
	}
}

func TestRestoreMissingSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewStore()

	if err := s.Restore(path, 3); err == nil {
		t.Error("expected error restoring from empty slot")
	}
	if err := s.Restore(path, 0); err == nil {
		t.Error("expected error for out-of-range slot")
	}
}

func TestWithRetention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	s := NewStore(WithRetention(2))

	for i := 1; i <= 4; i++ {
		writeVersion(t, path, i)
		if err := s.Backup(path); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := s.List(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("retention 2 kept %d backups", len(backups))
	}
}
