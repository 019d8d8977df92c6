package filelock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWriteCreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := AtomicWrite(path, []byte(`{"svn_exe":"/usr/bin/svn"}`)); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"svn_exe":"/usr/bin/svn"}` {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestAtomicWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := AtomicWrite(path, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, []byte("new")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("expected replacement content, got %s", data)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := AtomicWrite(path, []byte("data")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestLockAndWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := LockAndWrite(path, []byte("locked write")); err != nil {
		t.Fatalf("LockAndWrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "locked write" {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestLockBlocksAndReleases(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "config.json.lock")
	fl := New(lockPath)

	if err := fl.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if err := fl.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	// Reacquisition after release must not deadlock.
	if err := fl.Lock(); err != nil {
		t.Fatalf("relock failed: %v", err)
	}
	if err := fl.Unlock(); err != nil {
		t.Fatalf("second unlock failed: %v", err)
	}
}
