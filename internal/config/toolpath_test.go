package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := &Store{Path: filepath.Join(dir, ".svnsweepconf")}

	if err := store.Save(&ToolConfig{SVNPath: "/usr/bin/svn"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg := store.Load()
	if cfg.SVNPath != "/usr/bin/svn" {
		t.Errorf("expected /usr/bin/svn, got %q", cfg.SVNPath)
	}
}

func TestStoreLoadMissingYieldsEmpty(t *testing.T) {
	store := &Store{Path: filepath.Join(t.TempDir(), ".svnsweepconf")}
	cfg := store.Load()
	if cfg.SVNPath != "" {
		t.Errorf("expected empty config, got %q", cfg.SVNPath)
	}
}

func TestStoreLoadCorruptYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".svnsweepconf")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := &Store{Path: path}
	if cfg := store.Load(); cfg.SVNPath != "" {
		t.Errorf("corrupt file should yield empty config, got %q", cfg.SVNPath)
	}
}

func TestStoreLegacyMigration(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, ".svnsweepconf")
	legacy := filepath.Join(dir, "SafesvnResolver", "config.json")

	if err := os.MkdirAll(filepath.Dir(legacy), 0755); err != nil {
		t.Fatal(err)
	}
	legacyContent, _ := json.Marshal(&ToolConfig{SVNPath: `C:\Tools\svn.exe`})
	if err := os.WriteFile(legacy, legacyContent, 0644); err != nil {
		t.Fatal(err)
	}

	store := &Store{Path: primary, LegacyPath: legacy}
	cfg := store.Load()
	if cfg.SVNPath != `C:\Tools\svn.exe` {
		t.Fatalf("expected legacy path to be read, got %q", cfg.SVNPath)
	}

	// Migration re-persists to the primary location immediately.
	if _, err := os.Stat(primary); err != nil {
		t.Errorf("expected primary config to exist after migration: %v", err)
	}

	// Once migrated, the primary wins even if the legacy file changes.
	if err := os.WriteFile(legacy, []byte(`{"svn_exe":"elsewhere"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := store.Load(); cfg.SVNPath != `C:\Tools\svn.exe` {
		t.Errorf("expected primary to take priority, got %q", cfg.SVNPath)
	}
}
