package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/svnsweep/internal/filelock"
)

// ToolConfig is the persisted tool-path object: a single JSON document at a
// fixed user-scoped location.
type ToolConfig struct {
	// SVNPath is the manually chosen or previously resolved svn executable.
	SVNPath string `json:"svn_exe"`
}

// Store reads and writes the ToolConfig. The zero value is unusable; create
// one with DefaultStore or point the paths somewhere explicit in tests.
type Store struct {
	// Path is the primary location, a dotfile in the user's home directory.
	Path string

	// LegacyPath is the pre-1.0 location, read once as a migration source
	// when Path does not exist.
	LegacyPath string
}

// DefaultStore returns a Store over the standard locations:
// ~/.svnsweepconf as primary, with the old SafesvnResolver config under the
// local app-data directory as the migration source.
func DefaultStore() *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Store{
		Path:       filepath.Join(home, ".svnsweepconf"),
		LegacyPath: legacyConfigPath(home),
	}
}

// legacyConfigPath mirrors the original tool's %LOCALAPPDATA% layout so
// existing installs keep their chosen svn path.
func legacyConfigPath(home string) string {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		base = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(base, "SafesvnResolver", "config.json")
}

// Load reads the tool configuration. When the primary file is absent the
// legacy location is consulted once and, if found, its content is
// immediately re-persisted to the primary location. Load never fails:
// unreadable or corrupt files yield an empty configuration, since the worst
// outcome is re-resolving the executable from scratch.
func (s *Store) Load() *ToolConfig {
	if cfg, ok := readToolConfig(s.Path); ok {
		return cfg
	}

	if cfg, ok := readToolConfig(s.LegacyPath); ok {
		// Best-effort migration; a failed write just means the legacy file
		// is read again next time.
		_ = s.Save(cfg)
		return cfg
	}

	return &ToolConfig{}
}

// Save persists the tool configuration to the primary location, serialized
// behind a file lock and written atomically. Callers treat failure as a
// PersistenceFailure: logged, never allowed to block the primary operation.
func (s *Store) Save(cfg *ToolConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tool config: %w", err)
	}
	if err := filelock.LockAndWrite(s.Path, data); err != nil {
		return fmt.Errorf("write tool config: %w", err)
	}
	return nil
}

func readToolConfig(path string) (*ToolConfig, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var cfg ToolConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}
