package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/svnsweep/internal/config"
	"github.com/harrison/svnsweep/internal/engine"
	"github.com/harrison/svnsweep/internal/history"
	"github.com/harrison/svnsweep/internal/logger"
	"github.com/harrison/svnsweep/internal/svn"
	"github.com/spf13/cobra"
)

// app bundles the wiring every command needs: engine configuration, the
// tool-path store, the svn adapter, and the logger.
type app struct {
	cfg   *config.Config
	store *config.Store
	tool  *svn.Tool
	log   *logger.ConsoleLogger
	eng   *engine.Engine
	hist  *history.Store
}

// newApp loads configuration and builds the engine. Commands that only
// touch configuration (tool, history) build their pieces directly instead.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if timeoutStr, _ := cmd.Flags().GetString("timeout"); timeoutStr != "" {
		d, parseErr := parseTimeout(timeoutStr)
		if parseErr != nil {
			return nil, parseErr
		}
		cfg.ScanTimeout = d
	}
	if ignores, _ := cmd.Flags().GetStringSlice("ignore"); len(ignores) > 0 {
		cfg.IgnoreDirs = append(cfg.IgnoreDirs, ignores...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := config.DefaultStore()
	tool := svn.NewTool(store.Load().SVNPath)
	log := logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)

	eng := engine.New(tool, log)
	eng.IgnoreDirs = cfg.IgnoreDirs
	eng.SetScanTimeout(cfg.ScanTimeout)

	// History recording is best-effort; a failed open degrades to no
	// recording rather than blocking the operation.
	hist, histErr := history.NewStore(historyPath())
	if histErr != nil {
		log.LogWarn(fmt.Sprintf("session history unavailable: %v", histErr))
	} else {
		eng.History = hist
	}

	return &app{
		cfg:   cfg,
		store: store,
		tool:  tool,
		log:   log,
		eng:   eng,
		hist:  hist,
	}, nil
}

// close releases resources held by the app.
func (a *app) close() {
	if a.hist != nil {
		a.hist.Close()
	}
}

// historyPath returns the session database location under the working
// directory's .svnsweep dir.
func historyPath() string {
	return filepath.Join(".svnsweep", "history.db")
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", s)
	}
	return d, nil
}

// addEngineFlags registers the flags shared by scan, update, and resolve.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .svnsweep/config.yaml)")
	cmd.Flags().Bool("verbose", false, "Show detailed progress")
	cmd.Flags().String("timeout", "", "Fallback scan timeout per working copy (e.g. 30s, 2m)")
	cmd.Flags().StringSlice("ignore", nil, "Additional directory names to skip while locating working copies")
}
