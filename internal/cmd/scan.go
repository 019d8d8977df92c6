package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/svnsweep/internal/coordinator"
	"github.com/harrison/svnsweep/internal/models"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Find merge conflicts in every working copy under a directory",
		Long: `Scan discovers Subversion working copies beneath the given directory
(default: the current directory) and reports every conflicted path.

The structured XML status form is used first; when it fails, a plain-text
scan bounded by the configured timeout runs as a fallback. A timed-out
fallback is reported as an incomplete scan, never as a clean tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	addEngineFlags(cmd)
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	base, err := baseDir(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// The scan runs on the coordinator's worker so the command loop stays
	// free; Wait delivers the batch result once every root has completed.
	coord := coordinator.New()
	ctx := cmd.Context()
	if err := coord.Dispatch(func() (any, error) {
		return a.eng.ScanAll(ctx, base)
	}); err != nil {
		return err
	}

	result := coord.Wait()
	if result.Err != nil {
		return result.Err
	}
	session := result.Value.(*models.ScanSession)

	printSession(cmd.OutOrStdout(), session)
	return nil
}

// baseDir resolves the optional positional directory argument.
func baseDir(args []string) (string, error) {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base directory: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", base)
	}
	return abs, nil
}
