package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for svnsweep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svnsweep",
		Short: "Bulk conflict reconciliation for Subversion working copies",
		Long: `svnsweep discovers Subversion working copies under a directory tree,
scans them for merge conflicts, bulk-updates them, and automatically
resolves conflicts by trying acceptance strategies in order
(theirs-full, theirs-conflict, working).

The svn executable is located from the saved configuration, the PATH,
and known install locations; use 'svnsweep tool --set' to pin a path.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewUpdateCommand())
	cmd.AddCommand(NewResolveCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewToolCommand())

	return cmd
}
