package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrison/svnsweep/internal/config"
	"github.com/harrison/svnsweep/internal/svn"
	"github.com/spf13/cobra"
)

// NewToolCommand creates the tool command
func NewToolCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Show or set the svn executable path",
		Long: `Without flags, tool prints the svn executable svnsweep would use,
resolved from the saved configuration, the PATH, and known install
locations, in that order.

With --set, the given path is validated and persisted to the user
configuration so future runs use it first.`,
		Args: cobra.NoArgs,
		RunE: runTool,
	}
	cmd.Flags().String("set", "", "Path to the svn executable to persist")
	return cmd
}

func runTool(cmd *cobra.Command, args []string) error {
	store := config.DefaultStore()
	out := cmd.OutOrStdout()

	if setPath, _ := cmd.Flags().GetString("set"); setPath != "" {
		info, err := os.Stat(setPath)
		if err != nil || info.IsDir() {
			return fmt.Errorf("not an executable file: %s", setPath)
		}
		if err := store.Save(&config.ToolConfig{SVNPath: setPath}); err != nil {
			return err
		}
		fmt.Fprintf(out, "svn path saved: %s\n", setPath)
		return nil
	}

	tool := svn.NewTool(store.Load().SVNPath)
	path, err := tool.Path()
	if err != nil {
		if errors.Is(err, svn.ErrToolNotFound) {
			return err
		}
		return fmt.Errorf("resolve svn executable: %w", err)
	}
	fmt.Fprintln(out, path)
	return nil
}
