package cmd

import (
	"fmt"
	"os"

	"github.com/harrison/svnsweep/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scan, update, and resolve sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(historyPath()); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No session history recorded yet.")
		return nil
	}

	store, err := history.NewStore(historyPath())
	if err != nil {
		return fmt.Errorf("open session history: %w", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No session history recorded yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-7s roots=%d conflicts=%d",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Kind, rec.Roots, rec.Conflicts)
		if rec.Kind == "resolve" {
			line += fmt.Sprintf(" resolved=%d failed=%d", rec.Resolved, rec.Failed)
		} else if rec.Failed > 0 {
			line += fmt.Sprintf(" failed=%d", rec.Failed)
		}
		if rec.Incomplete {
			line += " (incomplete)"
		}
		line += "  " + rec.Base
		fmt.Fprintln(out, line)
	}
	return nil
}
