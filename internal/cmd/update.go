package cmd

import (
	"github.com/harrison/svnsweep/internal/coordinator"
	"github.com/harrison/svnsweep/internal/models"
	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [directory]",
		Short: "Run svn update across every working copy under a directory",
		Long: `Update discovers Subversion working copies beneath the given directory
and runs svn update on each, sequentially.

Afterwards only the working copies whose update output hints at conflicts
(a 'C' status line, the word "conflict", a non-zero exit) are rescanned.
The hint is high-recall, not ground truth: pass --no-rescan to skip the
rescan and run 'svnsweep scan' yourself later.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}
	addEngineFlags(cmd)
	cmd.Flags().Bool("no-rescan", false, "Skip the automatic conflict rescan of flagged working copies")
	return cmd
}

// updateResult carries both halves of the update flow through the
// coordinator.
type updateResult struct {
	outcomes []models.UpdateOutcome
	session  *models.ScanSession
}

func runUpdate(cmd *cobra.Command, args []string) error {
	base, err := baseDir(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	noRescan, _ := cmd.Flags().GetBool("no-rescan")

	coord := coordinator.New()
	ctx := cmd.Context()
	if err := coord.Dispatch(func() (any, error) {
		outcomes, session, err := a.eng.UpdateAll(ctx, base, !noRescan)
		if err != nil {
			return nil, err
		}
		return updateResult{outcomes: outcomes, session: session}, nil
	}); err != nil {
		return err
	}

	result := coord.Wait()
	if result.Err != nil {
		return result.Err
	}
	ur := result.Value.(updateResult)

	out := cmd.OutOrStdout()
	printUpdateOutcomes(out, base, ur.outcomes)
	if !noRescan && len(ur.session.Roots) > 0 {
		printSession(out, ur.session)
	}
	return nil
}
