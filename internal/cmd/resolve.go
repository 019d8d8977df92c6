package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/harrison/svnsweep/internal/coordinator"
	"github.com/harrison/svnsweep/internal/models"
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [directory]",
		Short: "Scan for conflicts and resolve them automatically",
		Long: `Resolve scans every working copy beneath the given directory and clears
each conflict by trying acceptance strategies in order: theirs-full,
then theirs-conflict, then working. The first strategy svn accepts wins.

After resolving, the working copies are rescanned; only that rescan, not
the resolve exit codes, confirms a clean tree. Conflicts that remain
(typically tree conflicts needing manual work) are listed and the command
exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolve,
	}
	addEngineFlags(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Resolve without asking for confirmation")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	base, err := baseDir(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	coord := coordinator.New()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := coord.Dispatch(func() (any, error) {
		return a.eng.ScanAll(ctx, base)
	}); err != nil {
		return err
	}
	scanResult := coord.Wait()
	if scanResult.Err != nil {
		return scanResult.Err
	}
	session := scanResult.Value.(*models.ScanSession)
	printSession(out, session)

	if len(session.Conflicts) == 0 {
		return nil
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if !confirm(cmd, fmt.Sprintf("Resolve all %d conflict(s)?", len(session.Conflicts))) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := coord.Dispatch(func() (any, error) {
		report, rescan, err := a.eng.ResolveAll(ctx, session)
		if err != nil {
			return nil, err
		}
		return resolveResult{report: report, rescan: rescan}, nil
	}); err != nil {
		return err
	}
	result := coord.Wait()
	if result.Err != nil {
		return result.Err
	}
	rr := result.Value.(resolveResult)

	fmt.Fprintf(out, "Resolved %d/%d conflict(s)\n", rr.report.Success, rr.report.Total)
	for _, failure := range rr.report.Failures() {
		line := fmt.Sprintf("  failed: %s", displayRecord(base, failure.Record))
		if s := strings.TrimSpace(failure.ErrorText); s != "" {
			line += ": " + s
		}
		fmt.Fprintln(out, line)
	}

	printSession(out, rr.rescan)

	if rr.report.Success < rr.report.Total {
		return fmt.Errorf("%d conflict(s) could not be resolved", rr.report.Total-rr.report.Success)
	}
	if len(rr.rescan.Conflicts) > 0 {
		return fmt.Errorf("%d conflict(s) remain after resolving; manual intervention needed", len(rr.rescan.Conflicts))
	}
	return nil
}

type resolveResult struct {
	report *models.ResolveReport
	rescan *models.ScanSession
}

// confirm prompts on the command's input stream and accepts y/yes.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
