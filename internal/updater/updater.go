// Package updater runs the svn update operation across a set of working
// copies and decides which of them warrant a conflict rescan.
package updater

import (
	"context"
	"regexp"
	"strings"

	"github.com/harrison/svnsweep/internal/models"
	"github.com/harrison/svnsweep/internal/svn"
)

// Conflict indicators in `svn update` output. Clients vary in wording and
// locale, so several shapes are matched: a path line whose first non-space
// token is 'C', the word conflict in any form, and the tree-conflict
// phrasing.
var (
	conflictLinePattern = regexp.MustCompile(`(?m)^[ \t]*C[ \t]`)
	treeConflictPattern = regexp.MustCompile(`(?i)\btree\s+conflict\b`)
)

// Updater runs bulk updates through an svn Runner.
type Updater struct {
	Runner svn.Runner
}

// New creates an Updater.
func New(runner svn.Runner) *Updater {
	return &Updater{Runner: runner}
}

// UpdateAll runs `svn update` on every root sequentially and returns one
// outcome per root, in input order. A root whose update exits non-zero is
// recorded and flagged for rescan; it does not abort the remaining roots.
func (u *Updater) UpdateAll(ctx context.Context, roots []string) ([]models.UpdateOutcome, error) {
	var outcomes []models.UpdateOutcome
	for _, root := range roots {
		res, err := u.Runner.Run(ctx, root, "update")
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, models.UpdateOutcome{
			Root:               root,
			ExitCode:           res.ExitCode,
			Stdout:             res.Stdout,
			Stderr:             res.Stderr,
			LikelyHasConflicts: res.ExitCode != 0 || OutputSuggestsConflict(res.Stdout, res.Stderr),
		})
	}
	return outcomes, nil
}

// OutputSuggestsConflict reports whether update output hints at a conflict.
// It is deliberately high-recall: a false positive costs one extra scan of
// one root, a false negative is caught by the next manual scan. It never
// substitutes for the scan itself.
func OutputSuggestsConflict(stdout, stderr string) bool {
	text := stdout + "\n" + stderr
	if conflictLinePattern.MatchString(text) {
		return true
	}
	if strings.Contains(strings.ToLower(text), "conflict") {
		return true
	}
	return treeConflictPattern.MatchString(text)
}

// ConflictRoots returns the subset of roots whose outcomes warrant a rescan,
// preserving order and dropping duplicates.
func ConflictRoots(outcomes []models.UpdateOutcome) []string {
	seen := make(map[string]bool, len(outcomes))
	var roots []string
	for _, o := range outcomes {
		if !o.LikelyHasConflicts || seen[o.Root] {
			continue
		}
		seen[o.Root] = true
		roots = append(roots, o.Root)
	}
	return roots
}
