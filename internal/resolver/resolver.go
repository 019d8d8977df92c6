// Package resolver clears merge conflicts by trying svn acceptance
// strategies in a fixed fallback order.
package resolver

import (
	"context"

	"github.com/harrison/svnsweep/internal/models"
	"github.com/harrison/svnsweep/internal/svn"
)

// Resolver applies acceptance strategies to conflicted paths through an svn
// Runner.
type Resolver struct {
	Runner svn.Runner
}

// New creates a Resolver.
func New(runner svn.Runner) *Resolver {
	return &Resolver{Runner: runner}
}

// Resolve attempts to clear every supplied conflict and reports per-path
// outcomes plus aggregate counts. Records are grouped by working-copy root
// so each invocation runs with the correct working directory; acceptance
// semantics are root-relative. For each path the strategies theirs-full,
// theirs-conflict, and working are tried in order until one exits zero; when
// all fail the last invocation's stderr is recorded verbatim.
//
// A zero exit only clears the per-path conflict flag in the repository.
// Confirmation that a root is actually clean comes from a subsequent scan,
// never from this report alone.
func (r *Resolver) Resolve(ctx context.Context, records []models.ConflictRecord) (*models.ResolveReport, error) {
	report := &models.ResolveReport{}

	grouped := groupByRoot(records)
	for _, root := range grouped.roots {
		for _, path := range grouped.paths[root] {
			outcome, err := r.resolveOne(ctx, root, path)
			if err != nil {
				return nil, err
			}
			report.Outcomes = append(report.Outcomes, outcome)
			report.Total++
			if outcome.Succeeded {
				report.Success++
			}
		}
	}
	return report, nil
}

// resolveOne tries each acceptance strategy for a single path.
func (r *Resolver) resolveOne(ctx context.Context, root, path string) (models.ResolutionOutcome, error) {
	outcome := models.ResolutionOutcome{
		Record: models.ConflictRecord{Root: root, Path: path},
	}

	var last *svn.RunResult
	for _, strategy := range svn.AcceptStrategies() {
		res, err := r.Runner.Run(ctx, root, "resolve", "--accept", strategy, path)
		if err != nil {
			return outcome, err
		}
		last = res
		if res.ExitCode == 0 {
			outcome.Succeeded = true
			outcome.StrategyUsed = strategy
			return outcome, nil
		}
	}

	if last != nil {
		outcome.ErrorText = last.Stderr
	}
	return outcome, nil
}

// rootGroups holds records grouped by root with stable root order.
type rootGroups struct {
	roots []string
	paths map[string][]string
}

func groupByRoot(records []models.ConflictRecord) rootGroups {
	g := rootGroups{paths: make(map[string][]string)}
	for _, rec := range records {
		if _, ok := g.paths[rec.Root]; !ok {
			g.roots = append(g.roots, rec.Root)
		}
		g.paths[rec.Root] = append(g.paths[rec.Root], rec.Path)
	}
	return g
}
