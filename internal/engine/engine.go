// Package engine composes the locator, scanner, updater, and resolver into
// the flows the CLI commands dispatch: scan everything, update everything
// then rescan the suspicious roots, and resolve then rescan.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/svnsweep/internal/history"
	"github.com/harrison/svnsweep/internal/locator"
	"github.com/harrison/svnsweep/internal/logger"
	"github.com/harrison/svnsweep/internal/models"
	"github.com/harrison/svnsweep/internal/resolver"
	"github.com/harrison/svnsweep/internal/scanner"
	"github.com/harrison/svnsweep/internal/svn"
	"github.com/harrison/svnsweep/internal/updater"
)

// Engine owns one svn Runner and drives batch operations over the working
// copies found beneath a base directory. All methods are synchronous; the
// CLI keeps itself responsive by dispatching them through the coordinator.
type Engine struct {
	scanner  *scanner.Scanner
	resolver *resolver.Resolver
	updater  *updater.Updater
	log      logger.Logger

	// IgnoreDirs adds names to the locator's prune set.
	IgnoreDirs []string

	// History, when non-nil, receives a record per completed operation.
	// Recording failures are logged and ignored.
	History *history.Store
}

// New creates an Engine over the given runner. log must not be nil; use
// logger.NewNoOpLogger to discard output.
func New(runner svn.Runner, log logger.Logger) *Engine {
	return &Engine{
		scanner:  scanner.New(runner),
		resolver: resolver.New(runner),
		updater:  updater.New(runner),
		log:      log,
	}
}

// SetScanTimeout overrides the textual fallback scan bound.
func (e *Engine) SetScanTimeout(d time.Duration) {
	e.scanner.FallbackTimeout = d
}

// ScanAll discovers every working copy under base and scans each for
// conflicts. Roots are processed in the locator's sorted order and the
// session is returned only after all of them complete.
func (e *Engine) ScanAll(ctx context.Context, base string) (*models.ScanSession, error) {
	roots, err := locator.FindWorkingCopies(base, e.IgnoreDirs)
	if err != nil {
		return nil, fmt.Errorf("locate working copies: %w", err)
	}
	if len(roots) == 0 {
		// base may sit inside a checkout rather than above one; scan the
		// enclosing root then. Finding neither means "not in any working
		// copy", which the session reports as zero roots.
		if root, ok := locator.NearestRoot(base); ok {
			e.log.LogInfo(fmt.Sprintf("%s lies inside the working copy at %s", base, root))
			roots = []string{root}
		}
	}
	e.log.LogInfo(fmt.Sprintf("found %d working cop(ies) under %s", len(roots), base))

	session, err := e.scanRoots(ctx, base, roots)
	if err != nil {
		return nil, err
	}
	e.record("scan", session, nil)
	return session, nil
}

// ScanRoots scans an explicit set of roots, used for targeted rescans after
// an update or a resolve pass.
func (e *Engine) ScanRoots(ctx context.Context, base string, roots []string) (*models.ScanSession, error) {
	session, err := e.scanRoots(ctx, base, roots)
	if err != nil {
		return nil, err
	}
	e.record("scan", session, nil)
	return session, nil
}

func (e *Engine) scanRoots(ctx context.Context, base string, roots []string) (*models.ScanSession, error) {
	session := models.NewScanSession(base)
	session.Roots = roots

	for i, root := range roots {
		e.log.LogDebug(fmt.Sprintf("scanning %d/%d: %s", i+1, len(roots), root))
		result, err := e.scanner.Scan(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		if result.Incomplete {
			session.Incomplete = true
			e.log.LogWarn(fmt.Sprintf("scan incomplete for %s: %v", root, result.Err))
		}
		session.Conflicts = append(session.Conflicts, result.Records...)
	}
	return session, nil
}

// UpdateAll discovers every working copy under base, runs svn update on
// each, and (when rescan is true) rescans only the roots whose update output
// hints at conflicts. The returned session covers just those hinted roots;
// when nothing hints at a conflict the session is empty and no rescan runs.
func (e *Engine) UpdateAll(ctx context.Context, base string, rescan bool) ([]models.UpdateOutcome, *models.ScanSession, error) {
	roots, err := locator.FindWorkingCopies(base, e.IgnoreDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("locate working copies: %w", err)
	}
	e.log.LogInfo(fmt.Sprintf("updating %d working cop(ies) under %s", len(roots), base))

	outcomes, err := e.updater.UpdateAll(ctx, roots)
	if err != nil {
		return outcomes, nil, err
	}
	for _, o := range outcomes {
		if o.ExitCode == 0 {
			e.log.LogDebug(fmt.Sprintf("updated %s", o.Root))
		} else {
			e.log.LogWarn(fmt.Sprintf("update failed (exit %d): %s", o.ExitCode, o.Root))
		}
		if s := strings.TrimSpace(o.Stderr); s != "" {
			e.log.LogWarn("[stderr] " + s)
		}
	}

	hinted := updater.ConflictRoots(outcomes)
	var session *models.ScanSession
	if !rescan {
		session = models.NewScanSession(base)
		session.Roots = hinted
	} else if len(hinted) > 0 {
		e.log.LogInfo(fmt.Sprintf("update output flagged %d root(s) for rescan", len(hinted)))
		session, err = e.scanRoots(ctx, base, hinted)
		if err != nil {
			return outcomes, nil, err
		}
	} else {
		e.log.LogInfo("update output shows no conflict hints; skipping rescan")
		session = models.NewScanSession(base)
	}

	e.record("update", session, outcomes)
	return outcomes, session, nil
}

// ResolveAll attempts to clear every conflict in the session, then rescans
// the session's roots. The repository state after resolving is only trusted
// via the rescan; the resolve report alone can miss newly surfaced
// conflicts.
func (e *Engine) ResolveAll(ctx context.Context, session *models.ScanSession) (*models.ResolveReport, *models.ScanSession, error) {
	report, err := e.resolver.Resolve(ctx, session.Conflicts)
	if err != nil {
		return nil, nil, err
	}
	e.log.LogInfo(fmt.Sprintf("resolve finished: %d/%d succeeded", report.Success, report.Total))
	for _, failure := range report.Failures() {
		msg := fmt.Sprintf("resolve failed: %s", failure.Record.Path)
		if s := strings.TrimSpace(failure.ErrorText); s != "" {
			msg += ": " + s
		}
		e.log.LogWarn(msg)
	}

	rescan, err := e.scanRoots(ctx, session.Base, session.Roots)
	if err != nil {
		return report, nil, err
	}

	e.recordResolve(session.Base, report, rescan)
	return report, rescan, nil
}

func (e *Engine) record(kind string, session *models.ScanSession, outcomes []models.UpdateOutcome) {
	if e.History == nil {
		return
	}
	rec := history.Record{
		ID:         session.ID,
		Kind:       kind,
		Base:       session.Base,
		Roots:      len(session.Roots),
		Conflicts:  len(session.Conflicts),
		Incomplete: session.Incomplete,
		CreatedAt:  session.StartedAt,
	}
	if outcomes != nil {
		rec.Roots = len(outcomes)
		failed := 0
		for _, o := range outcomes {
			if o.ExitCode != 0 {
				failed++
			}
		}
		rec.Failed = failed
	}
	if err := e.History.Append(rec); err != nil {
		e.log.LogWarn(fmt.Sprintf("could not record session history: %v", err))
	}
}

func (e *Engine) recordResolve(base string, report *models.ResolveReport, rescan *models.ScanSession) {
	if e.History == nil {
		return
	}
	rec := history.Record{
		ID:         rescan.ID,
		Kind:       "resolve",
		Base:       base,
		Roots:      len(rescan.Roots),
		Conflicts:  len(rescan.Conflicts),
		Resolved:   report.Success,
		Failed:     report.Total - report.Success,
		Incomplete: rescan.Incomplete,
		CreatedAt:  rescan.StartedAt,
	}
	if err := e.History.Append(rec); err != nil {
		e.log.LogWarn(fmt.Sprintf("could not record session history: %v", err))
	}
}
