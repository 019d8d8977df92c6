// Package models defines the shared data types passed between the locator,
// scanner, resolver, updater, and the CLI commands.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ConflictRecord identifies one conflicted file or tree node inside a
// working copy. Path is always absolute and lies under Root.
type ConflictRecord struct {
	// Root is the working-copy root the conflict belongs to.
	Root string

	// Path is the absolute path of the conflicted node.
	Path string
}

// ResolutionOutcome reports the result of one resolve attempt for a single
// conflicted path.
type ResolutionOutcome struct {
	Record ConflictRecord

	// Succeeded is true when one of the acceptance strategies exited zero.
	Succeeded bool

	// StrategyUsed names the accepted strategy when Succeeded is true.
	StrategyUsed string

	// ErrorText carries the last strategy's stderr verbatim when all
	// strategies failed.
	ErrorText string
}

// ResolveReport aggregates the per-path outcomes of one resolve pass.
type ResolveReport struct {
	Outcomes []ResolutionOutcome
	Success  int
	Total    int
}

// Failures returns the outcomes whose resolution did not succeed.
func (r *ResolveReport) Failures() []ResolutionOutcome {
	var failed []ResolutionOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}

// UpdateOutcome reports the result of running the update operation on one
// working-copy root.
type UpdateOutcome struct {
	Root     string
	ExitCode int
	Stdout   string
	Stderr   string

	// LikelyHasConflicts is a high-recall heuristic over exit code and
	// output text. It only narrows which roots get rescanned; the scan
	// itself is the ground truth.
	LikelyHasConflicts bool
}

// ScanSession is the transient aggregate a caller holds between a scan and a
// subsequent resolve. Every new scan replaces the previous session.
type ScanSession struct {
	// ID is a unique identifier for the session, used by the history store.
	ID string

	// Base is the directory the scan started from.
	Base string

	// Roots are the working-copy roots discovered under Base, in the
	// locator's case-insensitive sorted order.
	Roots []string

	// Conflicts are the deduplicated conflict records across all roots.
	Conflicts []ConflictRecord

	// Incomplete is true when at least one root's scan could not be
	// completed (fallback timeout or failure). An incomplete session with
	// zero conflicts does not mean the tree is clean.
	Incomplete bool

	StartedAt time.Time
}

// NewScanSession creates an empty session for the given base directory.
func NewScanSession(base string) *ScanSession {
	return &ScanSession{
		ID:        uuid.New().String(),
		Base:      base,
		StartedAt: time.Now(),
	}
}
