// Package scanner finds the conflicted paths inside one working copy by
// invoking the svn status operation and normalizing its output.
package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/harrison/svnsweep/internal/models"
	"github.com/harrison/svnsweep/internal/svn"
)

// DefaultFallbackTimeout bounds the plain-text fallback scan. Full-depth
// textual scans over huge trees can otherwise hang for a very long time.
const DefaultFallbackTimeout = 60 * time.Second

// ErrScanTimeout indicates the fallback textual scan exceeded its bound.
// A timed-out scan is incomplete, not clean.
var ErrScanTimeout = errors.New("textual status scan timed out")

// Result is the outcome of scanning one working-copy root.
type Result struct {
	// Records are the deduplicated conflict records found.
	Records []models.ConflictRecord

	// Incomplete is true when the scan could not be finished (fallback
	// timeout or failure). Callers must not read an incomplete result with
	// zero records as "no conflicts".
	Incomplete bool

	// Err explains an incomplete scan. It is informational; Incomplete is
	// the flag callers branch on.
	Err error
}

// Scanner runs conflict scans against a working copy through an svn Runner.
type Scanner struct {
	Runner svn.Runner

	// FallbackTimeout bounds the textual fallback scan. Zero means
	// DefaultFallbackTimeout.
	FallbackTimeout time.Duration
}

// New creates a Scanner with the default fallback timeout.
func New(runner svn.Runner) *Scanner {
	return &Scanner{Runner: runner}
}

// Scan returns the conflicted paths under root. The structured XML status
// form is authoritative: when it exits zero and parses, its result is
// returned without running the fallback (a second full-depth scan of a large
// tree is expensive and adds nothing). A non-zero exit or a parse failure
// triggers the bounded textual fallback.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	res, err := s.Runner.Run(ctx, root, "status", "--xml", "--depth", "infinity")
	if err != nil {
		return nil, err
	}

	if res.ExitCode == 0 {
		records, parseErr := svn.ParseStatusXML([]byte(res.Stdout), root)
		if parseErr == nil {
			return &Result{Records: dedupe(records)}, nil
		}
		// Malformed XML falls through to the textual form rather than
		// silently yielding an empty result.
	}

	return s.fallbackScan(ctx, root)
}

// fallbackScan runs the plain-text status form with a timeout.
func (s *Scanner) fallbackScan(ctx context.Context, root string) (*Result, error) {
	timeout := s.FallbackTimeout
	if timeout <= 0 {
		timeout = DefaultFallbackTimeout
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.Runner.Run(fctx, root, "status", "--depth", "infinity")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Result{Incomplete: true, Err: ErrScanTimeout}, nil
		}
		return nil, err
	}
	if res.ExitCode != 0 {
		return &Result{
			Incomplete: true,
			Err: &svn.InvocationError{
				Args:     []string{"status", "--depth", "infinity"},
				ExitCode: res.ExitCode,
				Stderr:   res.Stderr,
			},
		}, nil
	}

	return &Result{Records: dedupe(svn.ParseStatusText(res.Stdout, root))}, nil
}

// dedupe collapses records reported more than once, preserving first-seen
// order. The identity of a record is its (root, absolute path) pair.
func dedupe(records []models.ConflictRecord) []models.ConflictRecord {
	seen := make(map[models.ConflictRecord]bool, len(records))
	var unique []models.ConflictRecord
	for _, r := range records {
		if seen[r] {
			continue
		}
		seen[r] = true
		unique = append(unique, r)
	}
	return unique
}
