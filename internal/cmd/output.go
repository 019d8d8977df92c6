package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/harrison/svnsweep/internal/models"
)

// printSession writes the scan outcome for human consumption. "No working
// copies", "no conflicts", and "scan incomplete" are three different
// answers and are kept visibly distinct.
func printSession(w io.Writer, session *models.ScanSession) {
	if len(session.Roots) == 0 {
		fmt.Fprintf(w, "No working copies found under %s\n", session.Base)
		return
	}

	fmt.Fprintf(w, "Scanned %d working cop(ies) under %s\n", len(session.Roots), session.Base)

	if len(session.Conflicts) == 0 {
		if session.Incomplete {
			fmt.Fprintln(w, "Scan incomplete: some working copies could not be fully scanned; the tree may still hold conflicts.")
		} else {
			fmt.Fprintln(w, "No conflicts found.")
		}
		return
	}

	fmt.Fprintf(w, "Found %d conflict(s):\n", len(session.Conflicts))
	for _, rec := range session.Conflicts {
		fmt.Fprintf(w, "  %s\n", displayRecord(session.Base, rec))
	}
	if session.Incomplete {
		fmt.Fprintln(w, "Scan incomplete: some working copies could not be fully scanned; the list above may be missing conflicts.")
	}
}

// displayRecord renders a conflict as "<root relative to base> :: <path
// relative to root>", falling back to absolute paths when outside base.
func displayRecord(base string, rec models.ConflictRecord) string {
	rootDisplay := rec.Root
	if rel, err := filepath.Rel(base, rec.Root); err == nil {
		rootDisplay = rel
	}
	pathDisplay := rec.Path
	if rel, err := filepath.Rel(rec.Root, rec.Path); err == nil {
		pathDisplay = rel
	}
	return fmt.Sprintf("%s :: %s", rootDisplay, pathDisplay)
}

// printUpdateOutcomes summarizes a bulk update run.
func printUpdateOutcomes(w io.Writer, base string, outcomes []models.UpdateOutcome) {
	ok := 0
	for _, o := range outcomes {
		if o.ExitCode == 0 {
			ok++
		}
	}
	fmt.Fprintf(w, "Updated %d/%d working cop(ies)\n", ok, len(outcomes))
	for _, o := range outcomes {
		tag := "OK"
		if o.ExitCode != 0 {
			tag = fmt.Sprintf("FAIL(rc=%d)", o.ExitCode)
		}
		display := o.Root
		if rel, err := filepath.Rel(base, o.Root); err == nil {
			display = rel
		}
		fmt.Fprintf(w, "  [%s] %s\n", tag, display)
	}
}
