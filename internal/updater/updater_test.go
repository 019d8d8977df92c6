package updater

import (
	"context"
	"testing"

	"github.com/harrison/svnsweep/internal/svn"
)

// fakeRunner answers `update` with a scripted result per root.
type fakeRunner struct {
	results map[string]*svn.RunResult
	order   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (*svn.RunResult, error) {
	f.order = append(f.order, dir)
	if res, ok := f.results[dir]; ok {
		return res, nil
	}
	return &svn.RunResult{}, nil
}

func TestOutputSuggestsConflict(t *testing.T) {
	cases := []struct {
		name   string
		stdout string
		stderr string
		want   bool
	}{
		{"clean update", "Updating '.':\nU    a.txt\nUpdated to revision 42.\n", "", false},
		{"empty output", "", "", false},
		{"conflict status line", "Updating '.':\nC    a.txt\nUpdated to revision 42.\n", "", true},
		{"indented conflict line", "   C\tb.txt\n", "", true},
		{"summary wording", "Summary of conflicts:\n  Text conflicts: 1\n", "", true},
		{"conflicted wording", "one path is Conflicted\n", "", true},
		{"tree conflict wording", "   local delete, incoming edit upon update\nTree conflict on 'dir'\n", "", true},
		{"conflict only in stderr", "Updated to revision 42.\n", "svn: warning: conflict detected\n", true},
		{"C token mid-line is not a hint", "Updated UTC offset applied.\n", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OutputSuggestsConflict(tc.stdout, tc.stderr); got != tc.want {
				t.Errorf("OutputSuggestsConflict(%q, %q) = %v, want %v", tc.stdout, tc.stderr, got, tc.want)
			}
		})
	}
}

func TestUpdateAllSequentialOutcomes(t *testing.T) {
	runner := &fakeRunner{results: map[string]*svn.RunResult{
		"/wc1": {ExitCode: 2, Stdout: "C    a.txt\n"},
		"/wc2": {ExitCode: 0, Stdout: "Updated to revision 10.\n"},
	}}

	outcomes, err := New(runner).UpdateAll(context.Background(), []string{"/wc1", "/wc2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	if !outcomes[0].LikelyHasConflicts {
		t.Error("non-zero exit with C line must be flagged")
	}
	if outcomes[1].LikelyHasConflicts {
		t.Error("clean zero-exit update must not be flagged")
	}

	if runner.order[0] != "/wc1" || runner.order[1] != "/wc2" {
		t.Errorf("roots must be updated in input order, got %v", runner.order)
	}
}

func TestUpdateAllNonZeroExitAloneFlags(t *testing.T) {
	runner := &fakeRunner{results: map[string]*svn.RunResult{
		"/wc": {ExitCode: 1, Stdout: "svn: E170013: unable to connect\n"},
	}}

	outcomes, err := New(runner).UpdateAll(context.Background(), []string{"/wc"})
	if err != nil {
		t.Fatal(err)
	}
	if !outcomes[0].LikelyHasConflicts {
		t.Error("non-zero exit must flag the root even without conflict text")
	}
}

func TestConflictRoots(t *testing.T) {
	// Scenario: one root fails with conflict output, the other is clean;
	// only the first is selected for rescan.
	runner := &fakeRunner{results: map[string]*svn.RunResult{
		"/wc1": {ExitCode: 2, Stdout: "C    a.txt\n"},
		"/wc2": {ExitCode: 0, Stdout: "Updated to revision 10.\n"},
	}}
	outcomes, err := New(runner).UpdateAll(context.Background(), []string{"/wc1", "/wc2"})
	if err != nil {
		t.Fatal(err)
	}

	roots := ConflictRoots(outcomes)
	if len(roots) != 1 || roots[0] != "/wc1" {
		t.Errorf("expected [/wc1], got %v", roots)
	}
}
