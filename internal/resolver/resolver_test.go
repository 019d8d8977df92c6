package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/svnsweep/internal/models"
	"github.com/harrison/svnsweep/internal/svn"
)

// call records one svn invocation made by the resolver.
type call struct {
	dir      string
	strategy string
	path     string
}

// fakeRunner answers `resolve --accept <strategy> <path>` according to
// acceptBy: the map from path to the strategy that succeeds for it. Paths
// missing from the map fail every strategy.
type fakeRunner struct {
	acceptBy map[string]string
	stderr   string
	calls    []call
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (*svn.RunResult, error) {
	if len(args) != 4 || args[0] != "resolve" || args[1] != "--accept" {
		return &svn.RunResult{ExitCode: 1, Stderr: "unexpected invocation"}, nil
	}
	strategy, path := args[2], args[3]
	f.calls = append(f.calls, call{dir: dir, strategy: strategy, path: path})

	if f.acceptBy[path] == strategy {
		return &svn.RunResult{ExitCode: 0}, nil
	}
	return &svn.RunResult{ExitCode: 1, Stderr: f.stderr}, nil
}

func TestResolveFirstStrategyWins(t *testing.T) {
	runner := &fakeRunner{acceptBy: map[string]string{"/wc/a.txt": svn.AcceptTheirsFull}}
	r := New(runner)

	report, err := r.Resolve(context.Background(), []models.ConflictRecord{
		{Root: "/wc", Path: "/wc/a.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Success)
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Succeeded)
	assert.Equal(t, svn.AcceptTheirsFull, report.Outcomes[0].StrategyUsed)
	assert.Len(t, runner.calls, 1)
}

func TestResolveFallbackOrder(t *testing.T) {
	// The first strategy fails, the second succeeds: the report must name
	// the second strategy and count the path as resolved.
	runner := &fakeRunner{acceptBy: map[string]string{"/wc/a.txt": svn.AcceptTheirsConflict}}
	r := New(runner)

	report, err := r.Resolve(context.Background(), []models.ConflictRecord{
		{Root: "/wc", Path: "/wc/a.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Success)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, svn.AcceptTheirsConflict, report.Outcomes[0].StrategyUsed)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, svn.AcceptTheirsFull, runner.calls[0].strategy)
	assert.Equal(t, svn.AcceptTheirsConflict, runner.calls[1].strategy)
}

func TestResolveAllStrategiesFail(t *testing.T) {
	runner := &fakeRunner{stderr: "svn: E155027: tree conflict"}
	r := New(runner)

	report, err := r.Resolve(context.Background(), []models.ConflictRecord{
		{Root: "/wc", Path: "/wc/a.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Success)
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Failures(), 1)
	// Last strategy's stderr, verbatim.
	assert.Equal(t, "svn: E155027: tree conflict", report.Failures()[0].ErrorText)
	assert.Len(t, runner.calls, 3)
}

func TestResolveZeroRecordsMakesNoInvocations(t *testing.T) {
	runner := &fakeRunner{}
	report, err := New(runner).Resolve(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Success)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, runner.calls)
}

func TestResolveGroupsByRootForWorkingDirectory(t *testing.T) {
	runner := &fakeRunner{acceptBy: map[string]string{
		"/wc1/a.txt": svn.AcceptTheirsFull,
		"/wc2/b.txt": svn.AcceptTheirsFull,
	}}
	r := New(runner)

	report, err := r.Resolve(context.Background(), []models.ConflictRecord{
		{Root: "/wc1", Path: "/wc1/a.txt"},
		{Root: "/wc2", Path: "/wc2/b.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Success)

	// Each invocation must run in its record's own root, never a shared
	// default: acceptance semantics are root-relative.
	for _, c := range runner.calls {
		switch c.path {
		case "/wc1/a.txt":
			assert.Equal(t, "/wc1", c.dir)
		case "/wc2/b.txt":
			assert.Equal(t, "/wc2", c.dir)
		default:
			t.Errorf("unexpected path %s", c.path)
		}
	}
}
