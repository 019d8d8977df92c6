// Package svn wraps invocation of the external Subversion command-line
// client: resolving the executable, running commands with a per-call working
// directory, and parsing status output into conflict records.
package svn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// Acceptance strategy values for `svn resolve --accept`, listed in fallback
// priority order. Different conflict kinds (textual, property, tree) accept
// different strategies and the client offers no cheap way to classify the
// kind up front, so callers try these in order until one exits zero.
const (
	AcceptTheirsFull     = "theirs-full"
	AcceptTheirsConflict = "theirs-conflict"
	AcceptWorking        = "working"
)

// AcceptStrategies returns the acceptance strategies in fallback order.
func AcceptStrategies() []string {
	return []string{AcceptTheirsFull, AcceptTheirsConflict, AcceptWorking}
}

// RunResult holds the captured output of one svn invocation. A non-zero
// ExitCode is reported here rather than as an error so callers can implement
// their own fallback chains.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner is the interface the scanner, resolver, and updater use to invoke
// svn. Tool is the production implementation; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*RunResult, error)
}

// Tool is a reusable client for invoking the svn executable.
// It follows the http.Client pattern: create once, use many times.
// Thread-safe for concurrent use.
type Tool struct {
	// Configured is an explicit executable path, typically loaded from the
	// saved configuration. It takes priority during resolution.
	Configured string

	mu       sync.Mutex
	resolved string
}

// NewTool creates a Tool that resolves the svn executable lazily on first
// use. configured may be empty.
func NewTool(configured string) *Tool {
	return &Tool{Configured: configured}
}

// Path returns the resolved svn executable path, resolving it on first call
// and caching the result. Resolution order: the configured path, the process
// search path, then a fixed list of known install locations. Returns
// ErrToolNotFound when nothing resolves.
func (t *Tool) Path() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resolved != "" {
		return t.resolved, nil
	}

	if p := t.Configured; p != "" {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			t.resolved = p
			return p, nil
		}
	}

	if p, err := exec.LookPath(svnExecutableName()); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		t.resolved = p
		return p, nil
	}

	for _, p := range candidatePaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			t.resolved = p
			return p, nil
		}
	}

	return "", ErrToolNotFound
}

// SetPath records a manually supplied executable path, replacing any cached
// resolution. Persisting the path is the caller's concern.
func (t *Tool) SetPath(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolved = path
}

// Run invokes svn with the given arguments, using dir as the process working
// directory. A non-zero exit code is returned inside RunResult with a nil
// error; errors are reserved for the executable being unresolvable, the
// process failing to start, or the context expiring.
func (t *Tool) Run(ctx context.Context, dir string, args ...string) (*RunResult, error) {
	exe, err := t.Path()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		// Context expiry also surfaces as a killed-process exit error, so
		// check the context first.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("svn invocation failed: %w", runErr)
	}

	return result, nil
}

// svnExecutableName returns the platform-specific executable name looked up
// on the process search path.
func svnExecutableName() string {
	if runtime.GOOS == "windows" {
		return "svn.exe"
	}
	return "svn"
}

// candidatePaths returns well-known install locations for common svn
// distributions, checked after the configured path and the search path.
func candidatePaths() []string {
	if runtime.GOOS == "windows" {
		return []string{
			`C:\Program Files\TortoiseSVN\bin\svn.exe`,
			`C:\Program Files (x86)\TortoiseSVN\bin\svn.exe`,
			`C:\Program Files\SlikSvn\bin\svn.exe`,
			`C:\Program Files (x86)\SlikSvn\bin\svn.exe`,
			`C:\Program Files\CollabNet Subversion Client\svn.exe`,
			`C:\Program Files (x86)\CollabNet Subversion Client\svn.exe`,
			`C:\Program Files\Subversion\bin\svn.exe`,
			`C:\Program Files (x86)\Subversion\bin\svn.exe`,
			`C:\Program Files\VisualSVN Server\bin\svn.exe`,
			`C:\Program Files (x86)\VisualSVN Server\bin\svn.exe`,
		}
	}
	return []string{
		"/usr/bin/svn",
		"/usr/local/bin/svn",
		"/opt/homebrew/bin/svn",
	}
}
