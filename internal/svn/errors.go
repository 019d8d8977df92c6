package svn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound indicates that no svn executable could be resolved from the
// saved configuration, the process search path, or the known install
// locations. It is only recoverable by user action (installing a client or
// supplying a manual path) and is never retried.
var ErrToolNotFound = errors.New(
	"svn executable not found: install an svn client, add it to PATH, or set a path with 'svnsweep tool --set'")

// ParseError indicates that structured status output could not be parsed.
// Callers fall back to the textual status form rather than treating the
// working copy as clean.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse svn status xml: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvocationError indicates an svn invocation that returned a non-zero exit
// code where success was required. Stderr is carried verbatim; callers must
// surface it rather than fabricate their own error text.
type InvocationError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("svn %s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
