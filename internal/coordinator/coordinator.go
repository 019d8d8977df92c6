// Package coordinator runs one unit of work at a time on a background
// goroutine and hands its result back to the issuing caller, keeping that
// caller (a CLI prompt or an event loop) unblocked while svn operations run.
package coordinator

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned by Dispatch while a unit of work is in flight. There
// is no queueing; the caller re-issues after the current work completes.
var ErrBusy = errors.New("coordinator: a task is already running")

// Result is the outcome of one unit of work.
type Result struct {
	Value any
	Err   error
}

// Coordinator gates background work behind a single-worker discipline:
// Idle -> Busy at dispatch, Busy -> Idle only after the result has been
// delivered to the caller. The Busy transition happens synchronously inside
// Dispatch so a second rapid request is reliably rejected.
type Coordinator struct {
	mu      sync.Mutex
	busy    bool
	results chan Result
}

// New creates an idle Coordinator.
func New() *Coordinator {
	return &Coordinator{results: make(chan Result, 1)}
}

// Busy reports whether a unit of work is currently in flight.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Dispatch starts work on the background goroutine. It returns ErrBusy,
// without side effects on the in-flight work, when called while Busy. A
// panic inside work is recovered into the result's Err; the coordinator
// itself always becomes Idle again once the result is consumed.
func (c *Coordinator) Dispatch(work func() (any, error)) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	go func() {
		var res Result
		defer func() {
			if r := recover(); r != nil {
				res = Result{Err: fmt.Errorf("background task panicked: %v", r)}
			}
			c.results <- res
		}()
		value, err := work()
		res = Result{Value: value, Err: err}
	}()
	return nil
}

// Wait blocks until the in-flight unit of work completes and returns its
// result. The coordinator is Idle again when Wait returns.
func (c *Coordinator) Wait() Result {
	res := <-c.results
	c.setIdle()
	return res
}

// Poll returns the result of the in-flight work without blocking. The
// second return is false while the work has not finished.
func (c *Coordinator) Poll() (Result, bool) {
	select {
	case res := <-c.results:
		c.setIdle()
		return res, true
	default:
		return Result{}, false
	}
}

func (c *Coordinator) setIdle() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
