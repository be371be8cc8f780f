package timekeeper

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is raised by Resume on a running stopwatch
	ErrAlreadyRunning = errors.New("stopwatch already running")
	// ErrNotRunning is raised by Stop on an idle stopwatch
	ErrNotRunning = errors.New("stopwatch not running")
	// ErrResetWhileRunning is raised by Reset on a running stopwatch
	ErrResetWhileRunning = errors.New("stopwatch reset while running")
)

// ProtocolError reports a broken resume/stop discipline. It is never
// returned; the stopwatch panics with it because the numbers gathered so far
// can no longer be trusted.
type ProtocolError struct {
	Op    string // "resume", "stop" or "reset"
	Count int
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("timekeeper: %s after %d resumes: %v", e.Op, e.Count, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
