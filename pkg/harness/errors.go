package harness

import (
	"errors"
	"fmt"
)

// ErrWaitTimeout is returned by Await when the condition never held within
// the timeout. Callers classify it; the wait engine does not.
var ErrWaitTimeout = errors.New("wait timed out")

// SessionInitError reports that the browser automation runtime could not be
// started (driver missing, launch failure, resource exhaustion). It is fatal
// for the whole run and never retried.
type SessionInitError struct {
	Cause error
}

func (e *SessionInitError) Error() string {
	return fmt.Sprintf("session init failed: %v", e.Cause)
}

func (e *SessionInitError) Unwrap() error {
	return e.Cause
}

// StepError reports that a scenario step other than the final assertion
// threw. It is scoped to one scenario and converted to an Error outcome at
// the runner boundary.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
