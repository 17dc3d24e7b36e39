package harness

import "time"

// minPollInterval is the floor below which Await will not poll. It keeps a
// caller-supplied interval of zero from turning the wait into a busy spin.
const minPollInterval = 10 * time.Millisecond

// Condition is a predicate over live page state. It must probe once and
// return; blocking belongs to Await, not the condition.
type Condition func() (bool, error)

// Await polls cond at the given interval until it returns true or timeout
// elapses. The condition is always evaluated at least once, so a condition
// that already holds succeeds even with a zero timeout. Returns
// ErrWaitTimeout on expiry; a condition error aborts the wait and is
// returned as-is.
func Await(cond Condition, timeout, interval time.Duration) error {
	if interval < minPollInterval {
		interval = minPollInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrWaitTimeout
		}
		if interval > remaining {
			time.Sleep(remaining)
		} else {
			time.Sleep(interval)
		}
	}
}

// visible adapts a driver visibility probe into a Condition.
func visible(d Driver, selector string) Condition {
	return func() (bool, error) {
		return d.IsVisible(selector)
	}
}
