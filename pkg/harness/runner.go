package harness

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes one scenario against a borrowed session and classifies
// the result. Nothing escapes Run: step faults, wait timeouts, and panics
// all come back as Outcomes.
type Runner struct {
	log      *logrus.Entry
	interval time.Duration
}

// NewRunner creates a scenario runner with the default poll interval.
func NewRunner(logger *logrus.Logger) *Runner {
	return &Runner{
		log:      logger.WithField("component", "runner"),
		interval: DefaultPollInterval,
	}
}

// Run executes the scenario's steps strictly in order: navigate, wait for
// the ready anchor, clear and fill each field, click submit, then await and
// assert the expected signal. Step execution fails fast; a step fault skips
// the rest and yields an Error outcome.
func (r *Runner) Run(d Driver, sc Scenario) (out Outcome) {
	log := r.log.WithField("scenario", sc.ID)

	defer func() {
		if rec := recover(); rec != nil {
			out = Outcome{
				ScenarioID: sc.ID,
				Class:      ClassError,
				Message:    fmt.Sprintf("unexpected fault: %v", rec),
			}
			log.WithField("panic", rec).Error("scenario panicked")
		}
	}()

	timeout := time.Duration(sc.Timeout)
	if timeout == 0 {
		timeout = DefaultScenarioTimeout
	}

	log.WithField("url", sc.URL).Debug("navigating")
	if err := d.Navigate(sc.URL); err != nil {
		return r.stepError(sc, &StepError{Step: "navigate", Cause: err})
	}

	if sc.ReadySelector != "" {
		if err := Await(visible(d, sc.ReadySelector), timeout, r.interval); err != nil {
			if errors.Is(err, ErrWaitTimeout) {
				return Outcome{
					ScenarioID: sc.ID,
					Class:      ClassError,
					Message:    fmt.Sprintf("page never ready: %s not visible within %s", sc.ReadySelector, timeout),
				}
			}
			return r.stepError(sc, &StepError{Step: "ready wait", Cause: err})
		}
	}

	// Clear before fill: the session may carry values from a prior
	// scenario in the same run.
	for _, f := range sc.Fields {
		if err := d.Clear(f.Selector); err != nil {
			return r.stepError(sc, &StepError{Step: "clear " + f.Selector, Cause: err})
		}
		if err := d.Fill(f.Selector, f.Value); err != nil {
			return r.stepError(sc, &StepError{Step: "fill " + f.Selector, Cause: err})
		}
	}

	if sc.Submit != "" {
		if err := d.Click(sc.Submit); err != nil {
			return r.stepError(sc, &StepError{Step: "click " + sc.Submit, Cause: err})
		}
	}

	return r.assert(d, sc, timeout)
}

// assert awaits the declared post-action signal and classifies the result.
func (r *Runner) assert(d Driver, sc Scenario, timeout time.Duration) Outcome {
	exp := sc.Expect
	startURL := sc.URL

	var (
		cond    Condition
		passMsg func() string
		missMsg func() string
	)

	switch {
	case exp.URLContains != "":
		cond = func() (bool, error) {
			return strings.Contains(d.CurrentURL(), exp.URLContains), nil
		}
		passMsg = func() string {
			return fmt.Sprintf("url contains %q: %s", exp.URLContains, d.CurrentURL())
		}
		missMsg = func() string {
			return fmt.Sprintf("expected url fragment %q, got %s", exp.URLContains, d.CurrentURL())
		}

	case exp.VisibleSelector != "":
		cond = visible(d, exp.VisibleSelector)
		passMsg = func() string {
			return fmt.Sprintf("element %s visible", exp.VisibleSelector)
		}
		missMsg = func() string {
			return fmt.Sprintf("element %s not visible within %s", exp.VisibleSelector, timeout)
		}

	case exp.URLChanged:
		cond = func() (bool, error) {
			return d.CurrentURL() != startURL, nil
		}
		passMsg = func() string {
			return fmt.Sprintf("url changed to %s", d.CurrentURL())
		}
		missMsg = func() string {
			return fmt.Sprintf("url unchanged after %s: %s", timeout, d.CurrentURL())
		}

	default:
		return Outcome{
			ScenarioID: sc.ID,
			Class:      ClassError,
			Message:    "scenario declares no expectation",
		}
	}

	err := Await(cond, timeout, r.interval)
	switch {
	case err == nil:
		return Outcome{ScenarioID: sc.ID, Class: ClassPass, Message: passMsg()}
	case errors.Is(err, ErrWaitTimeout):
		class := exp.OnTimeout
		if class == "" {
			class = ClassFail
		}
		return Outcome{ScenarioID: sc.ID, Class: class, Message: missMsg()}
	default:
		return Outcome{
			ScenarioID: sc.ID,
			Class:      ClassError,
			Message:    fmt.Sprintf("assertion wait failed: %v", err),
		}
	}
}

func (r *Runner) stepError(sc Scenario, err *StepError) Outcome {
	r.log.WithField("scenario", sc.ID).WithError(err).Warn("scenario step failed")
	return Outcome{ScenarioID: sc.ID, Class: ClassError, Message: err.Error()}
}
