package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/entrhq/webcheck/pkg/facade"
	"github.com/entrhq/webcheck/pkg/harness"
)

// LoginResult is the payload returned for a login verification request.
type LoginResult struct {
	Authenticated bool   `json:"authenticated"`
	FinalURL      string `json:"final_url"`
	Outcome       string `json:"outcome"`
	Detail        string `json:"detail"`
}

// LoginVerifier drives a real browser session through a login attempt
// described by a facade.LoginRequest. Each verification acquires and
// releases its own session from the provider, so a provider must not be
// shared across concurrent verifications.
type LoginVerifier struct {
	runner  *harness.Runner
	timeout time.Duration
	log     *logrus.Entry
}

// NewLoginVerifier creates a verifier with the given per-attempt timeout.
func NewLoginVerifier(timeout time.Duration, logger *logrus.Logger) *LoginVerifier {
	return &LoginVerifier{
		runner:  harness.NewRunner(logger),
		timeout: timeout,
		log:     logger.WithField("component", "login-verifier"),
	}
}

// Verify fills the request's selectors with its credentials, submits, and
// reports whether the page navigated away from the login URL. Session
// acquisition failures are returned as errors; everything scenario-level
// is folded into the result. A context deadline shorter than the verifier's
// timeout caps how long the attempt may wait.
func (v *LoginVerifier) Verify(ctx context.Context, provider harness.Provider, req facade.LoginRequest) (*LoginResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("login verification aborted: %w", err)
	}

	d, err := provider.Acquire()
	if err != nil {
		return nil, fmt.Errorf("login verification unavailable: %w", err)
	}
	defer provider.Release()

	timeout := v.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	sc := harness.Scenario{
		ID:            "login",
		URL:           req.URL,
		ReadySelector: req.UsernameSelector,
		Fields: []harness.Field{
			{Selector: req.UsernameSelector, Value: req.Username},
			{Selector: req.PasswordSelector, Value: req.Password},
		},
		Submit: req.SubmitSelector,
		Expect: harness.Expectation{
			// No success indicator is known for an arbitrary page, so
			// leaving the login URL is the signal. Staying put is a
			// finding about the credentials, not a fault.
			URLChanged: true,
			OnTimeout:  harness.ClassFail,
		},
		Timeout: harness.Duration(timeout),
	}

	out := v.runner.Run(d, sc)
	v.log.WithFields(logrus.Fields{
		"url":   req.URL,
		"class": out.Class,
	}).Info("login verification finished")

	return &LoginResult{
		Authenticated: out.Class == harness.ClassPass,
		FinalURL:      d.CurrentURL(),
		Outcome:       string(out.Class),
		Detail:        out.Message,
	}, nil
}
