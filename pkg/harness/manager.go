package harness

import (
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Options configures the sessions a Manager hands out.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Timeout is the default per-operation timeout applied to the page.
	// Zero means DefaultScenarioTimeout.
	Timeout time.Duration
}

// Provider hands out a ready session and takes it back. The Manager is the
// production implementation; tests substitute fakes.
type Provider interface {
	// Acquire returns the live session, constructing one if needed.
	Acquire() (Driver, error)

	// Release tears the session down. Safe to call with no live session.
	Release()
}

// Manager owns the lifecycle of one browser session: lazy construction,
// reuse across scenarios within a run, and teardown. A Manager serves one
// run at a time; concurrent runs must each use their own Manager so no two
// ever share a session.
type Manager struct {
	opts Options
	log  *logrus.Entry

	pw      *playwright.Playwright
	session *Session
}

var _ Provider = (*Manager)(nil)

// NewManager creates a session manager. No browser work happens until the
// first Acquire.
func NewManager(opts Options, logger *logrus.Logger) *Manager {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultScenarioTimeout
	}
	return &Manager{
		opts: opts,
		log:  logger.WithField("component", "session-manager"),
	}
}

// Acquire returns the live session, starting the Playwright runtime and
// launching a browser if none exists. Idempotent: repeated calls while a
// session is live return the same session, and a session torn down by a
// prior Release is silently re-created. A failure to start the runtime or
// launch the browser is returned as *SessionInitError and must be treated
// as fatal for the run.
func (m *Manager) Acquire() (Driver, error) {
	if m.session != nil {
		return m.session, nil
	}

	// Discard driver output so it cannot interleave with the report.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if m.pw == nil {
		if err := playwright.Install(runOpts); err != nil {
			return nil, &SessionInitError{Cause: err}
		}
		pw, err := playwright.Run(runOpts)
		if err != nil {
			return nil, &SessionInitError{Cause: err}
		}
		m.pw = pw
	}

	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &m.opts.Headless,
	})
	if err != nil {
		return nil, &SessionInitError{Cause: err}
	}

	context, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		return nil, &SessionInitError{Cause: err}
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = browser.Close()
		return nil, &SessionInitError{Cause: err}
	}
	page.SetDefaultTimeout(float64(m.opts.Timeout.Milliseconds()))

	m.session = &Session{
		browser: browser,
		context: context,
		page:    page,
	}

	m.log.WithField("headless", m.opts.Headless).Info("browser session started")
	return m.session, nil
}

// Release closes the live session. Calling it with no live session, or
// after a previous Release, is a no-op rather than an error. The Playwright
// runtime stays up so a later Acquire only has to relaunch the browser.
func (m *Manager) Release() {
	if m.session == nil {
		return
	}
	m.session.close()
	m.session = nil
	m.log.Info("browser session closed")
}

// Shutdown releases the session and stops the Playwright runtime. Call once
// when the Manager will not be used again.
func (m *Manager) Shutdown() {
	m.Release()
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			m.log.WithError(err).Warn("failed to stop playwright")
		}
		m.pw = nil
	}
}
