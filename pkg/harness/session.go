package harness

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Session is a live Playwright-backed browser session. It implements Driver.
// Sessions are constructed and torn down only by a Manager; a runner borrows
// one for the duration of a scenario and never outlives the sequencer's
// control of it.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

var _ Driver = (*Session)(nil)

// Navigate loads the URL and waits for the load event.
func (s *Session) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Clear empties the input matching the selector.
func (s *Session) Clear(selector string) error {
	if err := s.page.Fill(selector, ""); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

// Fill sets the value of the input matching the selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Click clicks the element matching the selector.
func (s *Session) Click(selector string) error {
	if err := s.page.Click(selector); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// IsVisible probes whether an element matching the selector is visible.
// It checks current state and returns immediately; the wait engine owns
// any polling.
func (s *Session) IsVisible(selector string) (bool, error) {
	visible, err := s.page.IsVisible(selector)
	if err != nil {
		return false, fmt.Errorf("visibility probe failed: %w", err)
	}
	return visible, nil
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL() string {
	return s.page.URL()
}

// close releases the session's Playwright resources. Errors are ignored so
// cleanup always runs to completion.
func (s *Session) close() {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
}
