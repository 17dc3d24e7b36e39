package harness

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Classification tags the result of one scenario.
type Classification string

const (
	// ClassPass means the assertion ran and matched the expectation.
	ClassPass Classification = "PASS"

	// ClassFail means the assertion ran but the observed page state did
	// not match the expectation.
	ClassFail Classification = "FAIL"

	// ClassError means the scenario could not complete: the session was
	// unavailable, a step threw, or a required signal never appeared.
	ClassError Classification = "ERROR"
)

// Scenario is one scripted navigate/interact/assert sequence. Scenarios are
// immutable once defined and identified by ID in reports.
type Scenario struct {
	// ID is the stable identifier used in outcome lines.
	ID string `yaml:"id"`

	// URL is the page the scenario starts on.
	URL string `yaml:"url"`

	// ReadySelector, when set, is the anchor element whose visibility
	// signals that the page has loaded. Steps do not run until it appears.
	ReadySelector string `yaml:"ready_selector"`

	// Fields are filled in order. Each field is cleared before the value
	// is set, because a shared session may retain state from a prior
	// scenario.
	Fields []Field `yaml:"fields"`

	// Submit is the selector clicked after all fields are filled.
	// Empty means no submit step.
	Submit string `yaml:"submit"`

	// Expect declares the post-action signal and how its absence is
	// classified.
	Expect Expectation `yaml:"expect"`

	// Timeout bounds the ready wait and the expectation wait.
	// Zero means DefaultScenarioTimeout.
	Timeout Duration `yaml:"timeout"`
}

// Field is one input to clear and fill.
type Field struct {
	Selector string `yaml:"selector"`
	Value    string `yaml:"value"`
}

// Expectation declares what observed state counts as a pass. Exactly one of
// URLContains, VisibleSelector, or URLChanged should be set.
type Expectation struct {
	// URLContains passes when the current URL contains this fragment.
	URLContains string `yaml:"url_contains"`

	// VisibleSelector passes when an element matching this selector
	// becomes visible.
	VisibleSelector string `yaml:"visible_selector"`

	// URLChanged passes when the current URL differs from the scenario's
	// starting URL. Used for generic login verification where no success
	// indicator is known up front.
	URLChanged bool `yaml:"url_changed"`

	// OnTimeout classifies the outcome when the expected signal never
	// appears before the timeout. A scenario asserting that an element
	// must exist declares ClassError here; one asserting absence (or
	// testing rejection) declares ClassFail. Empty defaults to ClassFail.
	OnTimeout Classification `yaml:"on_timeout"`
}

// Outcome is the classified result of one scenario.
type Outcome struct {
	ScenarioID string         `json:"scenario_id"`
	Class      Classification `json:"class"`
	Message    string         `json:"message"`
}

// RunSummary is the ordered collection of outcomes for one full run plus
// derived counts. Outcomes appear in submission order.
type RunSummary struct {
	RunID    string    `json:"run_id"`
	Outcomes []Outcome `json:"outcomes"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Errored  int       `json:"errored"`
	Total    int       `json:"total"`
}

// Driver is the page-level surface a scenario needs from a live session.
// The playwright-backed Session implements it; tests substitute fakes.
type Driver interface {
	// Navigate loads the given URL and waits for the load event.
	Navigate(url string) error

	// Clear empties the input matching the selector.
	Clear(selector string) error

	// Fill sets the value of the input matching the selector.
	Fill(selector, value string) error

	// Click clicks the element matching the selector.
	Click(selector string) error

	// IsVisible reports whether an element matching the selector is
	// currently visible. It probes once and never blocks.
	IsVisible(selector string) (bool, error)

	// CurrentURL returns the URL of the current page.
	CurrentURL() string
}

// Duration wraps time.Duration so suite files can write "10s" or "1500ms".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in Go syntax.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default values for scenario execution.
const (
	// DefaultScenarioTimeout bounds ready and expectation waits when a
	// scenario does not declare its own.
	DefaultScenarioTimeout = 10 * time.Second

	// DefaultPollInterval is the wait engine's polling cadence.
	DefaultPollInterval = 250 * time.Millisecond
)
