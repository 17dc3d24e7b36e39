package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a named, ordered set of scenarios loaded from YAML or built
// programmatically.
type Suite struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadSuite reads and validates a suite definition from a YAML file.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(raw, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}

	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

// Validate checks that every scenario is runnable: non-empty unique IDs, a
// target URL, exactly one declared expectation, and a known timeout policy.
func (s *Suite) Validate() error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("suite %q has no scenarios", s.Name)
	}

	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if sc.ID == "" {
			return fmt.Errorf("scenario %d has no id", i)
		}
		if seen[sc.ID] {
			return fmt.Errorf("duplicate scenario id %q", sc.ID)
		}
		seen[sc.ID] = true

		if sc.URL == "" {
			return fmt.Errorf("scenario %q has no url", sc.ID)
		}

		declared := 0
		if sc.Expect.URLContains != "" {
			declared++
		}
		if sc.Expect.VisibleSelector != "" {
			declared++
		}
		if sc.Expect.URLChanged {
			declared++
		}
		if declared != 1 {
			return fmt.Errorf("scenario %q must declare exactly one expectation, has %d", sc.ID, declared)
		}

		switch sc.Expect.OnTimeout {
		case "", ClassFail, ClassError:
		default:
			return fmt.Errorf("scenario %q: on_timeout must be FAIL or ERROR, got %q", sc.ID, sc.Expect.OnTimeout)
		}
	}
	return nil
}

// LoginSuite builds the stock login battery against a practice login page:
// valid credentials reach the success page, invalid and blank credentials
// surface the rejection message. The invalid and blank cases declare
// ClassFail on timeout because a missing rejection message is the behavior
// under test, not an infrastructure fault.
func LoginSuite(loginURL string) *Suite {
	return &Suite{
		Name: "login",
		Scenarios: []Scenario{
			{
				ID:            "valid_login",
				URL:           loginURL,
				ReadySelector: "#username",
				Fields: []Field{
					{Selector: "#username", Value: "student"},
					{Selector: "#password", Value: "Password123"},
				},
				Submit: "#submit",
				Expect: Expectation{
					URLContains: "logged-in-successfully",
				},
			},
			{
				ID:            "invalid_login",
				URL:           loginURL,
				ReadySelector: "#username",
				Fields: []Field{
					{Selector: "#username", Value: "invaliduser"},
					{Selector: "#password", Value: "invalidpass"},
				},
				Submit: "#submit",
				Expect: Expectation{
					VisibleSelector: "#error",
					OnTimeout:       ClassFail,
				},
			},
			{
				ID:            "blank_fields",
				URL:           loginURL,
				ReadySelector: "#username",
				Fields: []Field{
					{Selector: "#username", Value: ""},
					{Selector: "#password", Value: ""},
				},
				Submit: "#submit",
				Expect: Expectation{
					VisibleSelector: "#error",
					OnTimeout:       ClassFail,
				},
			},
		},
	}
}
