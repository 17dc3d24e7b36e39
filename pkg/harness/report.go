package harness

import (
	"fmt"
	"strings"
)

const (
	reportBanner  = "=================================================="
	reportDivider = "--------------------------------------------------"
	reportTitle   = "                TEST EXECUTION SUMMARY"
)

// Summarize tallies outcomes into a RunSummary. It is a pure function: the
// input slice is copied, submission order is preserved, and Fail and Error
// counts are never merged.
func Summarize(outcomes []Outcome) *RunSummary {
	s := &RunSummary{
		Outcomes: append([]Outcome(nil), outcomes...),
		Total:    len(outcomes),
	}
	for _, o := range s.Outcomes {
		switch o.Class {
		case ClassPass:
			s.Passed++
		case ClassFail:
			s.Failed++
		case ClassError:
			s.Errored++
		}
	}
	return s
}

// Render produces the textual report: header, one tagged line per outcome
// in original order, a divider, then the totals block. The output is
// byte-stable for identical input.
func Render(s *RunSummary) string {
	var b strings.Builder

	b.WriteString(reportBanner + "\n")
	b.WriteString(reportTitle + "\n")
	b.WriteString(reportBanner + "\n")

	for _, o := range s.Outcomes {
		fmt.Fprintf(&b, "[%s] %s: %s\n", o.Class, o.ScenarioID, o.Message)
	}

	b.WriteString(reportDivider + "\n")
	fmt.Fprintf(&b, "Total Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "Total Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "Total Errors: %d\n", s.Errored)
	fmt.Fprintf(&b, "Total Tests: %d\n", s.Total)
	b.WriteString(reportDivider + "\n")

	return b.String()
}
