package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCounts(t *testing.T) {
	outcomes := []Outcome{
		{ScenarioID: "a", Class: ClassPass, Message: "ok"},
		{ScenarioID: "b", Class: ClassFail, Message: "mismatch"},
		{ScenarioID: "c", Class: ClassError, Message: "boom"},
		{ScenarioID: "d", Class: ClassPass, Message: "ok"},
	}

	s := Summarize(outcomes)

	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, s.Total, s.Passed+s.Failed+s.Errored)
}

func TestSummarizePreservesOrderAndInput(t *testing.T) {
	outcomes := []Outcome{
		{ScenarioID: "z", Class: ClassError},
		{ScenarioID: "a", Class: ClassPass},
	}

	s := Summarize(outcomes)

	require.Len(t, s.Outcomes, 2)
	assert.Equal(t, "z", s.Outcomes[0].ScenarioID)
	assert.Equal(t, "a", s.Outcomes[1].ScenarioID)

	// Summarize copies; mutating its result must not reach the input.
	s.Outcomes[0].ScenarioID = "mutated"
	assert.Equal(t, "z", outcomes[0].ScenarioID)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Passed)
	assert.Zero(t, s.Failed)
	assert.Zero(t, s.Errored)
	assert.Zero(t, s.Total)
}

func TestRenderGolden(t *testing.T) {
	s := Summarize([]Outcome{
		{ScenarioID: "valid_login", Class: ClassPass, Message: "url contains \"logged-in-successfully\""},
		{ScenarioID: "invalid_login", Class: ClassFail, Message: "element #error not visible within 10s"},
		{ScenarioID: "blank_fields", Class: ClassError, Message: "skipped: session unavailable"},
	})

	want := `==================================================
                TEST EXECUTION SUMMARY
==================================================
[PASS] valid_login: url contains "logged-in-successfully"
[FAIL] invalid_login: element #error not visible within 10s
[ERROR] blank_fields: skipped: session unavailable
--------------------------------------------------
Total Passed: 1
Total Failed: 1
Total Errors: 1
Total Tests: 3
--------------------------------------------------
`

	assert.Equal(t, want, Render(s))
}

func TestRenderDeterministic(t *testing.T) {
	s := Summarize([]Outcome{
		{ScenarioID: "a", Class: ClassPass, Message: "ok"},
		{ScenarioID: "b", Class: ClassError, Message: "boom"},
	})

	assert.Equal(t, Render(s), Render(s))
}

func TestRenderAllErrorsStillCompletes(t *testing.T) {
	s := Summarize([]Outcome{
		{ScenarioID: "a", Class: ClassError, Message: "boom"},
		{ScenarioID: "b", Class: ClassError, Message: "boom"},
	})

	text := Render(s)
	assert.Contains(t, text, "Total Tests: 2")
	assert.Contains(t, text, "Total Errors: 2")
}
