package harness

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver scripts page behavior for runner and sequencer tests. Every
// interaction is appended to ops so tests can assert step ordering.
type fakeDriver struct {
	url string
	ops []string

	navErr   error
	clearErr map[string]error
	fillErr  map[string]error
	clickErr error

	// visible marks selectors that probe as visible. visibleAfter delays
	// visibility until a selector has been probed that many times.
	visible      map[string]bool
	visibleAfter map[string]int
	visibleErr   map[string]error
	probes       map[string]int

	// urlAfterClick simulates a navigation caused by submit.
	urlAfterClick string

	panicOnClick bool
}

func (d *fakeDriver) Navigate(url string) error {
	d.ops = append(d.ops, "navigate "+url)
	if d.navErr != nil {
		return d.navErr
	}
	d.url = url
	return nil
}

func (d *fakeDriver) Clear(selector string) error {
	d.ops = append(d.ops, "clear "+selector)
	return d.clearErr[selector]
}

func (d *fakeDriver) Fill(selector, value string) error {
	d.ops = append(d.ops, fmt.Sprintf("fill %s=%s", selector, value))
	return d.fillErr[selector]
}

func (d *fakeDriver) Click(selector string) error {
	d.ops = append(d.ops, "click "+selector)
	if d.panicOnClick {
		panic("driver connection lost")
	}
	if d.clickErr != nil {
		return d.clickErr
	}
	if d.urlAfterClick != "" {
		d.url = d.urlAfterClick
	}
	return nil
}

func (d *fakeDriver) IsVisible(selector string) (bool, error) {
	if d.probes == nil {
		d.probes = make(map[string]int)
	}
	d.probes[selector]++
	if err := d.visibleErr[selector]; err != nil {
		return false, err
	}
	if after, ok := d.visibleAfter[selector]; ok {
		return d.probes[selector] > after, nil
	}
	return d.visible[selector], nil
}

func (d *fakeDriver) CurrentURL() string {
	return d.url
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	r := NewRunner(logger)
	r.interval = time.Millisecond
	return r
}

func shortTimeout() Duration {
	return Duration(50 * time.Millisecond)
}

func TestRunnerValidLoginPasses(t *testing.T) {
	d := &fakeDriver{
		visible:       map[string]bool{"#username": true},
		urlAfterClick: "https://example.test/logged-in-successfully/",
	}

	out := testRunner(t).Run(d, Scenario{
		ID:            "valid_login",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Fields: []Field{
			{Selector: "#username", Value: "student"},
			{Selector: "#password", Value: "Password123"},
		},
		Submit:  "#submit",
		Expect:  Expectation{URLContains: "logged-in-successfully"},
		Timeout: shortTimeout(),
	})

	assert.Equal(t, ClassPass, out.Class)
	assert.Equal(t, "valid_login", out.ScenarioID)
	assert.Contains(t, out.Message, "logged-in-successfully")
}

func TestRunnerStepsExecuteInOrderWithClearBeforeFill(t *testing.T) {
	d := &fakeDriver{
		visible:       map[string]bool{"#username": true},
		urlAfterClick: "https://example.test/done",
	}

	testRunner(t).Run(d, Scenario{
		ID:            "ordering",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Fields: []Field{
			{Selector: "#username", Value: "student"},
			{Selector: "#password", Value: ""},
		},
		Submit:  "#submit",
		Expect:  Expectation{URLChanged: true},
		Timeout: shortTimeout(),
	})

	// Blank values still get an explicit clear before fill.
	assert.Equal(t, []string{
		"navigate https://example.test/login",
		"clear #username",
		"fill #username=student",
		"clear #password",
		"fill #password=",
		"click #submit",
	}, d.ops)
}

func TestRunnerNavigationFaultIsErrorAndSkipsRemainingSteps(t *testing.T) {
	d := &fakeDriver{navErr: errors.New("net::ERR_CONNECTION_REFUSED")}

	out := testRunner(t).Run(d, Scenario{
		ID:      "nav_fault",
		URL:     "https://example.test/login",
		Fields:  []Field{{Selector: "#username", Value: "student"}},
		Submit:  "#submit",
		Expect:  Expectation{URLChanged: true},
		Timeout: shortTimeout(),
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "navigate failed")
	assert.Equal(t, []string{"navigate https://example.test/login"}, d.ops)
}

func TestRunnerFillFaultIsError(t *testing.T) {
	d := &fakeDriver{
		visible: map[string]bool{"#username": true},
		fillErr: map[string]error{"#password": errors.New("element detached")},
	}

	out := testRunner(t).Run(d, Scenario{
		ID:            "fill_fault",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Fields: []Field{
			{Selector: "#username", Value: "student"},
			{Selector: "#password", Value: "x"},
		},
		Submit:  "#submit",
		Expect:  Expectation{URLChanged: true},
		Timeout: shortTimeout(),
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "fill #password failed")
	assert.NotContains(t, d.ops, "click #submit")
}

func TestRunnerPageNeverReadyIsError(t *testing.T) {
	d := &fakeDriver{}

	out := testRunner(t).Run(d, Scenario{
		ID:            "never_ready",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Expect:        Expectation{URLChanged: true},
		Timeout:       shortTimeout(),
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "page never ready")
}

func TestRunnerExpectedElementAppearsAfterPolling(t *testing.T) {
	d := &fakeDriver{
		visible:      map[string]bool{"#username": true},
		visibleAfter: map[string]int{"#error": 2},
	}

	out := testRunner(t).Run(d, Scenario{
		ID:            "invalid_login",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Fields: []Field{
			{Selector: "#username", Value: "invaliduser"},
			{Selector: "#password", Value: "invalidpass"},
		},
		Submit:  "#submit",
		Expect:  Expectation{VisibleSelector: "#error", OnTimeout: ClassFail},
		Timeout: shortTimeout(),
	})

	assert.Equal(t, ClassPass, out.Class)
	assert.GreaterOrEqual(t, d.probes["#error"], 3)
}

func TestRunnerTimeoutClassifiedPerScenario(t *testing.T) {
	tests := []struct {
		name      string
		onTimeout Classification
		want      Classification
	}{
		{"declared fail", ClassFail, ClassFail},
		{"declared error", ClassError, ClassError},
		{"default is fail", "", ClassFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDriver{visible: map[string]bool{"#username": true}}

			out := testRunner(t).Run(d, Scenario{
				ID:            "timeout_policy",
				URL:           "https://example.test/login",
				ReadySelector: "#username",
				Expect:        Expectation{VisibleSelector: "#missing", OnTimeout: tt.onTimeout},
				Timeout:       shortTimeout(),
			})

			assert.Equal(t, tt.want, out.Class)
			assert.Contains(t, out.Message, "#missing")
		})
	}
}

func TestRunnerURLMismatchIsFail(t *testing.T) {
	d := &fakeDriver{
		visible:       map[string]bool{"#username": true},
		urlAfterClick: "https://example.test/login?error=1",
	}

	out := testRunner(t).Run(d, Scenario{
		ID:            "wrong_page",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Submit:        "#submit",
		Expect:        Expectation{URLContains: "logged-in-successfully"},
		Timeout:       shortTimeout(),
	})

	assert.Equal(t, ClassFail, out.Class)
	assert.Contains(t, out.Message, "error=1", "message should carry the observed URL")
}

func TestRunnerAssertionProbeFaultIsError(t *testing.T) {
	d := &fakeDriver{
		visible:    map[string]bool{"#username": true},
		visibleErr: map[string]error{"#error": errors.New("target closed")},
	}

	out := testRunner(t).Run(d, Scenario{
		ID:            "probe_fault",
		URL:           "https://example.test/login",
		ReadySelector: "#username",
		Expect:        Expectation{VisibleSelector: "#error"},
		Timeout:       shortTimeout(),
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "target closed")
}

func TestRunnerPanicBecomesErrorOutcome(t *testing.T) {
	d := &fakeDriver{
		visible:      map[string]bool{"#username": true},
		panicOnClick: true,
	}

	var out Outcome
	require.NotPanics(t, func() {
		out = testRunner(t).Run(d, Scenario{
			ID:            "panicky",
			URL:           "https://example.test/login",
			ReadySelector: "#username",
			Submit:        "#submit",
			Expect:        Expectation{URLChanged: true},
			Timeout:       shortTimeout(),
		})
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "driver connection lost")
}

func TestRunnerNoExpectationIsError(t *testing.T) {
	d := &fakeDriver{}

	out := testRunner(t).Run(d, Scenario{
		ID:      "no_expectation",
		URL:     "https://example.test/",
		Timeout: shortTimeout(),
	})

	assert.Equal(t, ClassError, out.Class)
	assert.Contains(t, out.Message, "no expectation")
}
