// Package harness orchestrates scripted browser test scenarios against a
// single shared Playwright session.
//
// The package is built around five pieces:
//
//  1. Manager: owns the session lifecycle (lazy launch, reuse, teardown)
//  2. Await: bounded predicate polling for asynchronous page state
//  3. Runner: executes one scenario and classifies its outcome
//  4. Sequencer: runs an ordered battery with per-scenario isolation
//  5. Summarize/Render: pure aggregation and the textual report
//
// # Outcome classification
//
// Every scenario resolves to exactly one Outcome: PASS when the assertion
// matched, FAIL when the assertion ran but observed state mismatched, and
// ERROR when the scenario could not complete (session unavailable, a step
// threw, or a required signal never appeared). FAIL and ERROR are distinct
// categories and are never merged: FAIL is a behavioral finding about the
// page under test, ERROR is a fault in the run itself.
//
// A wait timeout is classified by the scenario author through
// Expectation.OnTimeout: a scenario that needs the signal to exist for the
// test to be meaningful declares ERROR, one where the signal's absence is
// itself the thing being tested declares FAIL.
//
// # Session sharing
//
// Scenarios within a run execute strictly sequentially against one session,
// acquired lazily and released exactly once when the run ends. Because the
// session carries page state across scenarios, the runner clears every
// field before filling it. Concurrent runs must each use their own Manager.
//
// # Example
//
//	mgr := harness.NewManager(harness.Options{Headless: true}, logger)
//	defer mgr.Shutdown()
//
//	seq := harness.NewSequencer(mgr, harness.NewRunner(logger), logger)
//	summary := seq.RunAll(harness.LoginSuite(loginURL).Scenarios)
//	fmt.Print(harness.Render(summary))
package harness
