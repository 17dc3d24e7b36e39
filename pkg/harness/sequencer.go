package harness

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sequencer runs an ordered battery of scenarios against one shared,
// lazily acquired session. Scenarios are isolated: an Error outcome never
// prevents later scenarios from running, and the session is released
// exactly once on the way out no matter how the run ends. The only fault
// that aborts a run is *SessionInitError, which marks every unexecuted
// scenario as Error without retrying acquisition.
type Sequencer struct {
	provider Provider
	runner   *Runner
	log      *logrus.Entry
}

// NewSequencer creates a sequencer over the given session provider.
func NewSequencer(provider Provider, runner *Runner, logger *logrus.Logger) *Sequencer {
	return &Sequencer{
		provider: provider,
		runner:   runner,
		log:      logger.WithField("component", "sequencer"),
	}
}

// RunAll executes the scenarios in order and returns the summary. The
// returned summary always holds exactly one outcome per submitted scenario;
// an unexpected panic inside the loop is captured as a synthetic "run"
// outcome rather than propagated.
func (s *Sequencer) RunAll(scenarios []Scenario) (summary *RunSummary) {
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)
	outcomes := make([]Outcome, 0, len(scenarios))

	defer func() {
		s.provider.Release()
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("run faulted")
			// Every submitted scenario still gets an outcome: back-fill
			// the ones the fault left unexecuted, then record the fault
			// itself as a synthetic run entry.
			for i := len(outcomes); i < len(scenarios); i++ {
				outcomes = append(outcomes, Outcome{
					ScenarioID: scenarios[i].ID,
					Class:      ClassError,
					Message:    "skipped: run aborted",
				})
			}
			outcomes = append(outcomes, Outcome{
				ScenarioID: "run",
				Class:      ClassError,
				Message:    fmt.Sprintf("unexpected fault: %v", rec),
			})
		}
		summary = Summarize(outcomes)
		summary.RunID = runID
		log.WithFields(logrus.Fields{
			"passed":  summary.Passed,
			"failed":  summary.Failed,
			"errored": summary.Errored,
			"total":   summary.Total,
		}).Info("run complete")
	}()

	log.WithField("scenarios", len(scenarios)).Info("run started")

	for i := 0; i < len(scenarios); i++ {
		sc := scenarios[i]

		d, err := s.provider.Acquire()
		if err != nil {
			var initErr *SessionInitError
			if errors.As(err, &initErr) {
				log.WithError(err).Error("session unavailable, aborting run")
				outcomes = append(outcomes, Outcome{
					ScenarioID: sc.ID,
					Class:      ClassError,
					Message:    initErr.Error(),
				})
				for i++; i < len(scenarios); i++ {
					outcomes = append(outcomes, Outcome{
						ScenarioID: scenarios[i].ID,
						Class:      ClassError,
						Message:    "skipped: session unavailable",
					})
				}
				return nil
			}
			outcomes = append(outcomes, Outcome{
				ScenarioID: sc.ID,
				Class:      ClassError,
				Message:    fmt.Sprintf("session acquire failed: %v", err),
			})
			continue
		}

		out := s.runner.Run(d, sc)
		log.WithFields(logrus.Fields{
			"scenario": out.ScenarioID,
			"class":    out.Class,
		}).Info("scenario finished")
		outcomes = append(outcomes, out)
	}

	return nil
}
