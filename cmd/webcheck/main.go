// Command webcheck runs a browser test suite against a login page and
// prints the execution report.
//
// With no -suite flag it runs the built-in login battery against the
// practice login page; -suite points at a YAML suite definition.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/entrhq/webcheck/pkg/config"
	"github.com/entrhq/webcheck/pkg/harness"
)

const defaultLoginURL = "https://practicetestautomation.com/practice-test-login/"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		suitePath  = flag.String("suite", "", "path to a YAML suite definition")
		configPath = flag.String("config", "", "path to a YAML config file")
		loginURL   = flag.String("url", defaultLoginURL, "login page for the built-in suite")
		headed     = flag.Bool("headed", false, "run the browser with a visible window")
	)
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		return 2
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	suite := harness.LoginSuite(*loginURL)
	if *suitePath != "" {
		suite, err = harness.LoadSuite(*suitePath)
		if err != nil {
			logger.WithError(err).Error("failed to load suite")
			return 2
		}
	}

	headless := cfg.Browser.Headless && !*headed
	mgr := harness.NewManager(harness.Options{
		Headless: headless,
		Timeout:  cfg.BrowserTimeout(),
	}, logger)
	defer mgr.Shutdown()

	seq := harness.NewSequencer(mgr, harness.NewRunner(logger), logger)
	summary := seq.RunAll(suite.Scenarios)

	fmt.Print(harness.Render(summary))

	if summary.Failed > 0 || summary.Errored > 0 {
		return 1
	}
	return 0
}
