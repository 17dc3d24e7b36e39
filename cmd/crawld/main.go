// Command crawld serves the crawl service: static-HTML crawling, form
// extraction, and browser-backed login verification behind a JSON API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/entrhq/webcheck/pkg/api"
	"github.com/entrhq/webcheck/pkg/config"
	"github.com/entrhq/webcheck/pkg/crawler"
	"github.com/entrhq/webcheck/pkg/facade"
	"github.com/entrhq/webcheck/pkg/harness"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
	)
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	engine := crawler.NewEngine(cfg.Crawler, logger)
	verifier := crawler.NewLoginVerifier(cfg.BrowserTimeout(), logger)

	// Each login request gets its own session manager: sessions are never
	// shared between concurrent verifications.
	login := func(ctx context.Context, req facade.LoginRequest) (*crawler.LoginResult, error) {
		mgr := harness.NewManager(harness.Options{
			Headless: cfg.Browser.Headless,
			Timeout:  cfg.BrowserTimeout(),
		}, logger)
		defer mgr.Shutdown()
		return verifier.Verify(ctx, mgr, req)
	}

	router := api.NewRouter(api.NewHandler(engine, login, logger), cfg.Server.AllowedOrigins, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.Server.Addr).Info("crawl service listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
