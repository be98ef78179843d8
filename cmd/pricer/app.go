package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickgao/market-pricer/internal/adjust"
	"github.com/rickgao/market-pricer/internal/api"
	"github.com/rickgao/market-pricer/internal/auth"
	"github.com/rickgao/market-pricer/internal/catalog"
	"github.com/rickgao/market-pricer/internal/config"
	"github.com/rickgao/market-pricer/internal/connection"
	"github.com/rickgao/market-pricer/internal/pricing"
	"github.com/rickgao/market-pricer/internal/ratelimit"
	"github.com/rickgao/market-pricer/internal/report"
	"github.com/rickgao/market-pricer/internal/session"
)

// app wires the components one command invocation needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	in      io.Reader
	out     io.Writer
	printer *report.Printer

	client   *api.Client
	sessions *session.Manager
	catalog  catalog.Registry
	pacer    ratelimit.Pacer
}

func newApp(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) *app {
	client := api.NewClient(cfg.API.BaseURL,
		api.WithPlatform(cfg.API.Platform),
		api.WithLanguage(cfg.API.Language),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithLogger(logger),
	)

	presence := connection.DefaultClientConfig()
	presence.URL = cfg.Session.WSURL
	presence.Platform = cfg.API.Platform
	presence.PingInterval = cfg.Session.PingInterval
	presence.PingTimeout = cfg.Session.PingTimeout

	sessions := session.NewManager(client, client, session.Config{
		Presence:    presence,
		OpenTimeout: cfg.Session.OpenTimeout,
		SettleDelay: cfg.Session.SettleDelay,
	}, session.WithLogger(logger))
	client.SetTokenSource(sessions)

	return &app{
		cfg:      cfg,
		logger:   logger,
		in:       in,
		out:      out,
		printer:  report.NewPrinter(out),
		client:   client,
		sessions: sessions,
		catalog:  catalog.NewRegistry(catalog.Config{IndexTTL: cfg.Catalog.IndexTTL}, client, logger),
		pacer:    ratelimit.NewTokenBucket(cfg.Adjust.PaceInterval, cfg.Adjust.PaceBurst),
	}
}

// signIn authenticates with the credentials from the environment.
func (a *app) signIn(ctx context.Context) (*session.Session, error) {
	creds, err := auth.LoadCredentials(a.cfg.Session.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	defer creds.Destroy()

	return a.sessions.Authenticate(ctx, creds)
}

// strategy builds the pricing strategy, preferring override when set.
func (a *app) strategy(override string) (pricing.Strategy, error) {
	name := a.cfg.Pricing.Strategy
	if override != "" {
		name = override
	}
	return pricing.NewStrategy(name, pricing.Options{
		SampleSize: a.cfg.Pricing.SampleSize,
		Disparity:  a.cfg.Pricing.Disparity,
	})
}

func (a *app) orchestrator(strategy pricing.Strategy) *adjust.Orchestrator {
	return adjust.New(
		adjust.Config{Threshold: a.cfg.Adjust.Threshold},
		a.client,
		a.catalog,
		a.sessions,
		strategy,
		a.pacer,
		a.logger,
	)
}

// close ends the session if one was started.
func (a *app) close() {
	if !a.sessions.Authenticated() {
		return
	}
	if err := a.sessions.Logout(); err != nil {
		a.logger.Warn("logout", "err", err)
	}
}
