// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/pigment/internal/api"
	"github.com/tomtom215/pigment/internal/catalog"
	"github.com/tomtom215/pigment/internal/config"
	"github.com/tomtom215/pigment/internal/exposure"
	"github.com/tomtom215/pigment/internal/logging"
	"github.com/tomtom215/pigment/internal/recommend"
	"github.com/tomtom215/pigment/internal/recommend/reranking"
	"github.com/tomtom215/pigment/internal/supervisor"
	"github.com/tomtom215/pigment/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Version:   version,
		Output:    os.Stderr,
	})

	logging.Info().Msg("Starting Pigment with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Pigment stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires components and blocks until a shutdown signal arrives.
func run(cfg *config.Config) error {
	cat, err := catalog.Load(cfg.Catalog.PalettesPath, cfg.Catalog.ItemsPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logging.Info().
		Int("items", cat.Len()).
		Int("clusters", len(cat.Centers())).
		Msg("Reference catalog loaded")

	store, err := exposure.New(cfg.ToExposureConfig(), logging.WithComponent("exposure"))
	if err != nil {
		return fmt.Errorf("open exposure store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing exposure store")
		}
	}()
	logging.Info().Str("backend", cfg.Exposure.Backend).Msg("Exposure store initialized")

	engine, err := newEngine(cfg, cat, store)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if m, ok := store.(exposure.Maintainer); ok && cfg.Exposure.GCInterval > 0 {
		tree.AddDataService(services.NewMaintenanceService(m, cfg.Exposure.GCInterval, logging.WithComponent("maintenance")))
		logging.Info().Dur("interval", cfg.Exposure.GCInterval).Msg("Exposure maintenance added to supervisor tree")
	}

	server := newHTTPServer(cfg, engine, store)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	err = tree.Serve(ctx)
	stop()

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// newEngine builds the recommendation engine with its rerankers.
func newEngine(cfg *config.Config, cat *catalog.Catalog, store exposure.Store) (*recommend.Engine, error) {
	engineCfg := cfg.ToEngineConfig()
	engine, err := recommend.NewEngine(engineCfg, cat, store, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	d := engineCfg.Diversity
	engine.RegisterReranker(reranking.NewMMR(d.LambdaMMR, d.ArtistPenalty))
	engine.RegisterReranker(reranking.NewQuota(d.QuotaMax))

	logging.Info().
		Int("n_cand", d.NCand).
		Int("n_sample", d.NSample).
		Int("k_final", d.KFinal).
		Float64("lambda_mmr", d.LambdaMMR).
		Float64("quota_max", d.QuotaMax).
		Int("cooldown_days", d.CooldownDays).
		Msg("Recommendation engine initialized")

	return engine, nil
}

// newHTTPServer builds the chi router and wraps it in an http.Server.
func newHTTPServer(cfg *config.Config, engine *recommend.Engine, store exposure.Store) *http.Server {
	handler := api.NewHandler(engine, store, api.HandlerOptions{
		Version:        version,
		RequestTimeout: cfg.Server.Timeout,
	})

	chiMw := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitReqs,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)

	router := api.NewRouter(handler, chiMw, api.RouterOptions{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	return &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
