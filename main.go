package main

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"market/framework/httpserver"
	"market/internal/config"
	"market/internal/gql"
	"market/internal/logging"
	"market/internal/profiles"
	"market/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", logging.FormatJSON, os.Stderr)
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := httpserver.NewMetrics(registry)
	if err != nil {
		logger.Fatal().Err(err).Msg("register metrics")
	}

	graphqlClient := gql.NewClient(cfg)
	profileService := profiles.NewService(
		graphqlClient,
		cfg.ListingsPageSize,
		cfg.RootURL,
		logging.Component(logger, "profiles"),
	)

	handler, err := web.NewHandler(web.HandlerOptions{
		Config:  cfg,
		Service: profileService,
		Logger:  logging.Component(logger, "http"),
		Metrics: metrics,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("handler setup failed")
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Str("addr", cfg.ListenAddr).Msg("market server listening")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
