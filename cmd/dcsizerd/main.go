// Command dcsizerd serves the data-center sizing engine as an HTTP JSON
// API with Prometheus metrics and an optional gRPC health endpoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rackforge/dcsizer/internal/engine"
	"github.com/rackforge/dcsizer/internal/optimize"
	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rackforge/dcsizer/internal/pricing"
	"github.com/rackforge/dcsizer/internal/server"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := loadConfig()
	logger := newLogger(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	provider := newProvider(cfg, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := engine.NewMetrics(registry)

	calc := engine.NewCalculator(provider, logger,
		engine.WithCache(cfg.CacheTTL, cfg.CacheCapacity),
		engine.WithMetrics(metrics),
	)
	opt := optimize.New(calc, logger, metrics)

	srv := server.New(server.Config{
		ListenAddr:      cfg.ListenAddr,
		GRPCAddr:        cfg.GRPCAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, calc, opt, registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", engine.EngineVersion).
		Str("listen_addr", cfg.ListenAddr).
		Msg("dcsizerd starting")

	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("dcsizerd stopped")
}

// newProvider wires the pricing/params provider: file-backed when paths
// are configured, the embedded catalog otherwise.
func newProvider(cfg config, logger zerolog.Logger) *pricing.Provider {
	if cfg.PricingPath == "" && cfg.ParamsPath == "" {
		return pricing.NewDefaultProvider(logger)
	}
	load := func() (pricing.Matrix, params.Params, error) {
		pset := params.Defaults()
		if cfg.ParamsPath != "" {
			loaded, err := params.Load(cfg.ParamsPath)
			if err != nil {
				return nil, pset, err
			}
			pset = loaded
		}
		if cfg.PricingPath != "" {
			matrix, err := pricing.NewClientFromFile(cfg.PricingPath, logger)
			if err != nil {
				return nil, pset, err
			}
			return matrix, pset, nil
		}
		matrix, err := pricing.NewClient(logger)
		return matrix, pset, err
	}
	return pricing.NewProvider(load, pricing.DefaultTTL, logger)
}

func newLogger(cfg config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.LogFormat == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
