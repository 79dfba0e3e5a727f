package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// config is resolved entirely from environment variables so the daemon
// runs unchanged in containers and under systemd.
type config struct {
	ListenAddr      string
	GRPCAddr        string
	ParamsPath      string
	PricingPath     string
	LogLevel        string
	LogFormat       string
	CacheTTL        time.Duration
	CacheCapacity   int
	ShutdownTimeout time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		ListenAddr:      envOr("DCSIZER_LISTEN_ADDR", ":8080"),
		GRPCAddr:        os.Getenv("DCSIZER_GRPC_ADDR"),
		ParamsPath:      os.Getenv("DCSIZER_PARAMS_FILE"),
		PricingPath:     os.Getenv("DCSIZER_PRICING_FILE"),
		LogLevel:        envOr("DCSIZER_LOG_LEVEL", "info"),
		LogFormat:       envOr("DCSIZER_LOG_FORMAT", "json"),
		CacheTTL:        5 * time.Minute,
		CacheCapacity:   128,
		ShutdownTimeout: 10 * time.Second,
	}

	var err error
	if cfg.CacheTTL, err = envDuration("DCSIZER_CACHE_TTL", cfg.CacheTTL); err != nil {
		return cfg, err
	}
	if cfg.CacheCapacity, err = envInt("DCSIZER_CACHE_CAPACITY", cfg.CacheCapacity); err != nil {
		return cfg, err
	}
	if cfg.ShutdownTimeout, err = envDuration("DCSIZER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
