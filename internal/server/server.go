// Package server exposes the sizing engine over HTTP JSON endpoints with
// Prometheus metrics, plus a gRPC health service for orchestration
// probes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rackforge/dcsizer/internal/engine"
	"github.com/rackforge/dcsizer/internal/optimize"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Config controls the listening surfaces.
type Config struct {
	// ListenAddr is the HTTP bind address, e.g. ":8080".
	ListenAddr string
	// GRPCAddr is the gRPC health bind address; empty disables gRPC.
	GRPCAddr string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// MaxBodyBytes bounds request bodies; zero uses the default 1 MiB.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// Server hosts the sizing API.
type Server struct {
	cfg    Config
	calc   *engine.Calculator
	opt    *optimize.Optimizer
	logger zerolog.Logger
	reg    *prometheus.Registry

	health *health.Server

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Server. The registry carries both engine metrics and the
// server's own request instrumentation.
func New(cfg Config, calc *engine.Calculator, opt *optimize.Optimizer, reg *prometheus.Registry, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	s := &Server{
		cfg:    cfg,
		calc:   calc,
		opt:    opt,
		logger: logger,
		reg:    reg,
		health: health.NewServer(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dcsizer_http_requests_total",
			Help: "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dcsizer_http_request_duration_seconds",
			Help:    "HTTP request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	reg.MustRegister(s.requests, s.duration)
	return s
}

// Handler builds the HTTP mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/calculate", s.instrument("calculate", s.handleCalculate))
	mux.HandleFunc("POST /v1/optimize", s.instrument("optimize", s.handleOptimize))
	mux.HandleFunc("GET /v1/compare/cooling", s.instrument("compare_cooling", s.handleCompareCooling))
	mux.HandleFunc("GET /v1/compare/redundancy", s.instrument("compare_redundancy", s.handleCompareRedundancy))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

// Run serves HTTP (and gRPC health when configured) until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var grpcServer *grpc.Server
	if s.cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", s.cfg.GRPCAddr)
		if err != nil {
			return err
		}
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, s.health)
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				s.logger.Error().Err(err).Msg("grpc health server failed")
			}
		}()
		s.logger.Info().Str("addr", s.cfg.GRPCAddr).Msg("grpc health server listening")
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("http shutdown failed")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return nil
}

// instrument wraps a handler with request counting and latency
// observation.
func (s *Server) instrument(endpoint string, fn func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		code := fn(w, r)
		s.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
		s.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) int {
	var cfg engine.Config
	if code := s.decode(w, r, &cfg); code != 0 {
		return code
	}
	return s.respond(w, http.StatusOK, s.calc.Calculate(cfg))
}

// optimizeRequest is the POST /v1/optimize body.
type optimizeRequest struct {
	Constraints optimize.Constraints `json:"constraints"`
	Objective   optimize.Objective   `json:"objective"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) int {
	var req optimizeRequest
	if code := s.decode(w, r, &req); code != 0 {
		return code
	}
	return s.respond(w, http.StatusOK, s.opt.FindOptimalConfiguration(req.Constraints, req.Objective))
}

func (s *Server) handleCompareCooling(w http.ResponseWriter, r *http.Request) int {
	kwPerRack := queryFloat(r, "kwPerRack", engine.DefaultKWPerRack)
	totalRacks := queryInt(r, "totalRacks", engine.DefaultTotalRacks)
	return s.respond(w, http.StatusOK, s.opt.CompareCoolingTechnologies(kwPerRack, totalRacks))
}

func (s *Server) handleCompareRedundancy(w http.ResponseWriter, r *http.Request) int {
	kwPerRack := queryFloat(r, "kwPerRack", engine.DefaultKWPerRack)
	totalRacks := queryInt(r, "totalRacks", engine.DefaultTotalRacks)
	coolingType := engine.CoolingType(r.URL.Query().Get("coolingType"))
	if !engine.IsValidCoolingType(coolingType) {
		coolingType = engine.CoolingAir
	}
	return s.respond(w, http.StatusOK, s.opt.CompareRedundancyOptions(kwPerRack, coolingType, totalRacks))
}

// decode reads a JSON body into dst, writing a 400 on failure. Returns 0
// on success, else the status code already written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) int {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("bad request body")
		return s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON request body"})
	}
	return 0
}

func (s *Server) respond(w http.ResponseWriter, code int, payload any) int {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
	return code
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
