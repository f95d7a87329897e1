package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"boilerplate/internal/config"
	"boilerplate/internal/constants"
	apperrors "boilerplate/internal/errors"
	"boilerplate/internal/logfields"
	"boilerplate/internal/metrics"
	"boilerplate/internal/middleware"
	"boilerplate/internal/models"
	"boilerplate/internal/openapi"
	"boilerplate/internal/tracing"
	"boilerplate/internal/versioning"

	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/sirupsen/logrus"
)

// HealthRecorder counts calls to the health endpoint.
type HealthRecorder interface {
	RecordHealthCheck(ctx context.Context, endpoint, status string)
}

type Server struct {
	cfg      *models.Config
	router   *mux.Router
	handler  http.Handler
	logger   *logrus.Logger
	registry *metrics.Registry
	health   HealthRecorder
	docs     *openapi.Handler
	server   *http.Server
}

// NewServer wires routes and middleware. recorder and readiness may be nil.
func NewServer(cfg *models.Config, logger *logrus.Logger, registry *metrics.Registry, recorder HealthRecorder, readiness healthcheck.Check, verbose bool) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		router:   mux.NewRouter(),
		logger:   logger,
		registry: registry,
		health:   recorder,
		docs:     openapi.NewHandler(cfg.App),
	}

	probes := healthcheck.NewMetricsHandler(registry.Registerer(), constants.InstrumentationName)
	probes.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(cfg.Health.MaxGoroutines))
	if readiness != nil {
		probes.AddReadinessCheck("telemetry", readiness)
	}

	s.setupRoutes(probes)

	compress, err := middleware.CompressionMiddleware(cfg.Compression.MinSizeBytes)
	if err != nil {
		return nil, err
	}

	chain := []func(http.Handler) http.Handler{
		middleware.ObservabilityMiddleware(logger, registry, s.router),
	}
	if verbose {
		chain = append(chain, middleware.DetailedLoggingMiddleware(logger, middleware.DefaultDetailedLoggingConfig()))
	}
	chain = append(chain,
		middleware.ProcessTimeMiddleware(),
		compress,
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
		versioning.NewVersionMiddleware(logger).VersionHandler,
	)
	s.handler = middleware.Chain(s.router, chain...)

	return s, nil
}

func (s *Server) setupRoutes(probes healthcheck.Handler) {
	s.router.HandleFunc("/", s.handleRoot()).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/status", s.handleStatus()).Methods(http.MethodGet)

	// Probes and metrics
	s.router.HandleFunc("/live", probes.LiveEndpoint).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", probes.ReadyEndpoint).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.registry.Handler()).Methods(http.MethodGet)

	// Documentation
	s.router.HandleFunc(openapi.JSONPath, s.docs.ServeJSON).Methods(http.MethodGet)
	s.router.HandleFunc(openapi.YAMLPath, s.docs.ServeYAML).Methods(http.MethodGet)
	s.router.HandleFunc(openapi.DocsPath, s.docs.ServeDocs).Methods(http.MethodGet)
	s.router.HandleFunc(openapi.RedocPath, s.docs.ServeRedoc).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteJSON(w, apperrors.NewNotFoundError(r.URL.Path), tracing.GetRequestID(r.Context()))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteJSON(w, apperrors.NewMethodNotAllowedError(r.Method, r.URL.Path), tracing.GetRequestID(r.Context()))
	})
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.WithField(logfields.Address, addr).Info("Starting server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler implementations
func (s *Server) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, models.RootResponse{
			Message: fmt.Sprintf("Welcome to %s", s.cfg.App.Name),
			Docs:    openapi.DocsPath,
			Health:  "/health",
			Status:  "/status",
		})
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const status = "healthy"
		if s.health != nil {
			s.health.RecordHealthCheck(r.Context(), "/health", status)
		}
		s.writeJSON(w, r, models.HealthResponse{
			Status:    status,
			Timestamp: timestamp(),
		})
	}
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, models.StatusResponse{
			Status:      "operational",
			Application: s.cfg.App.Name,
			Version:     s.cfg.App.Version,
			Environment: config.Environment(s.cfg),
			Timestamp:   timestamp(),
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		tracing.RecordError(r.Context(), err)
		s.logger.WithFields(logrus.Fields{
			logfields.RequestID: tracing.GetRequestID(r.Context()),
			logfields.Path:      r.URL.Path,
		}).WithError(err).Error("Failed to encode response")
	}
}

func timestamp() string {
	return time.Now().UTC().Format(models.TimestampLayout)
}
