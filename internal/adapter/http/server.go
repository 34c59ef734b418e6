package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ConditionEvaluator evaluates a single condition request.
type ConditionEvaluator interface {
	Evaluate(req domain.ConditionRequest) (domain.ActivityCondition, error)
}

// ConditionStore persists evaluated conditions. GetCondition returns
// domain.ErrNotFound for an unknown id. ListConditions returns newest first.
type ConditionStore interface {
	SaveCondition(ctx context.Context, c domain.ActivityCondition) error
	GetCondition(ctx context.Context, id string) (domain.ActivityCondition, error)
	ListConditions(ctx context.Context, f domain.ConditionFilter) ([]domain.ActivityCondition, error)
}

// Server exposes the conditions API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	evaluator ConditionEvaluator
	store     ConditionStore
	history   domain.HistoryProvider
	estimate  domain.EstimateOptions
}

// Option configures optional API dependencies. Routes whose dependency is
// missing respond 503.
type Option func(*Server)

// WithEvaluator enables POST /api/v1/conditions.
func WithEvaluator(e ConditionEvaluator) Option {
	return func(s *Server) { s.evaluator = e }
}

// WithStore persists evaluated conditions and enables the history, lookup and
// export routes.
func WithStore(st ConditionStore) Option {
	return func(s *Server) { s.store = st }
}

// WithHistory enables provider-backed probability estimates.
func WithHistory(h domain.HistoryProvider) Option {
	return func(s *Server) { s.history = h }
}

// WithEstimateOptions sets the default percentiles and empty-window policy.
func WithEstimateOptions(opts domain.EstimateOptions) Option {
	return func(s *Server) { s.estimate = opts }
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 routes.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger, opts ...Option) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/conditions", func(cr chi.Router) {
			cr.Post("/", s.handleEvaluate)
			cr.Get("/", s.handleListConditions)
			cr.Get("/{id}", s.handleGetCondition)
			cr.Get("/{id}/export.csv", s.handleExportCondition)
		})
		api.Post("/probabilities", s.handleEstimate)
		api.Get("/probabilities", s.handleHistoricalEstimate)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
