// Package health provides the HTTP server behind the serve command: probes,
// prometheus metrics and today's prediction snapshot.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/models"
)

// Pinger defines the interface for checking a dependency's connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotProvider returns today's snapshot, generating it when absent.
type SnapshotProvider interface {
	GetOrGenerate(ctx context.Context) (*models.PredictionSnapshot, bool, error)
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server serves the probe, metrics and snapshot endpoints.
type Server struct {
	serviceName    string
	version        string
	port           int
	server         *http.Server
	logger         *logrus.Logger
	checks         map[string]Pinger
	snapshots      SnapshotProvider
	metricsPath    string
	metricsHandler http.Handler
	mu             sync.RWMutex
	ready          bool
}

// Config holds the configuration for the server.
type Config struct {
	ServiceName string
	Version     string
	Port        int
	Logger      *logrus.Logger
	// Checks are pinged by /ready, keyed by the name reported in the response.
	Checks    map[string]Pinger
	Snapshots SnapshotProvider
	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewServer creates a new server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == 0 {
		port = 9090
	}
	path := cfg.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Server{
		serviceName:    cfg.ServiceName,
		version:        cfg.Version,
		port:           port,
		logger:         log,
		checks:         cfg.Checks,
		snapshots:      cfg.Snapshots,
		metricsPath:    path,
		metricsHandler: cfg.MetricsHandler,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the routed endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	if s.metricsHandler != nil {
		mux.Handle(s.metricsPath, s.metricsHandler)
	}
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(s.port)),
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.serviceName,
		}).Info("HTTP server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("HTTP server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady handles the /ready endpoint - pings every registered dependency.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		err := s.checks[name].Ping(ctx)
		cancel()

		if err != nil {
			allHealthy = false
			checks[name] = fmt.Sprintf("error: %v", err)
		} else {
			checks[name] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if allHealthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

// handleSnapshot serves today's prediction snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.snapshots == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshots unavailable"})
		return
	}

	snapshot, cached, err := s.snapshots.GetOrGenerate(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to serve snapshot")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("X-Snapshot-Cached", strconv.FormatBool(cached))
	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
