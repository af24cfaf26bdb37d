package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/satveg-series/satveg"
)

// SeriesClient is the lookup capability the facade exposes over HTTP.
type SeriesClient interface {
	FetchSeries(ctx context.Context, lat, lon float64) (satveg.SeriesResponse, error)
}

// Server exposes the series lookup plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	client     SeriesClient
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/series, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, client SeriesClient, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // must outlive one upstream lookup
			IdleTimeout:  60 * time.Second,
		},
		client: client,
		logger: logger,
	}

	mux.HandleFunc("GET /v1/series", s.handleSeries)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleSeries proxies one lookup. The envelope's status code doubles as
// the HTTP status, so callers see what the upstream said; only a transport
// failure produces a facade-owned status.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoord(r, "lat")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lon, err := parseCoord(r, "lon")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp, err := s.client.FetchSeries(r.Context(), lat, lon)
	if err != nil {
		s.logger.Error("series lookup failed", "error", err, "lat", lat, "lon", lon)
		writeJSON(w, http.StatusBadGateway, satveg.SeriesResponse{
			StatusCode: http.StatusBadGateway,
			Message:    "upstream unreachable",
		})
		return
	}

	writeJSON(w, resp.StatusCode, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.client == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no series client configured",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func parseCoord(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
