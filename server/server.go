// Package server exposes the analysis engine over HTTP. Each request runs an
// independent query against the shared read-only engine and is cancelled with
// the request context.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-interstop/calendar"
	"github.com/theoremus-urban-solutions/gtfs-interstop/engine"
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/metrics"
)

// Server serves analysis queries for one loaded feed.
type Server struct {
	engine    *engine.Engine
	logger    *slog.Logger
	collector *metrics.Collector
	srv       *http.Server
}

// New builds a Server. The collector is optional; when present /metrics is
// mounted on the same mux.
func New(eng *engine.Engine, logger *slog.Logger, collector *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: eng, logger: logger, collector: collector}
}

// Start begins listening on the given port without blocking.
func (s *Server) Start(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.HandleHealth)
	mux.HandleFunc("/api/interstop.json", s.HandleInterstop)
	if s.collector != nil {
		mux.Handle("/metrics", s.collector.Handler())
	}

	addr := fmt.Sprintf(":%d", port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
		}
	}()
	s.logger.Info("server listening", "addr", addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type healthResponse struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Tables: s.engine.Store().TableNames(),
	})
}

func (s *Server) HandleInterstop(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	var routes []string
	if raw := strings.TrimSpace(q.Get("routes")); raw != "" {
		routes = strings.Split(raw, ",")
	}

	report, err := s.engine.Run(r.Context(), date, routes)
	if err != nil {
		status := http.StatusInternalServerError
		var invalidDate *calendar.InvalidDateError
		var unknownTable *feed.UnknownTableError
		switch {
		case errors.As(err, &invalidDate):
			status = http.StatusBadRequest
		case errors.As(err, &unknownTable):
			status = http.StatusBadRequest
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusRequestTimeout
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(report)
}
