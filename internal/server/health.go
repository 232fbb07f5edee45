package server

import (
	"context"
	"net/http"
	"time"
)

// HandleHealth is the liveness probe: it answers as long as the process runs.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.cfg.Server.Version != "" {
		body["version"] = s.cfg.Server.Version
	}
	writeJSON(w, http.StatusOK, body)
}

// HandleReady is the readiness probe: it pings the storage backend.
func (s *Server) HandleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "provider": s.uploader.Provider()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.health.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "not_ready",
			"provider": s.uploader.Provider(),
			"message":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"provider":   s.uploader.Provider(),
		"latency_ms": time.Since(start).Milliseconds(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
