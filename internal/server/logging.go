package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"family-drop/internal/logging"
)

// requestIDMiddleware ensures every request has a request id.
// If the client supplies X-Request-Id (or X-Correlation-ID), we keep it;
// otherwise we generate one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if rid == "" {
			rid = strings.TrimSpace(r.Header.Get("X-Correlation-ID"))
		}
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", rid)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), rid)))
	})
}

// loggingMiddleware logs one line per request and records the request counter.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code and response size
		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r)

		fields := map[string]any{
			"rid":     logging.RequestIDFromContext(r.Context()),
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  lrw.status,
			"ms":      time.Since(start).Milliseconds(),
			"bytes":   lrw.size,
			"ip":      clientIP(r),
			"ua":      r.UserAgent(),
			"referer": r.Referer(),
		}
		switch {
		case lrw.status >= 500:
			logging.Warn("http_request", fields)
		case r.URL.Path == "/health" || r.URL.Path == "/metrics":
			logging.Debug("http_request", fields)
		default:
			logging.Info("http_request", fields)
		}

		s.metrics.RecordRequest(lrw.status)
	})
}

// clientIP extracts the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	// X-Forwarded-For is a comma-separated list; the first entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// RemoteAddr is "ip:port"
	if i := strings.LastIndexByte(r.RemoteAddr, ':'); i >= 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
