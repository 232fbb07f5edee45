package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"

	"family-drop/internal/config"
	"family-drop/internal/storage"
	"family-drop/internal/upload"
)

// Uploader runs one family upload. *upload.Service implements it.
type Uploader interface {
	Upload(ctx context.Context, req upload.Request) ([]upload.Result, upload.Stats, error)
	Provider() string
}

type Server struct {
	httpServer *http.Server
	cfg        config.Config
	uploader   Uploader
	health     storage.HealthChecker
	metrics    *Metrics
}

// New builds the server. health may be nil when the backend cannot be pinged.
func New(cfg config.Config, uploader Uploader, health storage.HealthChecker) *Server {
	s := &Server{
		cfg:      cfg,
		uploader: uploader,
		health:   health,
		metrics:  NewMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/ready", s.HandleReady)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/upload", s.uploadHandler)

	// Wrap middleware: requestID -> logging -> cors -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = newCORS(cfg.CORS).Handler(handler)
	handler = s.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	return s
}

func newCORS(cfg config.CORSConfig) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	})
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Metrics returns the server's metric collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
