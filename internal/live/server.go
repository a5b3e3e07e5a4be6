package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Server exposes the hub and an optional metrics handler:
//
//	GET /ws       live event stream
//	GET /curves   latest curve snapshot as JSON
//	GET /metrics  Prometheus exposition (when configured)
//	GET /healthz  liveness
type Server struct {
	hub      *Hub
	metrics  http.Handler
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer builds a server around hub. metrics may be nil.
func NewServer(hub *Hub, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:     hub,
		metrics: metrics,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/curves", s.handleCurves)
	r.Get("/ws", s.handleWS)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) handleCurves(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	curves := s.hub.Curves()
	if curves == nil {
		curves = []CurvePoint{}
	}
	_ = json.NewEncoder(w).Encode(curves)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	s.log.Info("websocket client connected", "remote", r.RemoteAddr)
	s.hub.serve(conn)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and disconnects websocket clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("live server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
