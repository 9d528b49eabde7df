// Package server exposes the gauges over HTTP for Prometheus scrapers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/and161185/gamestate-exporter/internal/config"
	"github.com/and161185/gamestate-exporter/internal/server/middleware"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Exposer renders the current metric values.
type Exposer interface {
	Serialize() ([]byte, error)
	ContentType() string
}

type Server struct {
	Store  Exposer
	Config *config.ExporterConfig
}

func NewServer(store Exposer, config *config.ExporterConfig) *Server {
	return &Server{
		Store:  store,
		Config: config,
	}
}

func (srv *Server) logger() *zap.SugaredLogger {
	if srv.Config == nil || srv.Config.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return srv.Config.Logger
}

// Router returns the handler tree: a single GET /metrics route.
func (srv *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.LogMiddleware(srv.logger()))
	router.Use(middleware.CompressMiddleware)
	router.Get("/metrics", srv.MetricsHandler)
	return router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.Config.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Config.Listen, err)
	}
	return srv.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.logger().Infow("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// MetricsHandler writes the current gauges in the text exposition format.
// Values are served as they are, however old the last successful poll is.
func (srv *Server) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	body, err := srv.Store.Serialize()
	if err != nil {
		srv.logger().Errorw("failed to serialize metrics", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", srv.Store.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		srv.logger().Warnw("failed to write metrics response", "error", err)
	}
}
