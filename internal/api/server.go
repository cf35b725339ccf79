// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"jobmindr/internal/common/config"
	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r *mux.Router)
}

type Server struct {
	cfg    config.ServerConfig
	router *mux.Router
	api    *mux.Router
	srv    *http.Server
	logger logger.Logger
}

// NewServer builds the router and middleware chain. API routes live under
// cfg.BasePath; /metrics and whatever is mounted with MountRoot sit at the root.
func NewServer(cfg config.ServerConfig, obs *observability.Observability, errs *apperrors.ErrorHandler, log logger.Logger) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router
	if base := strings.TrimRight(cfg.BasePath, "/"); base != "" {
		apiRouter = router.PathPrefix(base).Subrouter()
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		api:    apiRouter,
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	handler := Chain(router,
		RecoverMiddleware(errs, s.logger),
		RequestIDMiddleware(log),
		AccessLogMiddleware(router, log),
		MetricsMiddleware(router, obs),
		CORSMiddleware(cfg.CORSAllowedOrigin),
	)

	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

// Mount registers route groups under the API base path.
func (s *Server) Mount(regs ...Registrar) {
	for _, reg := range regs {
		reg.Register(s.api)
	}
}

// MountRoot registers route groups at the root, outside the base path.
func (s *Server) MountRoot(regs ...Registrar) {
	for _, reg := range regs {
		reg.Register(s.router)
	}
}

func (s *Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.api.HandleFunc(path, handler).Methods(methods...)
}

// Handler is the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr":     s.srv.Addr,
		"basePath": s.cfg.BasePath,
	})
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
