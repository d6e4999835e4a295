package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/farmdesk/farmdesk/internal/config"
	"github.com/farmdesk/farmdesk/internal/service/logger"
)

// RouteRegistrar is implemented by every handler in this package
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// Server represents the HTTP server
type Server struct {
	addr   string
	log    logger.Logger
	server *http.Server
}

// NewServer creates the HTTP server with the full middleware chain and
// all handler routes registered.
func NewServer(cfg config.ServerConfig, log logger.Logger, handlers ...RouteRegistrar) *Server {
	router := mux.NewRouter()

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods("GET")

	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	handler := CORSMiddleware(CorrelationIDMiddleware(router))

	return &Server{
		addr: addr,
		log:  log,
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info(context.Background(), "starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
