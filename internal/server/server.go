package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/veldspar/intelboard/internal/config"
)

type Server struct {
	cfg *config.Configuration
	srv *http.Server
	log *zap.SugaredLogger
}

// NewServer builds the HTTP server. The registerHandlerFn callback receives
// a RouterGroup prefixed with /api/v1; the Prometheus registry is exposed
// on /metrics outside the API prefix.
func NewServer(cfg *config.Configuration, registry *prometheus.Registry, registerHandlerFn func(*gin.RouterGroup)) *Server {
	if cfg.Server.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	httpLog := zap.L().Named("http")
	router.Use(ginzap.Ginzap(httpLog, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(httpLog, true))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	registerHandlerFn(api)

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler: router,
		},
		log: zap.S().Named("server"),
	}
}

// Start blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Infow("http server listening", "addr", s.srv.Addr, "mode", s.cfg.Server.Mode)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.srv.Shutdown(ctx)
}
