package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lightline-io/lightline/internal/logging"
	"github.com/lightline-io/lightline/internal/monitoring"
)

// Server is the diagnostics HTTP surface of the pipeline: Prometheus
// metrics, health, and a JSON stats snapshot. It carries no telemetry
// traffic itself.
type Server struct {
	router  *gin.Engine
	srv     *http.Server
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// Config contains server configuration.
type Config struct {
	Addr string
}

// New creates the diagnostics server.
func New(cfg Config, metrics *monitoring.Metrics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	s := &Server{
		router:  router,
		logger:  logger.Named("diagnostics"),
		metrics: metrics,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/stats", s.handleStats)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	s.metrics.UpdateUptime()
	c.JSON(http.StatusOK, s.metrics.GetSnapshot())
}

// Run serves until ctx is cancelled, then shuts the listener down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.logger.Info("diagnostics server listening", zap.String("addr", s.srv.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
