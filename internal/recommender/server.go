package recommender

import (
	"time"

	"orderbot/internal/metrics"
	"orderbot/internal/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server answers chat requests with menu recommendations
type Server struct {
	router  *gin.Engine
	engine  Engine
	metrics *metrics.Collector
	monitor *monitoring.Monitor
	logger  *zap.Logger
}

// NewServer creates a new server instance. collector may be nil.
func NewServer(engine Engine, collector *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		router:  gin.New(),
		engine:  engine,
		metrics: collector,
		monitor: monitoring.NewMonitor(),
		logger:  logger,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.logger))

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws", s.handleWebSocket)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/stats", s.handleStats)
		api.DELETE("/stats", s.handleResetStats)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
