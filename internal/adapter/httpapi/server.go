// Package httpapi exposes the prediction service over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhijithns29/propchain/internal/domain"
	"github.com/abhijithns29/propchain/internal/market"
	"github.com/abhijithns29/propchain/internal/observability"
)

// Server wires the prediction pipeline behind the REST routes.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine

	features  *domain.FeatureEngineer
	estimator *domain.Estimator
	insights  *market.Service
	scraper   *market.Scraper
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(
	addr string,
	allowedOrigins []string,
	features *domain.FeatureEngineer,
	estimator *domain.Estimator,
	insights *market.Service,
	scraper *market.Scraper,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware(allowedOrigins))

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:    engine,
		features:  features,
		estimator: estimator,
		insights:  insights,
		scraper:   scraper,
		metrics:   metrics,
		logger:    logger,
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/predict", s.handlePredict)
	engine.POST("/scrape/update-data", s.handleScrapeUpdate)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the gin engine, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Land Price Prediction API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": s.estimator.Ready(),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
