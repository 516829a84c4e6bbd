package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/snapshot"
	"github.com/02loveslollipop/Shizuku-riverflow-map/services/api/config"
)

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	source FeedSource
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, source FeedSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, source: source, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/map", s.handleMap)

	s.registerV1Routes()
}

// loadFeed returns a fresh, unrendered copy of the source feed with the
// configured link base applied.
func (s *Server) loadFeed(ctx context.Context) (*markerfeed.Feed, error) {
	feed, err := s.source.Feed(ctx)
	if err != nil {
		return nil, err
	}
	cfg := feed.Config()
	if s.cfg.MapBaseHref != "" {
		cfg.BaseLinkHref = s.cfg.MapBaseHref
	}
	return markerfeed.NewFeed(cfg, feed.Markers())
}

// feedError writes the JSON error reply for a failed feed load.
func feedError(c *gin.Context, err error) {
	if errors.Is(err, snapshot.ErrNotFound) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no feed available"})
		return
	}
	log.WithError(err).Error("feed load failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// handleMap renders the riverflow map page.
// GET /map
func (s *Server) handleMap(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	var buf bytes.Buffer
	engine := &markerfeed.HTMLEngine{
		W:           &buf,
		Page:        true,
		Title:       "River flows",
		Scripts:     s.cfg.Scripts,
		Stylesheets: s.cfg.Stylesheets,
	}
	if err := feed.Render(ctx, engine); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request")
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
