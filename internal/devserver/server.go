// Package devserver is an in-memory stand-in for the monitoring backend's REST API,
// used by `livewatch devserver` and by end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/logger"
)

type Options struct {
	Logger *logrus.Logger
	// Now overrides the clock for timestamps.
	Now func() time.Time
	// Seed loads demo anchors, recordings and summaries.
	Seed bool
}

type Server struct {
	store  *memStore
	log    *logrus.Logger
	engine *gin.Engine
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{store: newMemStore(opts.Now), log: log}
	if opts.Seed {
		seed(s.store)
	}
	s.engine = s.router()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "livewatch-devserver"})
	})

	api := r.Group("/api")
	{
		api.GET("/anchors", s.listAnchors)
		api.POST("/anchors", s.createAnchor)
		api.PUT("/anchors/:id", s.updateAnchor)
		api.DELETE("/anchors/:id", s.deleteAnchor)

		api.GET("/recordings", s.listRecordings)
		api.GET("/recordings/:id", s.getRecording)

		api.GET("/summaries", s.listSummaries)
		api.GET("/summaries/:id", s.getSummary)

		api.GET("/system/status", s.systemStatus)
	}
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetHeader("X-Request-ID"),
			"elapsed":    time.Since(start).Round(time.Microsecond),
		}).Info("devserver request")
	}
}

// Run serves on addr until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.WithField("addr", addr).Info("devserver listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
