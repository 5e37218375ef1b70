// Package api exposes the task core over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/tasktrail/internal/history"
	"github.com/zulandar/tasktrail/internal/metrics"
	"github.com/zulandar/tasktrail/internal/task"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterOpts holds the dependencies of the HTTP handlers.
type RouterOpts struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	JWTSecret      string
	Issuer         string
	AllowedOrigins []string
	Clock          func() time.Time
}

// StartOpts holds configuration for the API server.
type StartOpts struct {
	RouterOpts
	Port int
	Out  io.Writer
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts RouterOpts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("api: db is required")
	}
	if opts.JWTSecret == "" {
		return nil, fmt.Errorf("api: jwt secret is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	registerValidators()

	taskOpts := []task.Option{task.WithCommitHook(opts.Metrics.RecordEntries)}
	if opts.Clock != nil {
		taskOpts = append(taskOpts, task.WithClock(opts.Clock))
	}
	h := &handler{
		tasks:   task.NewService(opts.DB, opts.Logger, taskOpts...),
		history: history.NewService(opts.DB),
		log:     opts.Logger,
	}

	router := gin.New()
	router.Use(gin.Recovery(), opts.Metrics.Middleware(), requestLogger(opts.Logger))
	if c, ok := corsConfig(opts.AllowedOrigins); ok {
		router.Use(cors.New(c))
	}

	router.GET("/healthz", handleHealth(opts.DB))
	router.GET("/metrics", opts.Metrics.Handler())

	authed := router.Group("/", requireAuth(opts.JWTSecret, opts.Issuer, opts.Logger))
	registerRoutes(authed, h)
	return router, nil
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 3000
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts.RouterOpts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "tasktrail API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		ok(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
