// Package server provides the local preview server for rendered
// reports. It lists the documents in the output directory and serves
// them for browsing, with graceful shutdown on interrupt.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revdash/revdash/consts"
	"github.com/revdash/revdash/internal/config"
	"github.com/revdash/revdash/pkg/idgen"
	"github.com/revdash/revdash/pkg/logger"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultStopTimeout     = 5 * time.Second
)

// Server serves rendered reports from the output directory
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	router     *gin.Engine
}

// New creates a preview server for the configured output directory
func New(cfg *config.Config) *Server {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware(cfg.Logging.AccessLog))

	s := &Server{
		cfg:    cfg,
		router: r,
	}
	s.setupRoutes()
	return s
}

// requestIDMiddleware tags every request with an ID for log correlation.
// Successful requests are logged at info only when accessLog is enabled.
func requestIDMiddleware(accessLog bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = idgen.NewRequestID()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch {
		case c.Writer.Status() >= 400:
			logger.Warn("Request failed", fields...)
		case accessLog:
			logger.Info("Request handled", fields...)
		default:
			logger.Debug("Request handled", fields...)
		}
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/reports/:name", s.handleReport)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": consts.Version,
			"uptime":  consts.GetUptime().Truncate(time.Second).String(),
		})
	})
}

// reportEntry is one row in the index listing
type reportEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	URL      string `json:"url"`
}

// handleIndex lists the HTML reports in the output directory
func (s *Server) handleIndex(c *gin.Context) {
	entries, err := os.ReadDir(s.cfg.Output.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"reports": []reportEntry{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read output directory"})
		return
	}

	reports := make([]reportEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, reportEntry{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
			URL:      "/reports/" + entry.Name(),
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// handleReport serves a single rendered report
func (s *Server) handleReport(c *gin.Context) {
	name := c.Param("name")

	// Reject anything that could escape the output directory.
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".html") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report name"})
		return
	}

	path := filepath.Join(s.cfg.Output.Dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(path)
}

// Start starts the HTTP server in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	logger.Info("Starting preview server",
		zap.String("address", s.cfg.Server.Address()),
		zap.String("dir", s.cfg.Output.Dir),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	return nil
}

// WaitForShutdown blocks until an interrupt arrives, then shuts down
// gracefully. A second signal forces immediate exit.
func (s *Server) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Received shutdown signal, starting graceful shutdown (press Ctrl+C again to force exit)",
		zap.String("signal", sig.String()))

	go func() {
		sig := <-quit
		logger.Warn("Received second shutdown signal, forcing exit",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
