// Package httpapi exposes the summary pipeline over HTTP with gin.
package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/export"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the /v1 routes and /healthz.
func NewRouter(p *pipeline.Pipeline, exp *export.Service, requestTimeout time.Duration, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if exp == nil {
		exp = export.NewService(p.History(), logger)
	}
	h := &Handler{pipeline: p, export: exp, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(requestTimeout, logger), corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "health-summary",
		})
	})

	api := r.Group("/v1")
	{
		api.POST("/summaries", h.CreateSummary)
		api.GET("/summaries/:index", h.GetSummary)
		api.POST("/summaries/:index/feedback", h.SubmitFeedback)
		api.GET("/history", h.ListHistory)
		api.GET("/history/export", h.ExportHistory)
	}
	return r
}

func requestLogger(timeout time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, reqID := common.EnsureRequestID(c.Request.Context(), c.GetHeader(requestIDHeader))
		c.Header(requestIDHeader, reqID)

		ctx, cancel := common.WithTimeout(ctx, timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", reqID,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
