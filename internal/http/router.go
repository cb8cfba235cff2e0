// Package http assembles the gateway's HTTP surface: the router with the
// device-protocol endpoints, the server lifecycle, and the separate metrics
// server.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	downloadHTTP "github.com/digital-codes/platansense/internal/download/http"
	"github.com/digital-codes/platansense/internal/metrics"
	uploadHTTP "github.com/digital-codes/platansense/internal/upload/http"
)

// RouterConfig carries the toggles the router assembly needs.
type RouterConfig struct {
	GinMode                 string
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
	CORSEnabled             bool
	CORSAllowOrigins        string
	MetricsEnabled          bool
	MetricsNamespace        string
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(
	cfg RouterConfig,
	uploadHandler *uploadHTTP.UploadHandler,
	downloadHandler *downloadHTTP.DownloadHandler,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")

	// The upload endpoint also carries the handshake commands, so it gets
	// the per-IP rate limit.
	upload := v1.Group("")
	if cfg.RateLimitEnabled {
		upload.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst))
	}
	upload.POST("/upload", uploadHandler.CommandHandler)

	v1.POST("/download", downloadHandler.CommandHandler)

	return router
}
