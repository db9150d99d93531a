package http

import (
	"fmt"
	nethttp "net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/http/controller"
	"linkbio/internal/http/middleware"
	"linkbio/internal/web"
)

func NewRouter(
	cfg *config.Config,
	handler *controller.Handler,
	visits middleware.PageVisitor,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		middleware.SecurityHeaders(),
		middleware.Metrics(),
		middleware.VisitorTracking(cfg, visits, logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(nethttp.StatusOK)
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.Static("/static", cfg.StaticDir)
	} else {
		logger.Warn("static directory not found", zap.String("dir", cfg.StaticDir))
	}

	router.GET("/", handler.Index)
	router.GET("/robots.txt", handler.Robots)
	router.GET("/sitemap.xml", handler.Sitemap)
	router.GET("/ping", handler.Ping)

	limited := router.Group("/", limiter.Limit())
	limited.POST("/log", handler.Log)
	limited.POST("/screen_info", handler.ScreenInfo)
	limited.POST("/api/sendReport", handler.SendReport)

	return router, nil
}
