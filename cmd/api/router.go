package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/internal/handlers"
	"github.com/trucklogix/site-api/internal/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const contactBodyLimit = 100 * 1024

type routerDeps struct {
	contactHandler *handlers.ContactHandler
	healthHandler  *handlers.HealthHandler
	contactLimiter *middleware.RateLimiter
}

func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware("/health", "/metrics"))
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// Exactly one origin: the public site in production, the dev server otherwise
	router.Use(cors.New(corsConfig(cfg.AllowedOrigin())))

	router.GET("/health", deps.healthHandler.Healthcheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/contact",
		deps.contactLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(contactBodyLimit),
		deps.contactHandler.Submit)
	api.GET("/contacts", deps.contactHandler.List)

	return router
}

// corsConfig allows exactly one origin. With none configured every
// cross-origin request is refused and same-origin calls still work.
func corsConfig(origin string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "" {
		c.AllowOriginFunc = func(string) bool { return false }
	} else {
		c.AllowOrigins = []string{origin}
	}
	return c
}
