package router

import (
	"context"
	"net/http"
	"time"

	apphttp "salescrm_backend/internal/http"
	"salescrm_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	msgRouteNotFound = "Route not found"
	readinessTimeout = 2 * time.Second
)

// New builds the gin engine: shared middleware, health and metrics routes,
// then every module under /api.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config
	log := app.Logger

	engine := gin.New()
	engine.HandleMethodNotAllowed = false
	engine.Use(
		httpkit.RequestID(log),
		httpkit.Recovery(log),
		httpkit.RequestLogger(log),
		httpkit.SecurityHeaders(),
		httpkit.Metrics(app.Metrics),
	)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders:     []string{"X-Requested-With", httpkit.HeaderAPIKey, "Content-Type"},
		ExposeHeaders:    []string{httpkit.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitRPS()), cfg.GetRateLimitBurst(), log)
	engine.Use(limiter.RateLimit())

	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	api := engine.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})
	api.GET("/health/ready", readiness(app.Health))

	protected := api.Group("")
	protected.Use(httpkit.APIKeyAuth(cfg, cfg.GetAllowedOrigins(), log))

	routerCtx := &apphttp.RouterContext{
		Engine:    engine,
		API:       api,
		Protected: protected,
		Config:    cfg,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		log.Debug("module routes registered", "module", module.Name())
	}

	engine.NoRoute(func(c *gin.Context) {
		httpkit.Error(c, http.StatusNotFound, msgRouteNotFound, nil)
	})

	return engine
}

func readiness(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			httpkit.OK(c, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := health.Ping(ctx); err != nil {
			httpkit.JSON(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		httpkit.OK(c, gin.H{"status": "ok", "database": "up"})
	}
}
