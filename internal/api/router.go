package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphconsole/internal/middleware"
	"github.com/persistorai/graphconsole/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Hub          *ws.Hub
	Console      ConsoleService
	Shares       ShareService
	Health       HealthDeps
	CORSOrigins  []string
	Version      string
	SecureCookie bool
	Limits       Limits
}

// Limits bounds request bodies and request rates. Address applies to every
// route; Session applies on top of it to routes that carry a console session.
type Limits struct {
	MaxBodyBytes int64
	Address      middleware.Limit
	Session      middleware.Limit
}

// DefaultLimits are used for any limit left zero.
var DefaultLimits = Limits{
	MaxBodyBytes: 10 << 20,
	Address:      middleware.Limit{PerSecond: 50, Burst: 100},
	Session:      middleware.Limit{PerSecond: 10, Burst: 20},
}

func (l Limits) withDefaults() Limits {
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = DefaultLimits.MaxBodyBytes
	}

	if l.Address.PerSecond <= 0 || l.Address.Burst <= 0 {
		l.Address = DefaultLimits.Address
	}

	if l.Session.PerSecond <= 0 || l.Session.Burst <= 0 {
		l.Session = DefaultLimits.Session
	}

	return l
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps, limits Limits) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(deps.SecureCookie))
	r.Use(middleware.MaxBodySize(limits.MaxBodyBytes))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.SessionHeader},
		ExposeHeaders:    []string{middleware.SessionHeader, middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: true,
	}))
	r.Use(middleware.NewRateLimiter(ctx, "address", limits.Address, middleware.ClientIPKey).Handler())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", middleware.RouteGroup("metrics"), gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all console route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps, limits Limits) {
	log := deps.Log

	health := NewHealthHandler(deps.Health, log, deps.Version)
	console := NewConsoleHandler(deps.Console, log)
	shares := NewShareHandler(deps.Shares, log)

	// Health and readiness carry no session.
	status := api.Group("", middleware.RouteGroup("health"))
	status.GET("/health", health.Liveness)
	status.GET("/ready", health.Readiness)

	api.Use(middleware.Session(log, deps.SecureCookie))
	api.Use(middleware.NewRateLimiter(ctx, "session", limits.Session, middleware.SessionKey).Handler())

	// Queries and projections.
	query := api.Group("", middleware.RouteGroup("query"))
	query.POST("/cypher", console.Cypher)
	query.GET("/graph", console.Graph)
	query.POST("/init", console.Init)

	// Client-supplied result and snapshot payloads.
	payload := api.Group("", middleware.RouteGroup("payload"))
	payload.POST("/rest", console.Rest)
	payload.POST("/import", console.Import)

	// Shared graphs.
	share := api.Group("/share", middleware.RouteGroup("share"))
	share.POST("", shares.Create)
	share.GET("/:id", shares.Get)
	share.PUT("/:id", shares.Update)
	share.DELETE("/:id", shares.Delete)
	share.POST("/:id/replay", shares.Replay)

	// Live graph updates.
	if deps.Hub != nil {
		api.GET("/ws", middleware.RouteGroup("ws"), wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	limits := deps.Limits.withDefaults()

	r := gin.New()
	setupMiddleware(ctx, r, deps, limits)
	registerRoutes(ctx, r.Group("/console"), deps, limits)

	return r
}
