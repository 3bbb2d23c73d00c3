package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/offranel/storefront/docs"
	"github.com/offranel/storefront/internal/api/handler"
	"github.com/offranel/storefront/internal/api/middleware"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
	"github.com/offranel/storefront/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Logger zerolog.Logger
	Tokens middleware.TokenParser

	Sessions      ports.SessionService
	Subscriptions ports.SubscriptionService
	Catalog       ports.CatalogService
	Publish       ports.PublishService
	Profiles      ports.ProfileService

	// Probes are checked by the readiness endpoint, keyed by dependency name.
	Probes map[string]handlers.Probe

	SessionTTL    time.Duration
	SecureCookies bool

	// Registry overrides the Prometheus registry for HTTP metrics and the
	// /metrics endpoint. Defaults to the global registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: registerer(d.Registry),
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Session(d.Tokens))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.SessionTTL, d.SecureCookies)
	subscriptionHandler := handler.NewSubscriptionHandler(d.Subscriptions, d.SecureCookies)
	catalogHandler := handler.NewCatalogHandler(d.Catalog, d.Publish)
	profileHandler := handler.NewProfileHandler(d.Profiles)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Session ---
	e.POST("/session", sessionHandler.Establish)
	e.POST("/session/logout", sessionHandler.Logout)

	// --- Push subscriptions (guests allowed) ---
	e.POST("/subscriptions", subscriptionHandler.Subscribe)
	e.GET("/notifications/latest", profileHandler.LatestAnnouncement)

	// --- Catalog ---
	catalog := e.Group("/catalog")
	catalog.GET("/items", catalogHandler.List)
	catalog.GET("/items/:id", catalogHandler.Get)
	catalog.POST("/items", catalogHandler.Publish, adminOnly)
	catalog.POST("/items\\:batch", catalogHandler.PublishBatch, adminOnly)
	catalog.DELETE("/items/:id", catalogHandler.Delete, adminOnly)

	// --- Users and admin ---
	e.GET("/users/me", profileHandler.Me, middleware.RequireSession())
	e.GET("/users/:uid", profileHandler.Get)
	e.GET("/admin/stats", profileHandler.Stats, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Probes)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics and API docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(d.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}
