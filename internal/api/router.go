package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vitrinesorocabana/portal/internal/api/handler"
	"github.com/vitrinesorocabana/portal/internal/api/middleware"
	"github.com/vitrinesorocabana/portal/internal/core/domain"
	"github.com/vitrinesorocabana/portal/internal/core/ports"

	_ "github.com/vitrinesorocabana/portal/docs"
)

// Dependencies are the services and probes the router needs.
type Dependencies struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Probes   []handler.Dependency
	Log      zerolog.Logger

	// Registry receives the HTTP metrics. Nil means the prometheus default
	// registry, which also holds the metrics package collectors.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "vitrine",
		Registerer: registerer,
	}))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	e.POST("/auth/login", authHandler.Login)

	// --- Admin routes (HTTP Basic + admin authority) ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	admin := e.Group("/api/admin", middleware.Auth(deps.Auth), middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", accountHandler.List)
	admin.GET("/accounts/:id", accountHandler.Get)
	admin.POST("/accounts", accountHandler.Create)
	admin.PATCH("/accounts/:id/active", accountHandler.SetActive)
	admin.DELETE("/accounts/:id", accountHandler.Delete)
	admin.GET("/summary", accountHandler.Summary)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Probes...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request. Credentials never appear:
// only method, path, status, latency and request id are logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			} else {
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
