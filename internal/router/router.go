// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/config"
	"github.com/iliyamo/healthconnect-api/internal/handler"
	"github.com/iliyamo/healthconnect-api/internal/metrics"
	"github.com/iliyamo/healthconnect-api/internal/middleware"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Doctors      *handler.DoctorHandler
	Patients     *handler.PatientHandler
	Records      *handler.PatientRecordHandler
	Appointments *handler.AppointmentHandler
}

// New builds the echo instance with global middleware and all routes.
// rdb may be nil; rate limiting then runs in process and caching is off.
func New(cfg config.Config, h Handlers, auth middleware.Authenticator, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(
		echomw.Recover(),
		middleware.CorrelationID(log),
		middleware.RequestLogging(),
		metrics.Middleware(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		}),
	)

	RegisterRoutes(e, h.Health)

	limiter := middleware.NewTokenBucket(cfg.RateLimit, rdb, log)
	RegisterAuth(e, h.Auth, auth, limiter)

	clinical := []echo.MiddlewareFunc{}
	if cfg.RequireAuth {
		clinical = append(clinical, middleware.BearerAuth(auth))
	}
	clinical = append(clinical,
		limiter,
		middleware.InvalidateOnWrite(cfg.Cache, rdb, log),
		middleware.NewRedisCache(cfg.Cache, rdb, log),
	)
	RegisterClinical(e, h, clinical...)
	return e
}

// RegisterRoutes registers health and metrics endpoints. They bypass rate
// limiting and auth so health checks and scrapers always get through.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", h.Root)
	e.GET("/healthz", h.Ready)
	e.GET("/metrics", metrics.Handler())
}

// RegisterAuth registers signup, login and the protected /auth/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth middleware.Authenticator, m ...echo.MiddlewareFunc) {
	g := e.Group("/auth", m...)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.BearerAuth(auth))
}
