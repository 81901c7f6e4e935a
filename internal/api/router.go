package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/nsqtech/record-tracker/docs"
	"github.com/nsqtech/record-tracker/internal/api/handler"
	"github.com/nsqtech/record-tracker/internal/api/middleware"
	"github.com/nsqtech/record-tracker/internal/core/ports"
	"github.com/nsqtech/record-tracker/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry.
type Deps struct {
	Log      zerolog.Logger
	Verifier ports.TokenVerifier
	Auth     ports.AuthService
	Users    ports.UserService
	Records  ports.RecordService
	Audit    ports.AuditPublisher

	ReadinessChecks map[string]handlers.Check
	CORSOrigins     []string

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "record_tracker",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	recordHandler := handler.NewRecordHandler(d.Records)
	requireAuth := middleware.Auth(d.Verifier, d.Log)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me, requireAuth)
	api.PUT("/auth/password", authHandler.ChangePassword, requireAuth)

	// --- Records (any authenticated principal; ownership enforced in service) ---
	records := api.Group("/records", requireAuth)
	records.GET("", recordHandler.List)
	records.POST("", recordHandler.Create)
	records.GET("/:record_id", recordHandler.Get)
	records.PUT("/:record_id", recordHandler.Update)
	records.DELETE("/:record_id", recordHandler.Delete)

	// --- Users (Admin only) ---
	users := api.Group("/users", requireAuth, middleware.RequireAdmin(d.Audit))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:user_id", userHandler.Get)
	users.PUT("/:user_id", userHandler.Update)
	users.DELETE("/:user_id", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.ReadinessChecks, d.Log)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
