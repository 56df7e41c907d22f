package api

import (
	"math"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/seismo-watch/seismic-api/docs"
	"github.com/seismo-watch/seismic-api/internal/api/handler"
	"github.com/seismo-watch/seismic-api/internal/api/middleware"
	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/http/handlers"
)

// Options are the HTTP-level settings taken from configuration.
type Options struct {
	JWTSecret    string
	CORSOrigins  []string
	RateLimitRPS float64
	MaxBodySize  string
	UploadFolder string
}

// Deps groups everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry when nil.
type Deps struct {
	Options Options
	Log     zerolog.Logger

	AuthService       ports.AuthService
	EarthquakeService ports.EarthquakeService
	NewsService       ports.NewsService
	UserService       ports.UserService
	Health            *handlers.HealthHandler

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.Options.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if d.Options.MaxBodySize != "" {
		e.Use(echomiddleware.BodyLimit(d.Options.MaxBodySize))
	}
	if d.Options.RateLimitRPS > 0 {
		e.Use(echomiddleware.RateLimiter(rateLimitStore(d.Options.RateLimitRPS)))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "seismic",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/", d.Health.Index)
	e.GET("/health", d.Health.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", d.Health.Readiness)     // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.Options.UploadFolder != "" {
		e.Static("/uploads", d.Options.UploadFolder)
	}

	requireAuth := middleware.Auth(d.Options.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	authHandler := handler.NewAuthHandler(d.AuthService)
	earthquakeHandler := handler.NewEarthquakeHandler(d.EarthquakeService)
	newsHandler := handler.NewNewsHandler(d.NewsService)
	userHandler := handler.NewUserHandler(d.UserService)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)

	// --- Earthquake routes (any authenticated user) ---
	earthquakes := api.Group("/earthquakes", requireAuth)
	earthquakes.GET("/live", earthquakeHandler.Live)
	earthquakes.POST("/save", earthquakeHandler.Save)
	earthquakes.GET("/history", earthquakeHandler.History)

	// --- News routes (public reads, admin writes) ---
	news := api.Group("/news")
	news.GET("", newsHandler.List)
	news.GET("/:id", newsHandler.Get)
	news.POST("", newsHandler.Create, requireAuth, adminOnly)
	news.PUT("/:id", newsHandler.Update, requireAuth, adminOnly)
	news.DELETE("/:id", newsHandler.Delete, requireAuth, adminOnly)

	// --- User administration (admin only) ---
	users := api.Group("/users", requireAuth, adminOnly)
	users.GET("", userHandler.List)
	users.DELETE("/:id", userHandler.Delete)

	return e
}

// rateLimitStore keeps at least one token per visitor so fractional rates
// still admit requests.
func rateLimitStore(rps float64) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     max(1, int(math.Ceil(rps))),
		ExpiresIn: 3 * time.Minute,
	})
}
