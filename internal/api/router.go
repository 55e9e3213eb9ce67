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

	_ "github.com/storefront/catalog-api/docs"
	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs. Registerer and Gatherer
// default to the prometheus globals when nil; AllowOrigins defaults to "*".
type Deps struct {
	Auth     ports.AuthService
	Identity ports.IdentityResolver
	Products ports.ProductService
	Checks   []handler.DependencyCheck
	Logger   zerolog.Logger

	AllowOrigins []string

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// route is one entry of the routing table. Public routes skip Authenticate;
// every other route runs Authenticate and then RequireRoles(roles...).
type route struct {
	method  string
	path    string
	public  bool
	roles   []domain.Role
	handler echo.HandlerFunc
}

func routes(d Deps) []route {
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler()
	productHandler := handler.NewProductHandler(d.Products)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks...)

	return []route{
		{method: http.MethodPost, path: "/auth/register", public: true, handler: authHandler.Register},
		{method: http.MethodPost, path: "/auth/login", public: true, handler: authHandler.Login},

		{method: http.MethodGet, path: "/users/me", handler: userHandler.Me},

		{method: http.MethodPost, path: "/products", handler: productHandler.Create},
		{method: http.MethodGet, path: "/products", handler: productHandler.List},
		{method: http.MethodGet, path: "/products/:id", handler: productHandler.Get},
		{method: http.MethodPut, path: "/products/:id", handler: productHandler.Update},
		{method: http.MethodDelete, path: "/products/:id", roles: []domain.Role{domain.RoleAdmin}, handler: productHandler.Delete},

		{method: http.MethodGet, path: "/health", public: true, handler: healthHandler.Liveness},
		{method: http.MethodGet, path: "/health/ready", public: true, handler: readinessHandler.Readiness},
	}
}

// NewRouter builds the Echo instance with the middleware chain and every route registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.AllowOrigins) == 0 {
		d.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.HeaderIdempotencyKey,
		},
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:          "catalog",
		Subsystem:          "http",
		Registerer:         d.Registerer,
		StatusCodeResolver: metricsStatus,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	authenticate := middleware.Authenticate(d.Identity, d.Logger)
	for _, r := range routes(d) {
		var mws []echo.MiddlewareFunc
		if !r.public {
			mws = append(mws, authenticate, middleware.RequireRoles(r.roles...))
		}
		e.Add(r.method, r.path, r.handler, mws...)
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request, tagged with the caller
// when the identity middleware resolved one.
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
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			if id, ok := middleware.CurrentIdentity(c); ok {
				evt = evt.Str("user_id", id.UserID)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
