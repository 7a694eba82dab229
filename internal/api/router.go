package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/payflow/payment-gateway/docs"
	"github.com/payflow/payment-gateway/internal/api/handler"
	"github.com/payflow/payment-gateway/internal/api/middleware"
	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/infrastructure/http/handlers"
)

const metricsSubsystem = "http"

// Dependencies are the services and readiness checks the router mounts.
type Dependencies struct {
	Auth     ports.AuthService
	Payments ports.PaymentService
	Users    ports.UserService
	Checks   []handlers.Check
	Logger   zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the gateway's own metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	accountHandler := handler.NewAccountHandler(deps.Payments)
	userHandler := handler.NewUserHandler(deps.Users)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Secured routes ---
	// Services gate each operation; only the ping has no service behind it.
	secured := e.Group("/secured", middleware.Auth(deps.Auth))

	secured.POST("/admin/add", authHandler.AddUser)
	secured.GET("/admin/all", userHandler.Ping, middleware.RBAC(domain.OpSecuredPing))

	secured.GET("/users", userHandler.List)
	secured.GET("/getCustomerByEmail/:email", userHandler.GetByEmail)
	secured.GET("/getCustomerByPhoneNumber/:phoneNumber", userHandler.GetByPhone)

	secured.GET("/getAllAccounts", accountHandler.List)
	secured.GET("/getAllAccounts/:userId", accountHandler.ListByUser)
	secured.GET("/getAccountByAccountId/:accountId", accountHandler.Get)
	secured.GET("/getAccountByAccountNumber/:accountNumber", accountHandler.GetByNumber)
	secured.PUT("/depositAccount/userId/:userId/accountNumber/:accountNumber/amount/:amount", accountHandler.Deposit)
	secured.PUT("/withdrawAccount/userId/:userId/accountNumber/:accountNumber/amount/:amount", accountHandler.Withdraw)
	secured.DELETE("/deleteAccountById/:accountId", accountHandler.Delete)
	secured.POST("/createAccount", accountHandler.Create)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: metricsSubsystem,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
