package httpserver

import (
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/ports"
	customMiddleware "github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	BodyLimit    string
}

type ServerDeps struct {
	AuthService        ports.AuthService
	ExpenseService     ports.ExpenseService
	BudgetService      ports.BudgetService
	ReportService      ports.ReportService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	authSvc        ports.AuthService
	expenseSvc     ports.ExpenseService
	budgetSvc      ports.BudgetService
	reportSvc      ports.ReportService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		authSvc:        deps.AuthService,
		expenseSvc:     deps.ExpenseService,
		budgetSvc:      deps.BudgetService,
		reportSvc:      deps.ReportService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			logger,
			httpMetrics(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
