package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice/internal/api/http/handlers"
	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/observability"
	"github.com/spec-kit/backoffice/internal/repository"
	"github.com/spec-kit/backoffice/internal/service"
)

// ServerDeps bundles everything NewServer wires together.
type ServerDeps struct {
	Name           string
	Version        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	ModulesPath    string

	Staff       repository.StaffRepository
	Modules     repository.ModuleRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationList
	Health      map[string]handlers.Pinger
}

// NewServer builds the fiber application serving the back-office API.
func NewServer(deps ServerDeps) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authService := service.NewAuthService(service.AuthDependencies{
		StaffRepo:   deps.Staff,
		Tokens:      deps.Tokens,
		Revocations: deps.Revocations,
		Logger:      logger,
	})
	menuService := service.NewMenuService(deps.Modules, logger)
	authMiddleware := auth.NewAuthMiddleware(deps.Tokens, deps.Revocations, deps.Staff, logger)

	app := fiber.New(fiber.Config{
		AppName:               deps.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, deps.RequestTimeout)

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Name, deps.Version, deps.Health),
		Auth:           handlers.NewAuthHandler(authService),
		Modules:        handlers.NewModulesHandler(menuService),
		AuthMiddleware: authMiddleware,
		ModulesPath:    deps.ModulesPath,
	})
	return app
}
