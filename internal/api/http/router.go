package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice/internal/api/http/handlers"
	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Modules        *handlers.ModulesHandler
	AuthMiddleware *auth.AuthMiddleware
	ModulesPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)

	modulesPath := cfg.ModulesPath
	if modulesPath == "" {
		modulesPath = "/modules"
	}

	// Registered per route: a group with an empty prefix would guard unknown paths too.
	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireCategory()}
	app.Post("/logout", append(authenticated, cfg.Auth.Logout)...)
	app.Get(modulesPath, append(authenticated, cfg.Modules.List)...)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireCategory(domain.StaffCategoryAdmin))
	admin.Get("/modules", cfg.Modules.All)
}
