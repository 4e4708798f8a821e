package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice/internal/auth"
	"github.com/spec-kit/backoffice/internal/service"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

// ModulesHandler serves the module tree.
type ModulesHandler struct {
	menu *service.MenuService
}

// NewModulesHandler constructs handler.
func NewModulesHandler(menu *service.MenuService) *ModulesHandler {
	return &ModulesHandler{menu: menu}
}

// List handles GET /modules with the caller's privileges applied.
func (h *ModulesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tree, err := h.menu.TreeFor(c.UserContext(), principal.Staff.Privileges)
	if err != nil {
		return err
	}
	return c.JSON(tree)
}

// All handles GET /admin/modules.
func (h *ModulesHandler) All(c *fiber.Ctx) error {
	tree, err := h.menu.FullTree(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tree)
}
