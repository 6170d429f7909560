package automation

import (
	"go-charity/internal/config"
	"go-charity/internal/features/rbac"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
	config     *config.Config
}

func NewAutomationApi(controller *AutomationController, cfg *config.Config) *AutomationApi {
	return &AutomationApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers all automation-rule routes
func (h *AutomationApi) Setup(app *fiber.App) {
	rules := app.Group("/api/automations",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireCapability(rbac.CanManageAutomations),
	)

	rules.Post("/", h.controller.CreateRule)
	rules.Get("/", h.controller.ListRules)
	rules.Put("/:id", h.controller.UpdateRule)
	rules.Put("/:id/active", h.controller.SetRuleActive)
	rules.Delete("/:id", h.controller.DeleteRule)
}
