package audit

import (
	"go-charity/internal/config"
	"go-charity/internal/features/rbac"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, cfg *config.Config) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers audit routes
func (h *AuditApi) Setup(app *fiber.App) {
	logs := app.Group("/api/audit", middleware.AuthMiddleware(h.config.SkipAuth))

	logs.Get("/", middleware.RequireCapability(rbac.CanManageUsers), h.controller.ListLogs)
}
