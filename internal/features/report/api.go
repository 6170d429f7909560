package report

import (
	"go-charity/internal/config"
	"go-charity/internal/features/rbac"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, cfg *config.Config) *ReportApi {
	return &ReportApi{
		controller: controller,
		config:     cfg,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))

	reports.Get("/tasks/export", middleware.RequireCapability(rbac.CanExportReports), h.controller.ExportTasks)
}
