package dashboard

import (
	"go-charity/internal/config"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	config     *config.Config
}

func NewDashboardApi(controller *DashboardController, cfg *config.Config) *DashboardApi {
	return &DashboardApi{
		controller: controller,
		config:     cfg,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	dash := app.Group("/api/dashboard", middleware.AuthMiddleware(h.config.SkipAuth))

	dash.Get("/statistics", h.controller.GetTaskStatistics)
}
