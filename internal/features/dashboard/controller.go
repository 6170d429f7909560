package dashboard

import (
	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

func (ctrl *DashboardController) GetTaskStatistics(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	actor, err := common_models.ActorFromClaims(claims)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	stats, err := ctrl.Service.GetTaskStatistics(c.Context(), actor)
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": stats})
}
