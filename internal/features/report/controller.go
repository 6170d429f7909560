package report

import (
	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/task"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// ExportTasks godoc
// @Summary Export tasks
// @Description Export the filtered task list as an xlsx workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Task status"
// @Param priority query string false "Task priority"
// @Param assigned_to query string false "Assignee ID"
// @Param category query string false "Category"
// @Param search query string false "Search term"
// @Success 200 {file} file "Workbook"
// @Failure 403 {object} map[string]interface{}
// @Router /api/reports/tasks/export [get]
func (ctrl *ReportController) ExportTasks(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	actor, err := common_models.ActorFromClaims(claims)
	if err != nil {
		return err
	}

	data, filename, err := ctrl.ReportService.ExportTasks(c.Context(), actor, task.FilterFromQuery(c))
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
