package task

import (
	"go-charity/internal/config"
	"go-charity/internal/features/rbac"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	controller *TaskController
	config     *config.Config
}

func NewTaskApi(controller *TaskController, cfg *config.Config) *TaskApi {
	return &TaskApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers task routes. Actor-level guards (assignee-only
// submission, creator/manager review) live in the service; the route
// capability gates are the coarse outer layer.
func (h *TaskApi) Setup(app *fiber.App) {
	tasks := app.Group("/api/tasks", middleware.AuthMiddleware(h.config.SkipAuth))

	tasks.Post("/", middleware.RequireCapability(rbac.CanCreateTasks), h.controller.CreateTask)
	tasks.Get("/", middleware.RequireCapability(rbac.CanViewAllTasks), h.controller.ListTasks)
	tasks.Get("/my", h.controller.ListMyTasks)
	tasks.Get("/:id", h.controller.GetTask)

	tasks.Post("/:id/start", h.controller.StartTask)
	tasks.Post("/:id/submit", h.controller.SubmitResponse)
	tasks.Post("/:id/review", middleware.RequireCapability(rbac.CanAssignTasks), h.controller.ReviewAndComplete)
	tasks.Patch("/:id/status", h.controller.UpdateStatus)
}
