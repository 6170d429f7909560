package user

import (
	"go-charity/internal/config"
	"go-charity/internal/features/rbac"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, cfg *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers all user-related routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Post("/", middleware.RequireCapability(rbac.CanManageUsers), h.controller.CreateUser)
	users.Get("/", middleware.RequireCapability(rbac.CanManageUsers), h.controller.ListUsers)
	users.Get("/available", middleware.RequireCapability(rbac.CanCreateTasks), h.controller.GetAvailableUsers)
	users.Get("/:id", middleware.RequireCapability(rbac.CanManageUsers), h.controller.GetUser)

	users.Put("/:id/role", middleware.RequireCapability(rbac.CanManageUsers), h.controller.UpdateUserRole)
	users.Put("/:id/status", middleware.RequireCapability(rbac.CanManageUsers), h.controller.UpdateUserStatus)
}
