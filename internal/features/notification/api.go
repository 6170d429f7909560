package notification

import (
	"go-charity/internal/config"
	"go-charity/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, cfg *config.Config) *NotificationApi {
	return &NotificationApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers notification routes, including the live event stream.
func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	notifications.Get("/", h.controller.ListNotifications)
	notifications.Put("/:id/read", h.controller.MarkRead)
	notifications.Put("/read-all", h.controller.MarkAllRead)

	notifications.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	notifications.Get("/ws", websocket.New(h.controller.HandleWebSocket))
}
