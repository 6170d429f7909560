package notification

import (
	"strconv"

	"go-charity/internal/middleware"
	"go-charity/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	Service NotificationService
	Hub     *Hub
}

func NewNotificationController(service NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{
		Service: service,
		Hub:     hub,
	}
}

func userIDFromCtx(c *fiber.Ctx) (primitive.ObjectID, error) {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := ctrl.Service.ListForUser(c.Context(), userID, unreadOnly, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	unread, _ := ctrl.Service.CountUnread(c.Context(), userID)

	return c.JSON(fiber.Map{"data": notifications, "unread": unread})
}

func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	if err := ctrl.Service.MarkRead(c.Context(), id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Marked as read"})
}

func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.MarkAllRead(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "All marked as read"})
}

// HandleWebSocket keeps the connection open for live notification pushes.
// The client does not send anything meaningful; reads only detect close.
func (ctrl *NotificationController) HandleWebSocket(c *websocket.Conn) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		c.Close()
		return
	}

	ctrl.Hub.Register(claims.UserID, c)
	defer ctrl.Hub.Unregister(claims.UserID, c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
