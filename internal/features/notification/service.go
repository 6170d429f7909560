package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error
	ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

// Notify persists the notification and pushes it to the recipient's open
// websocket connections.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error {
	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		Link:    link,
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return err
	}

	s.Hub.Broadcast(n)
	return nil
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int64) ([]Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.Repo.FindByUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.Repo.MarkRead(ctx, id, userID)
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *NotificationServiceImpl) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}
