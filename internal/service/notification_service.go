package service

import (
	"context"
	"log/slog"

	"github.com/MahdiMurshed/bookshare/internal/metrics"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/realtime"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// NotificationService persists notifications and pushes them to connected
// clients through the realtime hub.
type NotificationService struct {
	store storage.Store
	hub   *realtime.Hub
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store storage.Store, hub *realtime.Hub) *NotificationService {
	return &NotificationService{store: store, hub: hub}
}

// Push persists the notifications and publishes each to its recipient.
// Push failures after persistence are logged, not returned: the notification
// is durable and the client will see it on the next fetch.
func (s *NotificationService) Push(ctx context.Context, ns ...*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	if err := s.store.CreateNotifications(ctx, ns); err != nil {
		return err
	}

	for _, n := range ns {
		metrics.RecordNotification(string(n.Type))
		s.hub.Publish(n.UserID, realtime.Event{
			ID:      n.ID,
			Kind:    realtime.KindNotification,
			Payload: n,
		})
	}
	slog.Debug("Notifications pushed", "count", len(ns))
	return nil
}

// List returns the user's notifications, optionally only unread ones.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkNotificationRead(ctx, userID, notificationID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
