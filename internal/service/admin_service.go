package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// AdminService implements platform moderation: user suspension, listing
// removal, broadcast notifications, and the activity feed.
type AdminService struct {
	store         storage.Store
	notifications *NotificationService
}

// NewAdminService creates a new admin service.
func NewAdminService(store storage.Store, notifications *NotificationService) *AdminService {
	return &AdminService{store: store, notifications: notifications}
}

// ListUsers returns every registered user.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// SetSuspended suspends or reinstates a user. Admins cannot suspend themselves.
func (s *AdminService) SetSuspended(ctx context.Context, adminID, userID string, suspended bool) (*models.User, error) {
	if adminID == userID {
		return nil, fmt.Errorf("%w: cannot suspend your own account", ErrValidation)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}

	user.Suspended = suspended
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	action := "admin.unsuspend_user"
	if suspended {
		action = "admin.suspend_user"
		s.notifyBestEffort(ctx, &models.Notification{
			UserID: userID,
			Type:   models.NotifAccountSuspended,
			Title:  "Account suspended",
			Body:   "Your account has been suspended by a moderator.",
		})
	}
	s.logActivity(ctx, adminID, action, "user", userID, user.Email)

	slog.Info("User suspension changed", "user_id", userID, "suspended", suspended, "admin_id", adminID)
	return user, nil
}

// RemoveBook delists a book on behalf of a moderator, regardless of owner.
func (s *AdminService) RemoveBook(ctx context.Context, adminID, bookID, reason string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	book.Status = models.BookRemoved
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return err
	}

	s.notifyBestEffort(ctx, &models.Notification{
		UserID: book.OwnerID,
		Type:   models.NotifBroadcast,
		Title:  "Listing removed",
		Body:   fmt.Sprintf("Your listing %q was removed by a moderator.", book.Title),
		RefID:  book.ID,
	})
	s.logActivity(ctx, adminID, "admin.remove_book", "book", bookID, reason)

	slog.Info("Book removed by admin", "book_id", bookID, "admin_id", adminID)
	return nil
}

// Broadcast sends a notification to every user on the platform.
func (s *AdminService) Broadcast(ctx context.Context, adminID, title, body string) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%w: broadcast title is required", ErrValidation)
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	ns := make([]*models.Notification, 0, len(users))
	for _, u := range users {
		ns = append(ns, &models.Notification{
			UserID: u.ID,
			Type:   models.NotifBroadcast,
			Title:  title,
			Body:   body,
		})
	}
	if err := s.notifications.Push(ctx, ns...); err != nil {
		return 0, err
	}

	s.logActivity(ctx, adminID, "admin.broadcast", "", "", title)
	slog.Info("Broadcast sent", "admin_id", adminID, "recipients", len(ns))
	return len(ns), nil
}

// Activity returns the most recent audit entries.
func (s *AdminService) Activity(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	return s.store.ListActivity(ctx, limit)
}

func (s *AdminService) notifyBestEffort(ctx context.Context, n *models.Notification) {
	if err := s.notifications.Push(ctx, n); err != nil {
		slog.Error("Failed to push notification", "user_id", n.UserID, "error", err)
	}
}

func (s *AdminService) logActivity(ctx context.Context, actorID, action, targetType, targetID, detail string) {
	err := s.store.AppendActivity(ctx, &models.ActivityLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	})
	if err != nil {
		slog.Error("Failed to append activity", "action", action, "error", err)
	}
}
