package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MahdiMurshed/bookshare/internal/lending"
	"github.com/MahdiMurshed/bookshare/internal/metrics"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// BorrowService drives the borrow request lifecycle: opening requests,
// applying transitions, and fanning out the resulting notifications.
type BorrowService struct {
	store         storage.Store
	notifications *NotificationService
	loanPeriod    time.Duration
}

// NewBorrowService creates a new borrow service. loanPeriod is how long an
// approved loan runs before it is due back.
func NewBorrowService(store storage.Store, notifications *NotificationService, loanPeriod time.Duration) *BorrowService {
	return &BorrowService{
		store:         store,
		notifications: notifications,
		loanPeriod:    loanPeriod,
	}
}

// Request opens a pending borrow request for a book and notifies its owner.
func (s *BorrowService) Request(ctx context.Context, borrowerID, bookID, message string) (*models.BorrowRequest, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	hasActive, err := s.store.HasActiveRequestForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	hasPending, err := s.store.HasPendingRequest(ctx, bookID, borrowerID)
	if err != nil {
		return nil, err
	}
	if err := lending.ValidateNewRequest(book, borrowerID, hasActive, hasPending); err != nil {
		return nil, err
	}

	req := &models.BorrowRequest{
		BookID:     bookID,
		OwnerID:    book.OwnerID,
		BorrowerID: borrowerID,
		Status:     models.StatusPending,
		Message:    message,
	}
	if err := s.store.CreateBorrowRequest(ctx, req); err != nil {
		slog.Error("CreateBorrowRequest failed", "book_id", bookID, "error", err)
		return nil, err
	}

	borrowerName := s.displayName(ctx, borrowerID)
	s.notify(ctx, &models.Notification{
		UserID: book.OwnerID,
		Type:   models.NotifBorrowRequested,
		Title:  "New borrow request",
		Body:   fmt.Sprintf("%s wants to borrow %q", borrowerName, book.Title),
		RefID:  req.ID,
	})
	s.logActivity(ctx, borrowerID, "borrow.request", req.ID, book.Title)

	slog.Info("Borrow request opened",
		"request_id", req.ID,
		"book_id", bookID,
		"borrower_id", borrowerID,
	)
	return req, nil
}

// Apply performs a lifecycle action on a request on behalf of userID.
// The status change, the book's availability, and (on approval) the denial
// of competing pending requests commit atomically.
func (s *BorrowService) Apply(ctx context.Context, userID, requestID string, action lending.Action) (*models.BorrowRequest, error) {
	req, err := s.store.GetBorrowRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	out, err := lending.Transition(req, action, userID, time.Now(), s.loanPeriod)
	if err != nil {
		return nil, err
	}

	req.Status = out.NewStatus
	if out.DueAt != 0 {
		req.DueAt = out.DueAt
	}
	denied, err := s.store.ApplyTransition(ctx, storage.Transition{
		Request:       req,
		BookStatus:    out.BookStatus,
		DenyCompeting: out.DenyCompeting,
	})
	if err != nil {
		slog.Error("ApplyTransition failed", "request_id", requestID, "action", action, "error", err)
		return nil, err
	}
	metrics.RecordTransition(string(action))

	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &models.Notification{
		UserID: out.NotifyUserID,
		Type:   out.NotifyType,
		Title:  transitionTitle(out.NotifyType),
		Body:   fmt.Sprintf("%s: %q", transitionTitle(out.NotifyType), book.Title),
		RefID:  req.ID,
	})
	for _, d := range denied {
		s.notify(ctx, &models.Notification{
			UserID: d.BorrowerID,
			Type:   models.NotifBorrowDenied,
			Title:  transitionTitle(models.NotifBorrowDenied),
			Body:   fmt.Sprintf("%q was promised to another borrower", book.Title),
			RefID:  d.ID,
		})
	}
	s.logActivity(ctx, userID, "borrow."+string(action), req.ID, book.Title)

	slog.Info("Borrow request transitioned",
		"request_id", req.ID,
		"action", action,
		"status", req.Status,
		"auto_denied", len(denied),
	)
	return req, nil
}

// Get returns a request. Only its owner or borrower may view it.
func (s *BorrowService) Get(ctx context.Context, userID, requestID string) (*models.BorrowRequest, error) {
	req, err := s.store.GetBorrowRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if lending.PartyFor(req, userID) == lending.PartyNone {
		return nil, fmt.Errorf("view borrow request: %w", ErrForbidden)
	}
	return req, nil
}

// ListForOwner returns requests against books the user owns.
func (s *BorrowService) ListForOwner(ctx context.Context, userID string) ([]*models.BorrowRequest, error) {
	return s.store.ListBorrowRequestsByOwner(ctx, userID)
}

// ListForBorrower returns requests the user has made.
func (s *BorrowService) ListForBorrower(ctx context.Context, userID string) ([]*models.BorrowRequest, error) {
	return s.store.ListBorrowRequestsByBorrower(ctx, userID)
}

func transitionTitle(t models.NotificationType) string {
	switch t {
	case models.NotifBorrowApproved:
		return "Borrow request approved"
	case models.NotifBorrowDenied:
		return "Borrow request denied"
	case models.NotifBorrowCancelled:
		return "Borrow request cancelled"
	case models.NotifBookHandedOver:
		return "Book handed over"
	case models.NotifReturnInitiated:
		return "Return started"
	case models.NotifReturnConfirmed:
		return "Return confirmed"
	default:
		return "Borrow request updated"
	}
}

func (s *BorrowService) displayName(ctx context.Context, userID string) string {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return "Someone"
	}
	return user.DisplayName
}

// notify delivers best-effort: a failed notification never fails the
// lifecycle action it decorates.
func (s *BorrowService) notify(ctx context.Context, n *models.Notification) {
	if err := s.notifications.Push(ctx, n); err != nil {
		slog.Error("Failed to push notification", "user_id", n.UserID, "type", n.Type, "error", err)
	}
}

func (s *BorrowService) logActivity(ctx context.Context, actorID, action, requestID, detail string) {
	err := s.store.AppendActivity(ctx, &models.ActivityLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: "borrow_request",
		TargetID:   requestID,
		Detail:     detail,
	})
	if err != nil {
		slog.Error("Failed to append activity", "action", action, "error", err)
	}
}
