// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/MahdiMurshed/bookshare/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BookFilter narrows a book listing query. Zero values mean "no filter".
type BookFilter struct {
	OwnerID     string
	CommunityID string
	// Query matches title or author, case-insensitively.
	Query string
	// AvailableOnly restricts results to books with no active loan.
	AvailableOnly bool
	// IncludeRemoved includes delisted books (admin views only).
	IncludeRemoved bool
}

// Transition is the atomic unit of a borrow lifecycle change: the request's
// new state, the book status it implies, and optionally the auto-deny of all
// competing pending requests for the same book. Everything commits in one
// transaction so a book can never be promised to two borrowers.
type Transition struct {
	Request    *models.BorrowRequest
	BookStatus models.BookStatus
	// DenyCompeting denies every other pending request for the same book.
	// The denied requests are returned so callers can notify their borrowers.
	DenyCompeting bool
}

// Store defines the interface for BookShare storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Books
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id string) (*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	ListBooks(ctx context.Context, filter BookFilter) ([]*models.Book, error)

	// Borrow requests
	CreateBorrowRequest(ctx context.Context, req *models.BorrowRequest) error
	GetBorrowRequest(ctx context.Context, id string) (*models.BorrowRequest, error)
	ListBorrowRequestsByOwner(ctx context.Context, ownerID string) ([]*models.BorrowRequest, error)
	ListBorrowRequestsByBorrower(ctx context.Context, borrowerID string) ([]*models.BorrowRequest, error)
	HasActiveRequestForBook(ctx context.Context, bookID string) (bool, error)
	HasPendingRequest(ctx context.Context, bookID, borrowerID string) (bool, error)
	ApplyTransition(ctx context.Context, tr Transition) ([]*models.BorrowRequest, error)
	ListOutstandingLoansDueBefore(ctx context.Context, cutoff int64) ([]*models.BorrowRequest, error)
	MarkOverdue(ctx context.Context, requestIDs []string) error

	// Communities
	CreateCommunity(ctx context.Context, c *models.Community) error
	GetCommunity(ctx context.Context, id string) (*models.Community, error)
	ListCommunities(ctx context.Context) ([]*models.Community, error)
	AddCommunityMember(ctx context.Context, communityID, userID string) error
	RemoveCommunityMember(ctx context.Context, communityID, userID string) error
	IsCommunityMember(ctx context.Context, communityID, userID string) (bool, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	CreateNotifications(ctx context.Context, ns []*models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// Messages
	CreateMessage(ctx context.Context, m *models.Message) error
	ListConversation(ctx context.Context, userA, userB string, limit int) ([]*models.Message, error)

	// Activity log
	AppendActivity(ctx context.Context, entry *models.ActivityLog) error
	ListActivity(ctx context.Context, limit int) ([]*models.ActivityLog, error)

	// Close releases any resources held by the store.
	Close() error
}
