package api

import (
	"errors"
	"net/http"

	"github.com/MahdiMurshed/bookshare/internal/auth"
	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/lending"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/service"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, lending.ErrNotOwner),
		errors.Is(err, lending.ErrNotBorrower),
		errors.Is(err, auth.ErrAccountSuspended):
		httputil.Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		httputil.Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, lending.ErrInvalidTransition),
		errors.Is(err, lending.ErrBookUnavailable),
		errors.Is(err, lending.ErrDuplicateRequest):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, lending.ErrOwnBook),
		errors.Is(err, service.ErrValidation):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, "internal error")
	}
}

// userResponse is the wire form of a user. The password hash never leaves
// the service.
type userResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	Suspended   bool        `json:"suspended"`
	CreatedAt   int64       `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Suspended:   u.Suspended,
		CreatedAt:   u.CreatedAt,
	}
}

type bookResponse struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	CommunityID string               `json:"community_id,omitempty"`
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	Description string               `json:"description,omitempty"`
	Condition   models.BookCondition `json:"condition"`
	Status      models.BookStatus    `json:"status"`
	CreatedAt   int64                `json:"created_at"`
	UpdatedAt   int64                `json:"updated_at"`
}

func toBookResponse(b *models.Book) bookResponse {
	return bookResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		CommunityID: b.CommunityID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Condition:   b.Condition,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookResponses(books []*models.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

type borrowResponse struct {
	ID         string              `json:"id"`
	BookID     string              `json:"book_id"`
	OwnerID    string              `json:"owner_id"`
	BorrowerID string              `json:"borrower_id"`
	Status     models.BorrowStatus `json:"status"`
	Message    string              `json:"message,omitempty"`
	DueAt      int64               `json:"due_at,omitempty"`
	Overdue    bool                `json:"overdue"`
	CreatedAt  int64               `json:"created_at"`
	UpdatedAt  int64               `json:"updated_at"`
}

func toBorrowResponse(r *models.BorrowRequest) borrowResponse {
	return borrowResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		OwnerID:    r.OwnerID,
		BorrowerID: r.BorrowerID,
		Status:     r.Status,
		Message:    r.Message,
		DueAt:      r.DueAt,
		Overdue:    r.Overdue,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toBorrowResponses(reqs []*models.BorrowRequest) []borrowResponse {
	out := make([]borrowResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toBorrowResponse(r))
	}
	return out
}

type communityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
}

func toCommunityResponse(c *models.Community) communityResponse {
	return communityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

type notificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body,omitempty"`
	RefID     string                  `json:"ref_id,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt int64                   `json:"created_at"`
}

func toNotificationResponse(n *models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		RefID:     n.RefID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type messageResponse struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
	CreatedAt   int64  `json:"created_at"`
}

func toMessageResponse(m *models.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

type activityResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id,omitempty"`
	Action     string `json:"action"`
	TargetType string `json:"target_type,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

func toActivityResponse(e *models.ActivityLog) activityResponse {
	return activityResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt,
	}
}
