// Package lending implements the borrow-request lifecycle: which status
// transitions are legal, who may trigger them, and what each transition
// implies for the book and for notifications.
//
// The rules here are pure; persistence and fan-out happen in the service layer.
package lending

import (
	"errors"
	"time"

	"github.com/MahdiMurshed/bookshare/internal/models"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current request status")
	ErrNotOwner          = errors.New("only the book owner may perform this action")
	ErrNotBorrower       = errors.New("only the borrower may perform this action")
	ErrOwnBook           = errors.New("cannot request to borrow your own book")
	ErrBookUnavailable   = errors.New("book is not available for borrowing")
	ErrDuplicateRequest  = errors.New("you already have a pending request for this book")
)

// Action is a lifecycle operation on a borrow request.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionDeny           Action = "deny"
	ActionCancel         Action = "cancel"
	ActionHandover       Action = "handover"
	ActionInitiateReturn Action = "initiate_return"
	ActionConfirmReturn  Action = "confirm_return"
)

// Party identifies which side of a borrow request a user is on.
type Party int

const (
	PartyNone Party = iota
	PartyOwner
	PartyBorrower
)

// transitions maps (current status, action) to the resulting status.
// Anything absent is an invalid transition.
var transitions = map[models.BorrowStatus]map[Action]models.BorrowStatus{
	models.StatusPending: {
		ActionApprove: models.StatusApproved,
		ActionDeny:    models.StatusDenied,
		ActionCancel:  models.StatusCancelled,
	},
	models.StatusApproved: {
		ActionHandover: models.StatusBorrowed,
	},
	models.StatusBorrowed: {
		ActionInitiateReturn: models.StatusReturnInitiated,
	},
	models.StatusReturnInitiated: {
		ActionConfirmReturn: models.StatusReturned,
	},
}

// actionParty maps each action to the side allowed to trigger it.
var actionParty = map[Action]Party{
	ActionApprove:        PartyOwner,
	ActionDeny:           PartyOwner,
	ActionCancel:         PartyBorrower,
	ActionHandover:       PartyOwner,
	ActionInitiateReturn: PartyBorrower,
	ActionConfirmReturn:  PartyOwner,
}

// notifyOnTransition maps each action to the notification type for the
// counterparty (the side that did NOT trigger the action).
var notifyOnTransition = map[Action]models.NotificationType{
	ActionApprove:        models.NotifBorrowApproved,
	ActionDeny:           models.NotifBorrowDenied,
	ActionCancel:         models.NotifBorrowCancelled,
	ActionHandover:       models.NotifBookHandedOver,
	ActionInitiateReturn: models.NotifReturnInitiated,
	ActionConfirmReturn:  models.NotifReturnConfirmed,
}

// Active reports whether a status holds a claim on the book.
// At most one request per book may be active at a time.
func Active(s models.BorrowStatus) bool {
	switch s {
	case models.StatusApproved, models.StatusBorrowed, models.StatusReturnInitiated:
		return true
	}
	return false
}

// Terminal reports whether a status can never change again.
func Terminal(s models.BorrowStatus) bool {
	switch s {
	case models.StatusDenied, models.StatusCancelled, models.StatusReturned:
		return true
	}
	return false
}

// BookStatusFor returns the book availability implied by a request status.
func BookStatusFor(s models.BorrowStatus) models.BookStatus {
	switch s {
	case models.StatusApproved:
		return models.BookReserved
	case models.StatusBorrowed, models.StatusReturnInitiated:
		return models.BookLent
	default:
		return models.BookAvailable
	}
}

// PartyFor returns which side of the request the user is on.
func PartyFor(req *models.BorrowRequest, userID string) Party {
	switch userID {
	case req.OwnerID:
		return PartyOwner
	case req.BorrowerID:
		return PartyBorrower
	}
	return PartyNone
}

// Outcome describes everything a legal transition implies. The service layer
// applies it atomically: request status, book status, due date, the auto-deny
// of competing pending requests, and the counterparty notification.
type Outcome struct {
	NewStatus  models.BorrowStatus
	BookStatus models.BookStatus

	// DueAt is nonzero only for approvals.
	DueAt int64

	// DenyCompeting is set on approval: all other pending requests for the
	// same book must be denied in the same transaction, so the book cannot
	// be promised twice.
	DenyCompeting bool

	// NotifyUserID and NotifyType describe the notification owed to the
	// counterparty of the user who acted.
	NotifyUserID string
	NotifyType   models.NotificationType
}

// Transition validates that userID may apply action to req and returns the
// resulting outcome. req is not modified.
func Transition(req *models.BorrowRequest, action Action, userID string, now time.Time, loanPeriod time.Duration) (*Outcome, error) {
	next, ok := transitions[req.Status][action]
	if !ok {
		return nil, ErrInvalidTransition
	}

	switch actionParty[action] {
	case PartyOwner:
		if userID != req.OwnerID {
			return nil, ErrNotOwner
		}
	case PartyBorrower:
		if userID != req.BorrowerID {
			return nil, ErrNotBorrower
		}
	}

	out := &Outcome{
		NewStatus:  next,
		BookStatus: BookStatusFor(next),
		NotifyType: notifyOnTransition[action],
	}

	// Notify the counterparty of whoever acted.
	if actionParty[action] == PartyOwner {
		out.NotifyUserID = req.BorrowerID
	} else {
		out.NotifyUserID = req.OwnerID
	}

	if action == ActionApprove {
		out.DueAt = now.Add(loanPeriod).Unix()
		out.DenyCompeting = true
	}

	return out, nil
}

// ValidateNewRequest checks whether borrowerID may open a request for book.
// hasActive reports an existing active request on the book; hasPending
// reports an existing pending request by this borrower for this book.
func ValidateNewRequest(book *models.Book, borrowerID string, hasActive, hasPending bool) error {
	if book.OwnerID == borrowerID {
		return ErrOwnBook
	}
	if book.Status == models.BookRemoved {
		return ErrBookUnavailable
	}
	if hasActive {
		return ErrBookUnavailable
	}
	if hasPending {
		return ErrDuplicateRequest
	}
	return nil
}
