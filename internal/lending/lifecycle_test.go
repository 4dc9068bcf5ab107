package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiMurshed/bookshare/internal/models"
)

const loanPeriod = 14 * 24 * time.Hour

func newRequest(status models.BorrowStatus) *models.BorrowRequest {
	return &models.BorrowRequest{
		ID:         "req-1",
		BookID:     "book-1",
		OwnerID:    "owner",
		BorrowerID: "borrower",
		Status:     status,
	}
}

func TestTransition_FullLifecycle(t *testing.T) {
	now := time.Now()
	req := newRequest(models.StatusPending)

	out, err := Transition(req, ActionApprove, "owner", now, loanPeriod)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, out.NewStatus)
	assert.Equal(t, models.BookReserved, out.BookStatus)
	assert.Equal(t, now.Add(loanPeriod).Unix(), out.DueAt)
	assert.True(t, out.DenyCompeting)
	assert.Equal(t, "borrower", out.NotifyUserID)
	assert.Equal(t, models.NotifBorrowApproved, out.NotifyType)

	req.Status = out.NewStatus
	out, err = Transition(req, ActionHandover, "owner", now, loanPeriod)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBorrowed, out.NewStatus)
	assert.Equal(t, models.BookLent, out.BookStatus)
	assert.False(t, out.DenyCompeting)

	req.Status = out.NewStatus
	out, err = Transition(req, ActionInitiateReturn, "borrower", now, loanPeriod)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturnInitiated, out.NewStatus)
	assert.Equal(t, models.BookLent, out.BookStatus)
	assert.Equal(t, "owner", out.NotifyUserID)

	req.Status = out.NewStatus
	out, err = Transition(req, ActionConfirmReturn, "owner", now, loanPeriod)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, out.NewStatus)
	assert.Equal(t, models.BookAvailable, out.BookStatus)
	assert.Equal(t, "borrower", out.NotifyUserID)
}

func TestTransition_OnlyPendingMayBeDecided(t *testing.T) {
	now := time.Now()
	for _, status := range []models.BorrowStatus{
		models.StatusApproved,
		models.StatusDenied,
		models.StatusCancelled,
		models.StatusBorrowed,
		models.StatusReturnInitiated,
		models.StatusReturned,
	} {
		for _, action := range []Action{ActionApprove, ActionDeny, ActionCancel} {
			req := newRequest(status)
			actor := "owner"
			if action == ActionCancel {
				actor = "borrower"
			}
			_, err := Transition(req, action, actor, now, loanPeriod)
			assert.ErrorIs(t, err, ErrInvalidTransition, "status=%s action=%s", status, action)
		}
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	now := time.Now()
	actions := []Action{
		ActionApprove, ActionDeny, ActionCancel,
		ActionHandover, ActionInitiateReturn, ActionConfirmReturn,
	}
	for _, status := range []models.BorrowStatus{
		models.StatusDenied, models.StatusCancelled, models.StatusReturned,
	} {
		require.True(t, Terminal(status))
		for _, action := range actions {
			req := newRequest(status)
			for _, actor := range []string{"owner", "borrower"} {
				_, err := Transition(req, action, actor, now, loanPeriod)
				assert.ErrorIs(t, err, ErrInvalidTransition, "status=%s action=%s", status, action)
			}
		}
	}
}

func TestTransition_EnforcesParty(t *testing.T) {
	now := time.Now()

	// Borrower cannot approve or deny.
	for _, action := range []Action{ActionApprove, ActionDeny} {
		req := newRequest(models.StatusPending)
		_, err := Transition(req, action, "borrower", now, loanPeriod)
		assert.ErrorIs(t, err, ErrNotOwner)
	}

	// Owner cannot cancel the borrower's request.
	req := newRequest(models.StatusPending)
	_, err := Transition(req, ActionCancel, "owner", now, loanPeriod)
	assert.ErrorIs(t, err, ErrNotBorrower)

	// A third party can do nothing at all.
	req = newRequest(models.StatusPending)
	_, err = Transition(req, ActionApprove, "stranger", now, loanPeriod)
	assert.ErrorIs(t, err, ErrNotOwner)

	req = newRequest(models.StatusBorrowed)
	_, err = Transition(req, ActionInitiateReturn, "stranger", now, loanPeriod)
	assert.ErrorIs(t, err, ErrNotBorrower)
}

func TestActive(t *testing.T) {
	active := []models.BorrowStatus{
		models.StatusApproved, models.StatusBorrowed, models.StatusReturnInitiated,
	}
	inactive := []models.BorrowStatus{
		models.StatusPending, models.StatusDenied, models.StatusCancelled, models.StatusReturned,
	}
	for _, s := range active {
		assert.True(t, Active(s), "status=%s", s)
	}
	for _, s := range inactive {
		assert.False(t, Active(s), "status=%s", s)
	}
}

func TestBookStatusFor(t *testing.T) {
	assert.Equal(t, models.BookReserved, BookStatusFor(models.StatusApproved))
	assert.Equal(t, models.BookLent, BookStatusFor(models.StatusBorrowed))
	assert.Equal(t, models.BookLent, BookStatusFor(models.StatusReturnInitiated))
	assert.Equal(t, models.BookAvailable, BookStatusFor(models.StatusReturned))
	assert.Equal(t, models.BookAvailable, BookStatusFor(models.StatusPending))
}

func TestValidateNewRequest(t *testing.T) {
	book := &models.Book{ID: "book-1", OwnerID: "owner", Status: models.BookAvailable}

	assert.NoError(t, ValidateNewRequest(book, "borrower", false, false))
	assert.ErrorIs(t, ValidateNewRequest(book, "owner", false, false), ErrOwnBook)
	assert.ErrorIs(t, ValidateNewRequest(book, "borrower", true, false), ErrBookUnavailable)
	assert.ErrorIs(t, ValidateNewRequest(book, "borrower", false, true), ErrDuplicateRequest)

	removed := &models.Book{ID: "book-2", OwnerID: "owner", Status: models.BookRemoved}
	assert.ErrorIs(t, ValidateNewRequest(removed, "borrower", false, false), ErrBookUnavailable)
}
