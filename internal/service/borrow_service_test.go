package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MahdiMurshed/bookshare/internal/lending"
	"github.com/MahdiMurshed/bookshare/internal/models"
)

func TestBorrowFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	book := env.createBook(t, owner.ID, "The Go Programming Language")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "May I?")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Errorf("expected status pending, got %s", req.Status)
	}
	if req.OwnerID != owner.ID {
		t.Errorf("expected owner %s, got %s", owner.ID, req.OwnerID)
	}

	// Owner approves: the book is reserved and a due date is set.
	req, err = env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionApprove)
	if err != nil {
		t.Fatalf("failed to approve: %v", err)
	}
	if req.Status != models.StatusApproved {
		t.Errorf("expected status approved, got %s", req.Status)
	}
	if req.DueAt == 0 {
		t.Error("expected a due date after approval")
	}
	book2, err := env.books.Get(ctx, book.ID)
	if err != nil {
		t.Fatalf("failed to get book: %v", err)
	}
	if book2.Status != models.BookReserved {
		t.Errorf("expected book status reserved, got %s", book2.Status)
	}

	// Handover, return initiation, return confirmation.
	req, err = env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionHandover)
	if err != nil {
		t.Fatalf("failed to hand over: %v", err)
	}
	if req.Status != models.StatusBorrowed {
		t.Errorf("expected status borrowed, got %s", req.Status)
	}

	req, err = env.borrows.Apply(ctx, borrower.ID, req.ID, lending.ActionInitiateReturn)
	if err != nil {
		t.Fatalf("failed to initiate return: %v", err)
	}
	if req.Status != models.StatusReturnInitiated {
		t.Errorf("expected status return_initiated, got %s", req.Status)
	}

	req, err = env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionConfirmReturn)
	if err != nil {
		t.Fatalf("failed to confirm return: %v", err)
	}
	if req.Status != models.StatusReturned {
		t.Errorf("expected status returned, got %s", req.Status)
	}

	book3, err := env.books.Get(ctx, book.ID)
	if err != nil {
		t.Fatalf("failed to get book: %v", err)
	}
	if book3.Status != models.BookAvailable {
		t.Errorf("expected book available after return, got %s", book3.Status)
	}
}

func TestBorrowOwnBookRejected(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner@example.com", "Owner")
	book := env.createBook(t, owner.ID, "My Own Book")

	_, err := env.borrows.Request(context.Background(), owner.ID, book.ID, "")
	if !errors.Is(err, lending.ErrOwnBook) {
		t.Errorf("expected ErrOwnBook, got %v", err)
	}
}

func TestBorrowDuplicateRequestRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	book := env.createBook(t, owner.ID, "Popular Book")

	if _, err := env.borrows.Request(ctx, borrower.ID, book.ID, ""); err != nil {
		t.Fatalf("failed to open request: %v", err)
	}
	_, err := env.borrows.Request(ctx, borrower.ID, book.ID, "again")
	if !errors.Is(err, lending.ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestApprovalDeniesCompetingRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	first := env.createUser(t, "first@example.com", "First")
	second := env.createUser(t, "second@example.com", "Second")
	book := env.createBook(t, owner.ID, "Contested Book")

	reqFirst, err := env.borrows.Request(ctx, first.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open first request: %v", err)
	}
	reqSecond, err := env.borrows.Request(ctx, second.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open second request: %v", err)
	}

	if _, err := env.borrows.Apply(ctx, owner.ID, reqFirst.ID, lending.ActionApprove); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	got, err := env.borrows.Get(ctx, second.ID, reqSecond.ID)
	if err != nil {
		t.Fatalf("failed to get competing request: %v", err)
	}
	if got.Status != models.StatusDenied {
		t.Errorf("expected competing request denied, got %s", got.Status)
	}

	// The losing borrower hears about it.
	notifs, err := env.notifications.List(ctx, second.ID, true)
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	found := false
	for _, n := range notifs {
		if n.Type == models.NotifBorrowDenied {
			found = true
		}
	}
	if !found {
		t.Error("expected a denial notification for the competing borrower")
	}
}

func TestSecondBorrowWhileActiveRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	late := env.createUser(t, "late@example.com", "Late")
	book := env.createBook(t, owner.ID, "Single Copy")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}
	if _, err := env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionApprove); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	_, err = env.borrows.Request(ctx, late.ID, book.ID, "")
	if !errors.Is(err, lending.ErrBookUnavailable) {
		t.Errorf("expected ErrBookUnavailable, got %v", err)
	}
}

func TestOnlyOwnerMayApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	book := env.createBook(t, owner.ID, "Guarded Book")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}

	if _, err := env.borrows.Apply(ctx, borrower.ID, req.ID, lending.ActionApprove); !errors.Is(err, lending.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestBorrowerMayCancelPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	book := env.createBook(t, owner.ID, "Changed My Mind")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}

	req, err = env.borrows.Apply(ctx, borrower.ID, req.ID, lending.ActionCancel)
	if err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if req.Status != models.StatusCancelled {
		t.Errorf("expected status cancelled, got %s", req.Status)
	}

	// The book is free again for someone else.
	other := env.createUser(t, "other@example.com", "Other")
	if _, err := env.borrows.Request(ctx, other.ID, book.ID, ""); err != nil {
		t.Errorf("expected new request after cancel, got %v", err)
	}
}

func TestApproveAlreadyDecidedRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	book := env.createBook(t, owner.ID, "Decided Book")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}
	if _, err := env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionDeny); err != nil {
		t.Fatalf("failed to deny: %v", err)
	}

	if _, err := env.borrows.Apply(ctx, owner.ID, req.ID, lending.ActionApprove); !errors.Is(err, lending.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestGetRequestHiddenFromThirdParty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "owner@example.com", "Owner")
	borrower := env.createUser(t, "borrower@example.com", "Borrower")
	stranger := env.createUser(t, "stranger@example.com", "Stranger")
	book := env.createBook(t, owner.ID, "Private Matter")

	req, err := env.borrows.Request(ctx, borrower.ID, book.ID, "")
	if err != nil {
		t.Fatalf("failed to open request: %v", err)
	}

	if _, err := env.borrows.Get(ctx, stranger.ID, req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
