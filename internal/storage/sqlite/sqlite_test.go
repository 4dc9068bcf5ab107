package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// newTestStore creates a store backed by a temp database file.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func seedBook(t *testing.T, store *SQLiteStore, ownerID, title string) *models.Book {
	t.Helper()
	book := &models.Book{
		OwnerID:   ownerID,
		Title:     title,
		Author:    "Author",
		Condition: models.ConditionGood,
	}
	if err := store.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("failed to seed book %s: %v", title, err)
	}
	return book
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, store, "alice@example.com", "Alice")
	if user.ID == "" {
		t.Fatal("expected generated user ID")
	}
	if user.Role != models.RoleMember {
		t.Errorf("expected member role, got %s", user.Role)
	}

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("unexpected user: %+v", got)
	}

	// Unknown email returns nil without error.
	got, err = store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown email, got %+v", got)
	}

	user.Suspended = true
	user.Role = models.RoleAdmin
	if err := store.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err = store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if !got.Suspended || got.Role != models.RoleAdmin {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	seedUser(t, store, "alice@example.com", "Alice")

	err := store.CreateUser(context.Background(), models.NewUser("alice@example.com", "Alice 2", "hash"))
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate email")
	}
}

func TestBookFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	seedBook(t, store, alice.ID, "The Go Programming Language")
	seedBook(t, store, alice.ID, "SQLite Internals")
	lent := seedBook(t, store, bob.ID, "Go in Action")
	lent.Status = models.BookLent
	if err := store.UpdateBook(ctx, lent); err != nil {
		t.Fatalf("UpdateBook failed: %v", err)
	}

	books, err := store.ListBooks(ctx, storage.BookFilter{})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 3 {
		t.Errorf("expected 3 books, got %d", len(books))
	}

	books, err = store.ListBooks(ctx, storage.BookFilter{OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 books for owner, got %d", len(books))
	}

	books, err = store.ListBooks(ctx, storage.BookFilter{Query: "go"})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 books matching 'go', got %d", len(books))
	}

	books, err = store.ListBooks(ctx, storage.BookFilter{AvailableOnly: true})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 available books, got %d", len(books))
	}
}

func TestListBooks_HidesRemoved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	book := seedBook(t, store, alice.ID, "Gone Book")
	book.Status = models.BookRemoved
	if err := store.UpdateBook(ctx, book); err != nil {
		t.Fatalf("UpdateBook failed: %v", err)
	}

	books, err := store.ListBooks(ctx, storage.BookFilter{})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected removed book to be hidden, got %d books", len(books))
	}

	books, err = store.ListBooks(ctx, storage.BookFilter{IncludeRemoved: true})
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 1 {
		t.Errorf("expected removed book with IncludeRemoved, got %d books", len(books))
	}
}

func TestApplyTransition_DeniesCompetingRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	carol := seedUser(t, store, "carol@example.com", "Carol")
	book := seedBook(t, store, alice.ID, "Popular Book")

	reqBob := &models.BorrowRequest{BookID: book.ID, OwnerID: alice.ID, BorrowerID: bob.ID}
	reqCarol := &models.BorrowRequest{BookID: book.ID, OwnerID: alice.ID, BorrowerID: carol.ID}
	for _, r := range []*models.BorrowRequest{reqBob, reqCarol} {
		if err := store.CreateBorrowRequest(ctx, r); err != nil {
			t.Fatalf("CreateBorrowRequest failed: %v", err)
		}
	}

	// Approve Bob's request; Carol's pending request must be auto-denied.
	reqBob.Status = models.StatusApproved
	reqBob.DueAt = time.Now().Add(14 * 24 * time.Hour).Unix()
	denied, err := store.ApplyTransition(ctx, storage.Transition{
		Request:       reqBob,
		BookStatus:    models.BookReserved,
		DenyCompeting: true,
	})
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if len(denied) != 1 || denied[0].ID != reqCarol.ID {
		t.Fatalf("expected Carol's request denied, got %+v", denied)
	}

	got, err := store.GetBorrowRequest(ctx, reqCarol.ID)
	if err != nil {
		t.Fatalf("GetBorrowRequest failed: %v", err)
	}
	if got.Status != models.StatusDenied {
		t.Errorf("expected denied, got %s", got.Status)
	}

	gotBook, err := store.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if gotBook.Status != models.BookReserved {
		t.Errorf("expected book reserved, got %s", gotBook.Status)
	}

	active, err := store.HasActiveRequestForBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("HasActiveRequestForBook failed: %v", err)
	}
	if !active {
		t.Error("expected an active request on the book")
	}
}

func TestHasPendingRequest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	book := seedBook(t, store, alice.ID, "Book")

	has, err := store.HasPendingRequest(ctx, book.ID, bob.ID)
	if err != nil {
		t.Fatalf("HasPendingRequest failed: %v", err)
	}
	if has {
		t.Error("expected no pending request yet")
	}

	req := &models.BorrowRequest{BookID: book.ID, OwnerID: alice.ID, BorrowerID: bob.ID}
	if err := store.CreateBorrowRequest(ctx, req); err != nil {
		t.Fatalf("CreateBorrowRequest failed: %v", err)
	}

	has, err = store.HasPendingRequest(ctx, book.ID, bob.ID)
	if err != nil {
		t.Fatalf("HasPendingRequest failed: %v", err)
	}
	if !has {
		t.Error("expected pending request")
	}
}

func TestListOutstandingLoansDueBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	book := seedBook(t, store, alice.ID, "Book")

	req := &models.BorrowRequest{
		BookID:     book.ID,
		OwnerID:    alice.ID,
		BorrowerID: bob.ID,
		Status:     models.StatusBorrowed,
		DueAt:      time.Now().Add(-24 * time.Hour).Unix(),
	}
	if err := store.CreateBorrowRequest(ctx, req); err != nil {
		t.Fatalf("CreateBorrowRequest failed: %v", err)
	}

	due, err := store.ListOutstandingLoansDueBefore(ctx, time.Now().Unix())
	if err != nil {
		t.Fatalf("ListOutstandingLoansDueBefore failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due loan, got %d", len(due))
	}

	if err := store.MarkOverdue(ctx, []string{req.ID}); err != nil {
		t.Fatalf("MarkOverdue failed: %v", err)
	}
	got, err := store.GetBorrowRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetBorrowRequest failed: %v", err)
	}
	if !got.Overdue {
		t.Error("expected loan flagged overdue")
	}
}

func TestCommunityMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	c := &models.Community{Name: "Readers", CreatedBy: alice.ID}
	if err := store.CreateCommunity(ctx, c); err != nil {
		t.Fatalf("CreateCommunity failed: %v", err)
	}

	// Creator is automatically a member.
	isMember, err := store.IsCommunityMember(ctx, c.ID, alice.ID)
	if err != nil {
		t.Fatalf("IsCommunityMember failed: %v", err)
	}
	if !isMember {
		t.Error("expected creator to be a member")
	}

	if err := store.AddCommunityMember(ctx, c.ID, bob.ID); err != nil {
		t.Fatalf("AddCommunityMember failed: %v", err)
	}
	// Joining twice is a no-op.
	if err := store.AddCommunityMember(ctx, c.ID, bob.ID); err != nil {
		t.Fatalf("AddCommunityMember (repeat) failed: %v", err)
	}

	if err := store.RemoveCommunityMember(ctx, c.ID, bob.ID); err != nil {
		t.Fatalf("RemoveCommunityMember failed: %v", err)
	}
	isMember, err = store.IsCommunityMember(ctx, c.ID, bob.ID)
	if err != nil {
		t.Fatalf("IsCommunityMember failed: %v", err)
	}
	if isMember {
		t.Error("expected Bob removed from community")
	}
}

func TestNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	err := store.CreateNotifications(ctx, []*models.Notification{
		{UserID: alice.ID, Type: models.NotifBroadcast, Title: "Welcome"},
		{UserID: bob.ID, Type: models.NotifBroadcast, Title: "Welcome"},
	})
	if err != nil {
		t.Fatalf("CreateNotifications failed: %v", err)
	}

	ns, err := store.ListNotifications(ctx, alice.ID, false)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(ns))
	}

	// Bob cannot mark Alice's notification read.
	if err := store.MarkNotificationRead(ctx, bob.ID, ns[0].ID); err == nil {
		t.Error("expected error marking another user's notification")
	}

	if err := store.MarkNotificationRead(ctx, alice.ID, ns[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	unread, err := store.ListNotifications(ctx, alice.ID, true)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected 0 unread, got %d", len(unread))
	}
}

func TestConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	carol := seedUser(t, store, "carol@example.com", "Carol")

	msgs := []*models.Message{
		{SenderID: alice.ID, RecipientID: bob.ID, Body: "Is the book still available?", CreatedAt: 100},
		{SenderID: bob.ID, RecipientID: alice.ID, Body: "Yes, come pick it up.", CreatedAt: 200},
		{SenderID: carol.ID, RecipientID: bob.ID, Body: "Unrelated", CreatedAt: 300},
	}
	for _, m := range msgs {
		if err := store.CreateMessage(ctx, m); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	convo, err := store.ListConversation(ctx, alice.ID, bob.ID, 50)
	if err != nil {
		t.Fatalf("ListConversation failed: %v", err)
	}
	if len(convo) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(convo))
	}
	if convo[0].Body != "Is the book still available?" {
		t.Errorf("expected oldest message first, got %q", convo[0].Body)
	}
}

func TestActivityLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.AppendActivity(ctx, &models.ActivityLog{
			Action:     "borrow.approve",
			TargetType: "borrow_request",
			TargetID:   "req",
			CreatedAt:  int64(i + 1),
		})
		if err != nil {
			t.Fatalf("AppendActivity failed: %v", err)
		}
	}

	entries, err := store.ListActivity(ctx, 2)
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].CreatedAt != 3 {
		t.Errorf("expected newest first, got created_at=%d", entries[0].CreatedAt)
	}
}
