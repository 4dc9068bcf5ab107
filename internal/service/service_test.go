package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MahdiMurshed/bookshare/internal/auth"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/realtime"
	"github.com/MahdiMurshed/bookshare/internal/storage/sqlite"
)

// testEnv bundles the services over a shared temp-file SQLite store.
type testEnv struct {
	store         *sqlite.SQLiteStore
	hub           *realtime.Hub
	auth          *AuthService
	books         *BookService
	borrows       *BorrowService
	communities   *CommunityService
	notifications *NotificationService
	messages      *MessageService
	admin         *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	notifications := NewNotificationService(store, hub)

	return &testEnv{
		store:         store,
		hub:           hub,
		auth:          NewAuthService(authenticator, jwtManager, store),
		books:         NewBookService(store),
		borrows:       NewBorrowService(store, notifications, 14*24*time.Hour),
		communities:   NewCommunityService(store),
		notifications: notifications,
		messages:      NewMessageService(store, hub),
		admin:         NewAdminService(store, notifications),
	}
}

func (e *testEnv) createUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user, _, err := e.auth.Register(context.Background(), email, name, "password123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createAdmin(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := e.createUser(t, email, name)
	user.Role = models.RoleAdmin
	if err := e.store.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to promote %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createBook(t *testing.T, ownerID, title string) *models.Book {
	t.Helper()
	book, err := e.books.Create(context.Background(), ownerID, &models.Book{
		Title:     title,
		Author:    "Test Author",
		Condition: models.ConditionGood,
	})
	if err != nil {
		t.Fatalf("failed to create book %q: %v", title, err)
	}
	return book
}
