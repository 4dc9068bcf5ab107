package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// BookService handles book listing CRUD and browsing.
type BookService struct {
	store storage.Store
}

// NewBookService creates a new book service.
func NewBookService(store storage.Store) *BookService {
	return &BookService{store: store}
}

var validConditions = map[models.BookCondition]bool{
	models.ConditionNew:  true,
	models.ConditionGood: true,
	models.ConditionFair: true,
	models.ConditionWorn: true,
}

// Create lists a new book for the owner. If a community is given, the owner
// must be a member of it.
func (s *BookService) Create(ctx context.Context, ownerID string, book *models.Book) (*models.Book, error) {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if book.Title == "" || book.Author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrValidation)
	}
	if book.Condition == "" {
		book.Condition = models.ConditionGood
	}
	if !validConditions[book.Condition] {
		return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, book.Condition)
	}

	if book.CommunityID != "" {
		isMember, err := s.store.IsCommunityMember(ctx, book.CommunityID, ownerID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("list into community: %w", ErrForbidden)
		}
	}

	book.OwnerID = ownerID
	book.Status = models.BookAvailable
	if err := s.store.CreateBook(ctx, book); err != nil {
		slog.Error("CreateBook failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	slog.Info("Book listed", "book_id", book.ID, "owner_id", ownerID, "title", book.Title)
	return book, nil
}

// Get returns a single book.
func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	return s.store.GetBook(ctx, id)
}

// List returns books matching the filter.
func (s *BookService) List(ctx context.Context, filter storage.BookFilter) ([]*models.Book, error) {
	// Removed listings are only visible through the admin service.
	filter.IncludeRemoved = false
	return s.store.ListBooks(ctx, filter)
}

// Update edits a listing. Only the owner may update, and availability status
// is owned by the lending lifecycle, not by edits.
func (s *BookService) Update(ctx context.Context, userID string, book *models.Book) (*models.Book, error) {
	existing, err := s.store.GetBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, fmt.Errorf("update book: %w", ErrForbidden)
	}

	existing.Title = strings.TrimSpace(book.Title)
	existing.Author = strings.TrimSpace(book.Author)
	existing.Description = book.Description
	if existing.Title == "" || existing.Author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrValidation)
	}
	if book.Condition != "" {
		if !validConditions[book.Condition] {
			return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, book.Condition)
		}
		existing.Condition = book.Condition
	}
	if book.CommunityID != "" && book.CommunityID != existing.CommunityID {
		isMember, err := s.store.IsCommunityMember(ctx, book.CommunityID, userID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, fmt.Errorf("list into community: %w", ErrForbidden)
		}
	}
	existing.CommunityID = book.CommunityID

	if err := s.store.UpdateBook(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove delists a book. Only the owner may remove it, and not while the
// book is out on loan.
func (s *BookService) Remove(ctx context.Context, userID, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != userID {
		return fmt.Errorf("remove book: %w", ErrForbidden)
	}

	active, err := s.store.HasActiveRequestForBook(ctx, bookID)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: book has an active loan", ErrValidation)
	}

	book.Status = models.BookRemoved
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return err
	}

	slog.Info("Book removed", "book_id", bookID, "owner_id", userID)
	return nil
}
