package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

const bookColumns = "id, owner_id, community_id, title, author, description, condition, status, created_at, updated_at"

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	book := &models.Book{}
	var communityID sql.NullString
	err := row.Scan(
		&book.ID,
		&book.OwnerID,
		&communityID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Condition,
		&book.Status,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	book.CommunityID = communityID.String
	return book, nil
}

// CreateBook persists a new book listing.
// ID, status, and timestamps are generated if not set.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if book.CreatedAt == 0 {
		book.CreatedAt = now
	}
	if book.UpdatedAt == 0 {
		book.UpdatedAt = now
	}
	if book.Status == "" {
		book.Status = models.BookAvailable
	}

	var communityID any
	if book.CommunityID != "" {
		communityID = book.CommunityID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, owner_id, community_id, title, author, description, condition, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.OwnerID,
		communityID,
		book.Title,
		book.Author,
		book.Description,
		book.Condition,
		book.Status,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *SQLiteStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = ?", id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// UpdateBook persists changes to an existing book listing.
func (s *SQLiteStore) UpdateBook(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().Unix()

	var communityID any
	if book.CommunityID != "" {
		communityID = book.CommunityID
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE books
		SET community_id = ?, title = ?, author = ?, description = ?, condition = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		communityID,
		book.Title,
		book.Author,
		book.Description,
		book.Condition,
		book.Status,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update book %s: %w", book.ID, storage.ErrNotFound)
	}
	return nil
}

// ListBooks returns books matching the filter, newest first.
func (s *SQLiteStore) ListBooks(ctx context.Context, filter storage.BookFilter) ([]*models.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE 1=1"
	var args []any

	if !filter.IncludeRemoved {
		query += " AND status != ?"
		args = append(args, models.BookRemoved)
	}
	if filter.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	if filter.CommunityID != "" {
		query += " AND community_id = ?"
		args = append(args, filter.CommunityID)
	}
	if filter.Query != "" {
		query += " AND (title LIKE ? COLLATE NOCASE OR author LIKE ? COLLATE NOCASE)"
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	if filter.AvailableOnly {
		query += " AND status = ?"
		args = append(args, models.BookAvailable)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}
