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

const borrowColumns = "id, book_id, owner_id, borrower_id, status, message, due_at, overdue, created_at, updated_at"

// activeStatuses is the SQL fragment matching requests that hold a claim on a book.
const activeStatuses = "('approved', 'borrowed', 'return_initiated')"

func scanBorrow(row interface{ Scan(...any) error }) (*models.BorrowRequest, error) {
	req := &models.BorrowRequest{}
	err := row.Scan(
		&req.ID,
		&req.BookID,
		&req.OwnerID,
		&req.BorrowerID,
		&req.Status,
		&req.Message,
		&req.DueAt,
		&req.Overdue,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// CreateBorrowRequest persists a new pending borrow request.
// ID, status, and timestamps are generated if not set.
func (s *SQLiteStore) CreateBorrowRequest(ctx context.Context, req *models.BorrowRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if req.CreatedAt == 0 {
		req.CreatedAt = now
	}
	if req.UpdatedAt == 0 {
		req.UpdatedAt = now
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO borrow_requests (id, book_id, owner_id, borrower_id, status, message, due_at, overdue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.BookID,
		req.OwnerID,
		req.BorrowerID,
		req.Status,
		req.Message,
		req.DueAt,
		req.Overdue,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create borrow request: %w", err)
	}
	return nil
}

// GetBorrowRequest retrieves a borrow request by ID.
func (s *SQLiteStore) GetBorrowRequest(ctx context.Context, id string) (*models.BorrowRequest, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_requests WHERE id = ?", id)

	req, err := scanBorrow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("borrow request %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrow request: %w", err)
	}
	return req, nil
}

func (s *SQLiteStore) listBorrowRequests(ctx context.Context, column, userID string) ([]*models.BorrowRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_requests WHERE "+column+" = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.BorrowRequest
	for rows.Next() {
		req, err := scanBorrow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrow request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrow requests: %w", err)
	}
	return reqs, nil
}

// ListBorrowRequestsByOwner returns requests for books the user owns, newest first.
func (s *SQLiteStore) ListBorrowRequestsByOwner(ctx context.Context, ownerID string) ([]*models.BorrowRequest, error) {
	return s.listBorrowRequests(ctx, "owner_id", ownerID)
}

// ListBorrowRequestsByBorrower returns requests the user has made, newest first.
func (s *SQLiteStore) ListBorrowRequestsByBorrower(ctx context.Context, borrowerID string) ([]*models.BorrowRequest, error) {
	return s.listBorrowRequests(ctx, "borrower_id", borrowerID)
}

// HasActiveRequestForBook reports whether any request currently holds a claim
// on the book (approved, borrowed, or return in progress).
func (s *SQLiteStore) HasActiveRequestForBook(ctx context.Context, bookID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM borrow_requests WHERE book_id = ? AND status IN "+activeStatuses,
		bookID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active requests: %w", err)
	}
	return count > 0, nil
}

// HasPendingRequest reports whether the borrower already has a pending
// request for the book.
func (s *SQLiteStore) HasPendingRequest(ctx context.Context, bookID, borrowerID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM borrow_requests WHERE book_id = ? AND borrower_id = ? AND status = ?",
		bookID, borrowerID, models.StatusPending,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return count > 0, nil
}

// ApplyTransition commits a lifecycle change atomically: the request's new
// status, the implied book status, and (on approval) the denial of every
// competing pending request for the same book. Returns the auto-denied
// requests so callers can notify their borrowers.
func (s *SQLiteStore) ApplyTransition(ctx context.Context, tr storage.Transition) ([]*models.BorrowRequest, error) {
	req := tr.Request
	req.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE borrow_requests
		SET status = ?, due_at = ?, overdue = ?, updated_at = ?
		WHERE id = ?`,
		req.Status, req.DueAt, req.Overdue, req.UpdatedAt, req.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update borrow request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("borrow request %s: %w", req.ID, storage.ErrNotFound)
	}

	var denied []*models.BorrowRequest
	if tr.DenyCompeting {
		rows, err := tx.QueryContext(ctx,
			"SELECT "+borrowColumns+" FROM borrow_requests WHERE book_id = ? AND status = ? AND id != ?",
			req.BookID, models.StatusPending, req.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to find competing requests: %w", err)
		}
		for rows.Next() {
			r, err := scanBorrow(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan competing request: %w", err)
			}
			denied = append(denied, r)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate competing requests: %w", err)
		}

		if len(denied) > 0 {
			_, err = tx.ExecContext(ctx,
				"UPDATE borrow_requests SET status = ?, updated_at = ? WHERE book_id = ? AND status = ? AND id != ?",
				models.StatusDenied, req.UpdatedAt, req.BookID, models.StatusPending, req.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to deny competing requests: %w", err)
			}
			for _, r := range denied {
				r.Status = models.StatusDenied
				r.UpdatedAt = req.UpdatedAt
			}
		}
	}

	// Keep the book's availability in sync with the loan state, but never
	// resurrect a removed listing.
	_, err = tx.ExecContext(ctx,
		"UPDATE books SET status = ?, updated_at = ? WHERE id = ? AND status != ?",
		tr.BookStatus, req.UpdatedAt, req.BookID, models.BookRemoved,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update book status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return denied, nil
}

// ListOutstandingLoansDueBefore returns borrowed or return-in-progress loans
// whose due date has passed the cutoff, oldest first.
func (s *SQLiteStore) ListOutstandingLoansDueBefore(ctx context.Context, cutoff int64) ([]*models.BorrowRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_requests WHERE status IN ('borrowed', 'return_initiated') AND due_at > 0 AND due_at < ? ORDER BY due_at",
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due loans: %w", err)
	}
	defer rows.Close()

	var reqs []*models.BorrowRequest
	for rows.Next() {
		req, err := scanBorrow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due loan: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due loans: %w", err)
	}
	return reqs, nil
}

// MarkOverdue flags the given requests as overdue.
func (s *SQLiteStore) MarkOverdue(ctx context.Context, requestIDs []string) error {
	if len(requestIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, id := range requestIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE borrow_requests SET overdue = 1, updated_at = ? WHERE id = ?",
			now, id,
		); err != nil {
			return fmt.Errorf("failed to mark request %s overdue: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
