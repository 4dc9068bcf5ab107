package models

// BorrowStatus is the lifecycle state of a borrow request.
type BorrowStatus string

const (
	// StatusPending is the initial state: waiting for the owner's decision.
	StatusPending BorrowStatus = "pending"

	// StatusApproved means the owner accepted; the book is reserved until handover.
	StatusApproved BorrowStatus = "approved"

	// StatusDenied means the owner declined the request. Terminal.
	StatusDenied BorrowStatus = "denied"

	// StatusCancelled means the borrower withdrew a pending request. Terminal.
	StatusCancelled BorrowStatus = "cancelled"

	// StatusBorrowed means the book has been handed over to the borrower.
	StatusBorrowed BorrowStatus = "borrowed"

	// StatusReturnInitiated means the borrower reported giving the book back
	// and the owner has not yet confirmed receipt.
	StatusReturnInitiated BorrowStatus = "return_initiated"

	// StatusReturned means the owner confirmed the book is back. Terminal.
	StatusReturned BorrowStatus = "returned"
)

// BorrowRequest represents one user's request to borrow another user's book.
type BorrowRequest struct {
	// ID is the unique identifier for the request (UUID format).
	ID string

	// BookID is the book being requested.
	BookID string

	// OwnerID is the book's owner (denormalized for cheap authorization checks).
	OwnerID string

	// BorrowerID is the user asking to borrow the book.
	BorrowerID string

	// Status is the current lifecycle state.
	Status BorrowStatus

	// Message is an optional note from the borrower to the owner.
	Message string

	// DueAt is the Unix timestamp the loan is due back. Zero until approval.
	DueAt int64

	// Overdue is set by the reminder sweep once DueAt has passed on an
	// outstanding loan.
	Overdue bool

	// CreatedAt is the Unix timestamp when the request was made.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64
}
