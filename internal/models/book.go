package models

// BookCondition describes the physical state of a listed book.
type BookCondition string

const (
	ConditionNew  BookCondition = "new"
	ConditionGood BookCondition = "good"
	ConditionFair BookCondition = "fair"
	ConditionWorn BookCondition = "worn"
)

// BookStatus reflects whether a book can currently be requested.
// It is derived from the book's active borrow request, if any.
type BookStatus string

const (
	// BookAvailable means the book has no active borrow request.
	BookAvailable BookStatus = "available"

	// BookReserved means a request was approved but the book has not been
	// handed over yet.
	BookReserved BookStatus = "reserved"

	// BookLent means the book is with a borrower (borrowed or return in progress).
	BookLent BookStatus = "lent"

	// BookRemoved means the listing was taken down by its owner or an admin.
	// Removed books are hidden from browsing and cannot be requested.
	BookRemoved BookStatus = "removed"
)

// Book represents a book listed for lending.
type Book struct {
	// ID is the unique identifier for the book (UUID format).
	ID string

	// OwnerID is the user who listed the book.
	OwnerID string

	// CommunityID optionally scopes the listing to a community shelf.
	// Empty means the book is visible platform-wide.
	CommunityID string

	// Title is the book's title.
	Title string

	// Author is the book's author.
	Author string

	// Description is an optional free-form blurb from the owner.
	Description string

	// Condition is the owner-reported physical condition.
	Condition BookCondition

	// Status reflects lending availability. Maintained by the borrow
	// lifecycle; never set directly by listing updates.
	Status BookStatus

	// CreatedAt is the Unix timestamp when the listing was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last listing change.
	UpdatedAt int64
}
