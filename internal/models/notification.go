package models

// NotificationType identifies what a notification is about.
// RefID points at the related record (borrow request, book, message).
type NotificationType string

const (
	NotifBorrowRequested  NotificationType = "borrow_requested"
	NotifBorrowApproved   NotificationType = "borrow_approved"
	NotifBorrowDenied     NotificationType = "borrow_denied"
	NotifBorrowCancelled  NotificationType = "borrow_cancelled"
	NotifBookHandedOver   NotificationType = "book_handed_over"
	NotifReturnInitiated  NotificationType = "return_initiated"
	NotifReturnConfirmed  NotificationType = "return_confirmed"
	NotifDueSoon          NotificationType = "due_soon"
	NotifOverdue          NotificationType = "overdue"
	NotifBroadcast        NotificationType = "broadcast"
	NotifAccountSuspended NotificationType = "account_suspended"
)

// Notification represents a per-user event record.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// UserID is the recipient.
	UserID string

	// Type categorizes the notification.
	Type NotificationType

	// Title is a short human-readable headline.
	Title string

	// Body is the notification text.
	Body string

	// RefID optionally links to the record the notification is about.
	RefID string

	// Read marks whether the user has seen the notification.
	Read bool

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64
}
