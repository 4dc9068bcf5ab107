package models

// Message represents a direct message between two users, typically a
// borrower and an owner coordinating a handover.
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string

	// SenderID is the user who sent the message.
	SenderID string

	// RecipientID is the user the message was sent to.
	RecipientID string

	// Body is the message text.
	Body string

	// CreatedAt is the Unix timestamp when the message was sent.
	CreatedAt int64
}
