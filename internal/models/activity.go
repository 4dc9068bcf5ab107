package models

// ActivityLog is an append-only record of moderation and lifecycle events,
// reviewable by admins.
type ActivityLog struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string

	// ActorID is the user who performed the action. Empty for system actions
	// (e.g., the overdue sweep).
	ActorID string

	// Action names what happened (e.g., "borrow.approve", "admin.suspend_user").
	Action string

	// TargetType is the kind of record acted on ("book", "user", "borrow_request").
	TargetType string

	// TargetID is the acted-on record's ID.
	TargetID string

	// Detail is optional free-form context.
	Detail string

	// CreatedAt is the Unix timestamp when the event occurred.
	CreatedAt int64
}
