package models

// Community represents a group of users who share a browsable shelf.
// Books may optionally be listed into a community.
type Community struct {
	// ID is the unique identifier for the community (UUID format).
	ID string

	// Name is the display name (e.g., "Dhanmondi Readers").
	Name string

	// Description is an optional blurb about the community.
	Description string

	// CreatedBy is the user who created the community. The creator is
	// automatically a member.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the community was created.
	CreatedAt int64
}
