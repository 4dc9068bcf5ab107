package models

// Role determines what a user is allowed to do on the platform.
type Role string

const (
	// RoleMember is the default role: list books, browse, borrow.
	RoleMember Role = "member"

	// RoleAdmin can moderate users, remove listings, and broadcast notifications.
	RoleAdmin Role = "admin"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown to other users.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string

	// Role is the user's platform role (member or admin).
	Role Role

	// Suspended marks a user banned by an admin. Suspended users cannot
	// log in; tokens issued before the suspension stay valid until expiry.
	Suspended bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a user with the default member role.
// ID and timestamps are filled in by the store.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         RoleMember,
	}
}
