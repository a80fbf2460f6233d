package domain

import (
	"context"
	"time"
)

// Role levels, totally ordered. Ranks live in policy.go.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User represents a registered account.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new inactive User with role "user". ID is set by the
// repository on create.
func NewUser(username, email, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      RoleUser,
		Active:    false,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// UserPatch carries optional profile fields for partial updates.
// Nil means leave unchanged.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
}

// PasswordHasher hashes and verifies passwords. Implementations may use
// bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage. The role column and
// the confirmation-code pair live on the users table.
type UserRepository interface {
	Create(ctx context.Context, user *User, passwordHash string) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*User, string, error)
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)
	Search(ctx context.Context, term string, limit int) ([]*User, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	ListByActive(ctx context.Context, active bool) ([]*User, error)
	SetConfirmationCode(ctx context.Context, email, code string, expiresAt time.Time) error
	// ConsumeConfirmationCode activates the account when the code matches and
	// has not expired; returns false otherwise.
	ConsumeConfirmationCode(ctx context.Context, email, code string) (bool, error)
}

// UserService defines profile and directory operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)
	// Search returns users matching term across username, email, and names.
	// When excludeEventID is non-empty, users already on that event's roster
	// are filtered out.
	Search(ctx context.Context, term, excludeEventID string) ([]*User, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	ListByActive(ctx context.Context, active bool) ([]*User, error)
}

// RegisterResult reports whether the confirmation email went out. A failed
// send does not fail the registration.
type RegisterResult struct {
	User      *User `json:"user"`
	EmailSent bool  `json:"email_sent"`
}

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password, firstName, lastName string) (*RegisterResult, error)
	// Login returns a signed token. ErrForbidden is returned for an inactive
	// account, ErrInvalidInput for bad credentials.
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	ConfirmAccount(ctx context.Context, email, code string) error
}
