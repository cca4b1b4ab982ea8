// Package identity handles user accounts: signup with OTP email
// verification, password login, Google sign-in, and session token
// issuance.
package identity

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role separates admin and customer accounts.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a registered account. PasswordHash is empty for accounts created
// through Google sign-in.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	FirebaseUID  string
	Role         Role
	Verified     bool
	ProfileImage string
	CreatedAt    time.Time
}

// Sentinel errors for identity operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
)

// InvalidInputError indicates a malformed or incomplete auth payload.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// Repository defines persistence operations for users. Email is unique;
// Create returns ErrEmailTaken on a duplicate.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// Sender delivers a plain-text email. The production implementation lives
// in internal/mail.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
