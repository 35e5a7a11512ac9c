package users

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/server/internal/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied")
)

// ValidationError reports malformed or missing input. It maps to a 400 at
// the HTTP boundary.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type User struct {
	ID           string
	Email        string
	Name         string
	Roles        auth.RoleSet
	PasswordHash string
	CreatedAt    time.Time
}

type CreateParams struct {
	ID           string
	Email        string
	Name         string
	Roles        auth.RoleSet
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Delete removes the user; owned events and registrations cascade in
	// the storage layer.
	Delete(ctx context.Context, id string) error
}
