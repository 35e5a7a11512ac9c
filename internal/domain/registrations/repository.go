package registrations

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrNotRegistered     = errors.New("user not registered")
)

// Registration links one user to one event. At most one registration may
// exist per (user, event) pair; the storage layer enforces this with a
// uniqueness constraint so concurrent duplicates cannot slip past the
// existence pre-check.
type Registration struct {
	ID        string
	UserID    string
	EventID   string
	CreatedAt time.Time
}

// RegisteredEvent is the event summary returned when listing a user's
// registrations.
type RegisteredEvent struct {
	ID          string
	Title       string
	Description *string
	Date        time.Time
	City        *string
	Address     *string
}

type Repository interface {
	// Create inserts the registration. A duplicate (user, event) pair
	// returns ErrAlreadyRegistered, whether detected before or by the
	// unique constraint.
	Create(ctx context.Context, reg Registration) error
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	// Delete removes the registration, returning ErrNotRegistered when
	// none exists.
	Delete(ctx context.Context, userID, eventID string) error
	ListEventsByUser(ctx context.Context, userID string) ([]RegisteredEvent, error)
}
