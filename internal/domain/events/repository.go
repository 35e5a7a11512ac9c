package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("access denied")
)

// Known lifecycle states. The state column is free-form text with no
// enforced enum and no transition rules; only "published" has meaning to
// the access rules.
const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// ValidationError reports malformed or missing input (400 at the boundary).
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type Event struct {
	ID          string
	Title       string
	Description *string
	City        *string
	Address     *string
	Date        time.Time
	Price       float64
	State       string
	MaxCapacity *int
	Image       *string
	OrganizerID string
	CreatedAt   time.Time
}

type CreateParams struct {
	ID          string
	Title       string
	Description *string
	City        *string
	Address     *string
	Date        time.Time
	Price       float64
	State       string
	MaxCapacity *int
	Image       *string
	OrganizerID string
}

// UpdateParams carries a partial update: nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	City        *string
	Address     *string
	Date        *time.Time
	Price       *float64
	State       *string
	MaxCapacity *int
	Image       *string
}

// Filters narrows a search. Published-only is a base restriction applied
// by the repository regardless of the State value.
type Filters struct {
	City     string
	State    string
	DateFrom *time.Time
	DateTo   *time.Time
}

type Repository interface {
	ListByState(ctx context.Context, state string) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	// Delete removes the event; its registrations cascade in the storage
	// layer.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filters Filters) ([]Event, error)
}
