package events

import (
	"context"
	"net/url"
	"time"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// dateLayouts accepted for event dates, most specific first. The API has
// historically accepted loose date-time strings, not just RFC 3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseEventDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ListPublished returns every event with state exactly "published", in id
// (insertion) order.
func (s *Service) ListPublished(ctx context.Context) ([]Event, error) {
	return s.repo.ListByState(ctx, StatePublished)
}

// ListMine returns all events owned by the caller. Requires the organizer
// role.
func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]Event, error) {
	if !actor.Roles.Has(auth.RoleOrganizer) {
		return nil, ErrForbidden
	}
	return s.repo.ListByOrganizer(ctx, actor.UserID)
}

// Get returns a single event. Non-published events are visible only to
// their organizer or an admin; anonymous callers (nil actor) always get
// ErrForbidden on them.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, id string) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.State != StatePublished {
		if actor == nil || (!actor.Roles.IsAdmin() && event.OrganizerID != actor.UserID) {
			return nil, ErrForbidden
		}
	}
	return event, nil
}

type CreateInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	City        *string  `json:"city"`
	Address     *string  `json:"address"`
	Date        string   `json:"date"`
	MaxCapacity *int     `json:"maxCapacity"`
	Image       *string  `json:"image"`
	State       string   `json:"state"`
	Price       *float64 `json:"price"`
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, input CreateInput) (*Event, error) {
	if !actor.Roles.Has(auth.RoleOrganizer) {
		return nil, ErrForbidden
	}
	if input.Title == "" || input.Date == "" || input.State == "" {
		return nil, ValidationError{Message: "Missing required fields (title, date, state)"}
	}

	date, ok := parseEventDate(input.Date)
	if !ok {
		return nil, ValidationError{Message: "Invalid date format"}
	}

	price := 0.0
	if input.Price != nil {
		price = *input.Price
	}
	if price < 0 {
		return nil, ValidationError{Message: "Price must be non-negative"}
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, CreateParams{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		Address:     input.Address,
		Date:        date,
		Price:       price,
		State:       input.State,
		MaxCapacity: input.MaxCapacity,
		Image:       input.Image,
		OrganizerID: actor.UserID,
	})
}

type UpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	City        *string  `json:"city"`
	Address     *string  `json:"address"`
	Date        *string  `json:"date"`
	MaxCapacity *int     `json:"maxCapacity"`
	Image       *string  `json:"image"`
	State       *string  `json:"state"`
	Price       *float64 `json:"price"`
}

// Update applies a partial update. Only the owning organizer or an admin
// may update. The whole update is atomic: an unparseable date fails the
// call before any field is persisted.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, input UpdateInput) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Roles.IsAdmin() && event.OrganizerID != actor.UserID {
		return nil, ErrForbidden
	}

	params := UpdateParams{
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		Address:     input.Address,
		Price:       input.Price,
		State:       input.State,
		MaxCapacity: input.MaxCapacity,
		Image:       input.Image,
	}
	if input.Date != nil {
		date, ok := parseEventDate(*input.Date)
		if !ok {
			return nil, ValidationError{Message: "Invalid date format"}
		}
		params.Date = &date
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, ValidationError{Message: "Price must be non-negative"}
	}

	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Roles.IsAdmin() && event.OrganizerID != actor.UserID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Search filters published events. The state parameter narrows within
// published events only; it can never expose drafts.
func (s *Service) Search(ctx context.Context, filters Filters) ([]Event, error) {
	return s.repo.Search(ctx, filters)
}

// ParseSearchFilters reads search query parameters. Date bounds are
// inclusive; an unparseable value names the offending parameter.
func ParseSearchFilters(values url.Values) (Filters, error) {
	filters := Filters{
		City:  values.Get("city"),
		State: values.Get("state"),
	}

	if raw := values.Get("dateFrom"); raw != "" {
		parsed, ok := parseEventDate(raw)
		if !ok {
			return Filters{}, ValidationError{Message: "Invalid dateFrom format"}
		}
		filters.DateFrom = &parsed
	}
	if raw := values.Get("dateTo"); raw != "" {
		parsed, ok := parseEventDate(raw)
		if !ok {
			return Filters{}, ValidationError{Message: "Invalid dateTo format"}
		}
		filters.DateTo = &parsed
	}

	return filters, nil
}
