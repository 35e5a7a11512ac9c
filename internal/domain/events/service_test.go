package events

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gatherly/server/internal/auth"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	events map[string]*Event
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[string]*Event{}}
}

func (f *fakeRepo) ordered() []Event {
	out := make([]Event, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, *event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) ListByState(_ context.Context, state string) ([]Event, error) {
	var out []Event
	for _, event := range f.ordered() {
		if event.State == state {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByOrganizer(_ context.Context, organizerID string) ([]Event, error) {
	var out []Event
	for _, event := range f.ordered() {
		if event.OrganizerID == organizerID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (*Event, error) {
	event := &Event{
		ID:          params.ID,
		Title:       params.Title,
		Description: params.Description,
		City:        params.City,
		Address:     params.Address,
		Date:        params.Date,
		Price:       params.Price,
		State:       params.State,
		MaxCapacity: params.MaxCapacity,
		Image:       params.Image,
		OrganizerID: params.OrganizerID,
		CreatedAt:   time.Now(),
	}
	f.events[event.ID] = event
	copied := *event
	return &copied, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, params UpdateParams) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Title != nil {
		event.Title = *params.Title
	}
	if params.Description != nil {
		event.Description = params.Description
	}
	if params.City != nil {
		event.City = params.City
	}
	if params.Address != nil {
		event.Address = params.Address
	}
	if params.Date != nil {
		event.Date = *params.Date
	}
	if params.Price != nil {
		event.Price = *params.Price
	}
	if params.State != nil {
		event.State = *params.State
	}
	if params.MaxCapacity != nil {
		event.MaxCapacity = params.MaxCapacity
	}
	if params.Image != nil {
		event.Image = params.Image
	}
	copied := *event
	return &copied, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) Search(_ context.Context, filters Filters) ([]Event, error) {
	var out []Event
	for _, event := range f.ordered() {
		if event.State != StatePublished {
			continue
		}
		if filters.State != "" && event.State != filters.State {
			continue
		}
		if filters.City != "" {
			if event.City == nil || !strings.Contains(*event.City, filters.City) {
				continue
			}
		}
		if filters.DateFrom != nil && event.Date.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && event.Date.After(*filters.DateTo) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

var (
	organizer = auth.Actor{UserID: "org-1", Roles: auth.RoleSet{auth.RoleOrganizer}}
	admin     = auth.Actor{UserID: "adm-1", Roles: auth.RoleSet{auth.RoleAdmin}}
	attendee  = auth.Actor{UserID: "usr-1", Roles: auth.RoleSet{auth.RoleUser}}
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func mustCreate(t *testing.T, svc *Service, actor auth.Actor, input CreateInput) *Event {
	t.Helper()
	event, err := svc.Create(context.Background(), actor, input)
	require.NoError(t, err)
	return event
}

func TestListPublishedOnlyPublished(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	mustCreate(t, svc, organizer, CreateInput{Title: "A", Date: "2025-01-01T10:00:00Z", State: "published"})
	mustCreate(t, svc, organizer, CreateInput{Title: "B", Date: "2025-01-02T10:00:00Z", State: "draft"})
	mustCreate(t, svc, organizer, CreateInput{Title: "C", Date: "2025-01-03T10:00:00Z", State: "archived"})

	listed, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "A", listed[0].Title)
}

func TestListMineRequiresOrganizerRole(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ListMine(context.Background(), attendee)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGetDraftVisibility(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, organizer, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: "draft"})

	_, err := svc.Get(ctx, nil, event.ID)
	require.ErrorIs(t, err, ErrForbidden, "anonymous must not see drafts")

	_, err = svc.Get(ctx, &attendee, event.ID)
	require.ErrorIs(t, err, ErrForbidden, "unrelated user must not see drafts")

	got, err := svc.Get(ctx, &organizer, event.ID)
	require.NoError(t, err)
	require.Equal(t, "draft", got.State)

	_, err = svc.Get(ctx, &admin, event.ID)
	require.NoError(t, err)
}

func TestGetPublishedIsPublic(t *testing.T) {
	svc := NewService(newFakeRepo())
	event := mustCreate(t, svc, organizer, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: "published"})

	got, err := svc.Get(context.Background(), nil, event.ID)
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), &admin, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, organizer, CreateInput{Date: "2025-01-01T10:00:00Z", State: "draft"})
	require.ErrorAs(t, err, &ValidationError{}, "missing title")

	_, err = svc.Create(ctx, organizer, CreateInput{Title: "T", Date: "not-a-date", State: "draft"})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Invalid date format", verr.Message)

	_, err = svc.Create(ctx, organizer, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: "draft", Price: floatPtr(-1)})
	require.ErrorAs(t, err, &ValidationError{})

	_, err = svc.Create(ctx, attendee, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: "draft"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	event := mustCreate(t, svc, organizer, CreateInput{Title: "T", Date: "2025-01-01", State: "draft"})
	require.Equal(t, 0.0, event.Price)
	require.Nil(t, event.Description)
	require.Nil(t, event.MaxCapacity)
	require.Equal(t, "org-1", event.OrganizerID)
	require.NotEmpty(t, event.ID)
}

func TestUpdatePartial(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	event := mustCreate(t, svc, organizer, CreateInput{
		Title: "T", Date: "2025-01-01T10:00:00Z", State: "draft",
		City: strPtr("Paris"), Price: floatPtr(10),
	})

	updated, err := svc.Update(ctx, organizer, event.ID, UpdateInput{Title: strPtr("T2")})
	require.NoError(t, err)
	require.Equal(t, "T2", updated.Title)
	require.Equal(t, "Paris", *updated.City, "absent fields stay untouched")
	require.Equal(t, 10.0, updated.Price)
}

func TestUpdateBadDateIsAtomic(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	event := mustCreate(t, svc, organizer, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: "draft"})

	_, err := svc.Update(ctx, organizer, event.ID, UpdateInput{
		Title: strPtr("changed"),
		Date:  strPtr("garbage"),
	})
	require.ErrorAs(t, err, &ValidationError{})

	stored := repo.events[event.ID]
	require.Equal(t, "T", stored.Title, "no field may be persisted when the date fails to parse")
}

func TestUpdateDeleteAuthz(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, state := range []string{"draft", "published"} {
		event := mustCreate(t, svc, organizer, CreateInput{Title: "T", Date: "2025-01-01T10:00:00Z", State: state})

		_, err := svc.Update(ctx, attendee, event.ID, UpdateInput{Title: strPtr("X")})
		require.ErrorIs(t, err, ErrForbidden)
		require.ErrorIs(t, svc.Delete(ctx, attendee, event.ID), ErrForbidden)

		_, err = svc.Update(ctx, admin, event.ID, UpdateInput{Title: strPtr("X")})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, admin, event.ID))
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())
	require.ErrorIs(t, svc.Delete(context.Background(), admin, "missing"), ErrNotFound)
}

func TestSearchBaseFilterIsPublished(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	mustCreate(t, svc, organizer, CreateInput{Title: "Draft Paris", Date: "2025-01-01T10:00:00Z", State: "draft", City: strPtr("Paris")})
	mustCreate(t, svc, organizer, CreateInput{Title: "Pub Paris", Date: "2025-01-02T10:00:00Z", State: "published", City: strPtr("Paris")})

	// Passing state=draft cannot expose drafts.
	found, err := svc.Search(ctx, Filters{State: "draft"})
	require.NoError(t, err)
	require.Empty(t, found)

	found, err = svc.Search(ctx, Filters{City: "Paris"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Pub Paris", found[0].Title)
}

func TestSearchCityCaseSensitiveSubstring(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	mustCreate(t, svc, organizer, CreateInput{Title: "A", Date: "2025-01-01T10:00:00Z", State: "published", City: strPtr("Greater Paris Area")})
	mustCreate(t, svc, organizer, CreateInput{Title: "B", Date: "2025-01-01T10:00:00Z", State: "published", City: strPtr("paris")})

	found, err := svc.Search(ctx, Filters{City: "Paris"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "A", found[0].Title)
}

func TestSearchDateBoundsInclusive(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	mustCreate(t, svc, organizer, CreateInput{Title: "Jan1", Date: "2025-01-01T00:00:00Z", State: "published"})
	mustCreate(t, svc, organizer, CreateInput{Title: "Jan5", Date: "2025-01-05T00:00:00Z", State: "published"})

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	found, err := svc.Search(ctx, Filters{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestParseSearchFilters(t *testing.T) {
	values := url.Values{}
	values.Set("city", "Paris")
	values.Set("dateFrom", "2025-01-01")
	values.Set("dateTo", "2025-02-01T00:00:00Z")

	filters, err := ParseSearchFilters(values)
	require.NoError(t, err)
	require.Equal(t, "Paris", filters.City)
	require.NotNil(t, filters.DateFrom)
	require.NotNil(t, filters.DateTo)
}

func TestParseSearchFiltersNamesBadParam(t *testing.T) {
	values := url.Values{}
	values.Set("dateFrom", "garbage")

	_, err := ParseSearchFilters(values)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Invalid dateFrom format", verr.Message)

	values = url.Values{}
	values.Set("dateTo", "garbage")
	_, err = ParseSearchFilters(values)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Invalid dateTo format", verr.Message)
}
