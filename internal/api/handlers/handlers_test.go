package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/domain/users"
)

// Shared in-memory fakes backing the handler tests. They implement the
// domain repository interfaces with the same error contract as postgres.

func testTokens() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour, "gatherly-test")
}

func withActor(r *http.Request, userID string, roles ...auth.Role) *http.Request {
	actor := &auth.Actor{UserID: userID, Roles: auth.RoleSet(roles)}
	return r.WithContext(middleware.ContextWithActor(r.Context(), actor))
}

type fakeUserRepo struct {
	users map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*users.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	for _, u := range f.users {
		if u.Email == params.Email {
			return nil, users.ErrEmailTaken
		}
	}
	user := &users.User{
		ID:           params.ID,
		Email:        params.Email,
		Name:         params.Name,
		Roles:        params.Roles,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]users.User, error) {
	list := make([]users.User, 0, len(f.users))
	for _, user := range f.users {
		list = append(list, *user)
	}
	return list, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeEventRepo struct {
	events map[string]*events.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*events.Event)}
}

func (f *fakeEventRepo) ListByState(ctx context.Context, state string) ([]events.Event, error) {
	var list []events.Event
	for _, event := range f.events {
		if event.State == state {
			list = append(list, *event)
		}
	}
	return list, nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]events.Event, error) {
	var list []events.Event
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			list = append(list, *event)
		}
	}
	return list, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	if event, ok := f.events[id]; ok {
		return event, nil
	}
	return nil, events.ErrNotFound
}

func (f *fakeEventRepo) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	event := &events.Event{
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
	return event, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, events.ErrNotFound
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
	return event, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return events.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Search(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	var list []events.Event
	for _, event := range f.events {
		if event.State != events.StatePublished {
			continue
		}
		list = append(list, *event)
	}
	return list, nil
}

type fakeRegistrationRepo struct {
	byUser map[string]map[string]registrations.Registration
	events *fakeEventRepo
}

func newFakeRegistrationRepo(eventsRepo *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byUser: make(map[string]map[string]registrations.Registration),
		events: eventsRepo,
	}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg registrations.Registration) error {
	if _, ok := f.byUser[reg.UserID][reg.EventID]; ok {
		return registrations.ErrAlreadyRegistered
	}
	if f.byUser[reg.UserID] == nil {
		f.byUser[reg.UserID] = make(map[string]registrations.Registration)
	}
	f.byUser[reg.UserID][reg.EventID] = reg
	return nil
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	_, ok := f.byUser[userID][eventID]
	return ok, nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, userID, eventID string) error {
	if _, ok := f.byUser[userID][eventID]; !ok {
		return registrations.ErrNotRegistered
	}
	delete(f.byUser[userID], eventID)
	return nil
}

func (f *fakeRegistrationRepo) ListEventsByUser(ctx context.Context, userID string) ([]registrations.RegisteredEvent, error) {
	var list []registrations.RegisteredEvent
	for eventID := range f.byUser[userID] {
		event, ok := f.events.events[eventID]
		if !ok {
			continue
		}
		list = append(list, registrations.RegisteredEvent{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Date:        event.Date,
			City:        event.City,
			Address:     event.Address,
		})
	}
	return list, nil
}
