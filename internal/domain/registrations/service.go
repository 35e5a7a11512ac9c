package registrations

import (
	"context"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
)

type Service struct {
	repo   Repository
	events events.Repository
}

func NewService(repo Repository, eventsRepo events.Repository) *Service {
	return &Service{repo: repo, events: eventsRepo}
}

// Register signs the caller up for an event. maxCapacity is advisory and
// deliberately not checked here.
func (s *Service) Register(ctx context.Context, actor auth.Actor, eventID string) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}

	// Friendly pre-check; the unique constraint is the real guard.
	exists, err := s.repo.Exists(ctx, actor.UserID, eventID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyRegistered
	}

	id, err := ids.NewULID()
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, Registration{
		ID:      id,
		UserID:  actor.UserID,
		EventID: eventID,
	})
}

func (s *Service) Unregister(ctx context.Context, actor auth.Actor, eventID string) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, actor.UserID, eventID)
}

// ListMine returns a summary of every event the caller is registered to,
// in no guaranteed order.
func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]RegisteredEvent, error) {
	return s.repo.ListEventsByUser(ctx, actor.UserID)
}
