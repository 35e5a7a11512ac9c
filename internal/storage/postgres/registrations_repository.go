package postgres

import (
	"context"
	"fmt"

	"github.com/gatherly/server/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

func (r *RegistrationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *RegistrationRepository) Create(ctx context.Context, reg registrations.Registration) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO event_registrations (id, user_id, event_id)
VALUES ($1, $2, $3)`,
		reg.ID, reg.UserID, reg.EventID)
	// UNIQUE (user_id, event_id) closes the check-then-insert race: the
	// loser of a concurrent duplicate lands here.
	if isUniqueViolation(err) {
		return registrations.ErrAlreadyRegistered
	}
	if err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM event_registrations WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID string) error {
	tag, err := r.queryer().Exec(ctx, `
DELETE FROM event_registrations WHERE user_id = $1 AND event_id = $2`,
		userID, eventID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotRegistered
	}
	return nil
}

func (r *RegistrationRepository) ListEventsByUser(ctx context.Context, userID string) ([]registrations.RegisteredEvent, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT e.id, e.title, e.description, e.date, e.city, e.address
  FROM event_registrations r
  JOIN events e ON e.id = r.event_id
 WHERE r.user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	defer rows.Close()

	var out []registrations.RegisteredEvent
	for rows.Next() {
		var item registrations.RegisteredEvent
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Date, &item.City, &item.Address); err != nil {
			return nil, fmt.Errorf("scan registered event: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registered events: %w", err)
	}
	return out, nil
}
