package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

var _ events.Repository = (*EventRepository)(nil)

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const eventColumns = `id, title, description, city, address, date, price, state, max_capacity, image, organizer_id, created_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.City,
		&event.Address,
		&event.Date,
		&event.Price,
		&event.State,
		&event.MaxCapacity,
		&event.Image,
		&event.OrganizerID,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func (r *EventRepository) ListByState(ctx context.Context, state string) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+` FROM events WHERE state = $1 ORDER BY id`, state)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+` FROM events WHERE organizer_id = $1 ORDER BY id`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO events (id, title, description, city, address, date, price, state, max_capacity, image, organizer_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+eventColumns,
		params.ID,
		params.Title,
		params.Description,
		params.City,
		params.Address,
		params.Date,
		params.Price,
		params.State,
		params.MaxCapacity,
		params.Image,
		params.OrganizerID,
	)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update overwrites exactly the fields present in params; the API cannot
// set a nullable column back to NULL, so COALESCE keeps absent fields
// untouched in a single atomic statement.
func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
UPDATE events SET
	title        = COALESCE($2, title),
	description  = COALESCE($3, description),
	city         = COALESCE($4, city),
	address      = COALESCE($5, address),
	date         = COALESCE($6, date),
	price        = COALESCE($7, price),
	state        = COALESCE($8, state),
	max_capacity = COALESCE($9, max_capacity),
	image        = COALESCE($10, image)
WHERE id = $1
RETURNING `+eventColumns,
		id,
		params.Title,
		params.Description,
		params.City,
		params.Address,
		params.Date,
		params.Price,
		params.State,
		params.MaxCapacity,
		params.Image,
	)

	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	// Registrations are removed by ON DELETE CASCADE.
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// Search restricts to published events unconditionally; the state filter
// can only narrow within that base set. City matching is a case-sensitive
// substring match.
func (r *EventRepository) Search(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE state = 'published'
   AND ($1 = '' OR city LIKE '%' || $1 || '%')
   AND ($2 = '' OR state = $2)
   AND ($3::timestamptz IS NULL OR date >= $3::timestamptz)
   AND ($4::timestamptz IS NULL OR date <= $4::timestamptz)
 ORDER BY id`,
		filters.City,
		filters.State,
		filters.DateFrom,
		filters.DateTo,
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return collectEvents(rows)
}
