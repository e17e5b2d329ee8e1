package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

const eventColumns = `id, name, date, location, description, user_id, created_at`

type eventRepository struct {
	DB DBTX
}

func NewEventRepository(db DBTX) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	if err := s.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description, &e.UserID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, date, location, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Name, e.Date, e.Location, e.Description, e.UserID, e.CreatedAt).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.ListParams) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE name ILIKE $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, likePattern(params.Query), params.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes every mutable column of e. Callers apply partial changes to a loaded
// row first, so the last writer wins.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, date = $2, location = $3, description = $4
		WHERE id = $5
	`
	result, err := r.DB.ExecContext(ctx, query, e.Name, e.Date, e.Location, e.Description, e.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotFound)
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotFound)
}
