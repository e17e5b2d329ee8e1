package postgres

import (
	"context"

	"gatherly/internal/domain"
)

type rsvpRepository struct {
	DB DBTX
}

func NewRSVPRepository(db DBTX) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

// Upsert relies on the (user_id, event_id) unique constraint. xmax is zero only for a
// freshly inserted tuple, which tells inserts and updates apart.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	query := `
		INSERT INTO rsvps (user_id, event_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, event_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.DB.QueryRowContext(ctx, query, rsvp.UserID, rsvp.EventID, rsvp.Status, rsvp.CreatedAt).
		Scan(&rsvp.ID, &rsvp.CreatedAt, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	query := `
		SELECT r.id, r.user_id, u.username, r.event_id, r.status, r.created_at
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		v := &domain.RSVP{}
		if err := rows.Scan(&v.ID, &v.UserID, &v.Username, &v.EventID, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, v)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) ListEventsByUserID(ctx context.Context, userID int64) ([]*domain.ProfileEvent, error) {
	query := `
		SELECT e.id, e.name, e.date, e.location, e.description, e.user_id, e.created_at, r.status
		FROM rsvps r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.ProfileEvent, 0)
	for rows.Next() {
		e := &domain.Event{}
		pe := &domain.ProfileEvent{Event: e}
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Description, &e.UserID, &e.CreatedAt, &pe.RSVPStatus); err != nil {
			return nil, err
		}
		out = append(out, pe)
	}
	return out, rows.Err()
}
