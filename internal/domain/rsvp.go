package domain

import (
	"context"
	"time"
)

// Well-known RSVP statuses. Any other non-empty status up to MaxRSVPStatusLen is accepted.
const (
	RSVPGoing    = "going"
	RSVPNotGoing = "not_going"
	RSVPMaybe    = "maybe"

	MaxRSVPStatusLen = 20
)

// RSVP links a user to an event with a response status. A user holds at most one RSVP
// per event.
type RSVP struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	EventID   int64     `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Upsert inserts the RSVP or updates the status of the existing (user, event) row.
	// created reports whether a new row was inserted.
	Upsert(ctx context.Context, rsvp *RSVP) (created bool, err error)
	ListByEventID(ctx context.Context, eventID int64) ([]*RSVP, error)
	// ListEventsByUserID returns the events the user responded to, with their status.
	ListEventsByUserID(ctx context.Context, userID int64) ([]*ProfileEvent, error)
}

// RSVPService defines RSVP operations. Any authenticated user may respond to any event.
type RSVPService interface {
	// Respond records the user's status for the event. Returns (rsvp, created, err).
	Respond(ctx context.Context, eventID, userID int64, status string) (*RSVP, bool, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*RSVP, error)
}
