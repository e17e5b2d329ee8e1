package domain

import (
	"context"
	"time"
)

// EventDateLayout is the only accepted wire format for event dates.
const EventDateLayout = "2006-01-02T15:04"

// Event represents a scheduled event owned by the user who created it.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(name string, date time.Time, location, description string, userID int64, createdAt time.Time) *Event {
	return &Event{
		Name:        name,
		Date:        date,
		Location:    location,
		Description: description,
		UserID:      userID,
		CreatedAt:   createdAt,
	}
}

// ParseEventDate parses s with EventDateLayout, returning ErrInvalidDate on mismatch.
func ParseEventDate(s string) (time.Time, error) {
	t, err := time.Parse(EventDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// EventPatch carries the fields of a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Name        *string
	Date        *time.Time
	Location    *string
	Description *string
}

// Apply copies the non-nil fields of p onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
}

// EventService defines event business logic. Mutations are owner-only.
type EventService interface {
	ListEvents(ctx context.Context, params ListParams) ([]*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent returns the event together with its RSVPs.
	GetEvent(ctx context.Context, id int64) (*Event, []*RSVP, error)
	UpdateEvent(ctx context.Context, id, actorID int64, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id, actorID int64) error
}
