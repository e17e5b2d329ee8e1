package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gatherly/internal/domain"
)

type eventService struct {
	tx             domain.TxManager
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(tx domain.TxManager, timeout time.Duration) domain.EventService {
	return &eventService{
		tx:             tx,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) ListEvents(ctx context.Context, params domain.ListParams) ([]*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var events []*domain.Event
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if events, err = repos.Events.List(ctx, params.Normalized()); err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.UserID == 0 {
		return fmt.Errorf("event owner is required")
	}
	event.Name = strings.TrimSpace(event.Name)
	event.Location = strings.TrimSpace(event.Location)
	if err := validateEvent(event); err != nil {
		return err
	}
	event.CreatedAt = s.now().UTC()

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Events.Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
}

func validateEvent(e *domain.Event) error {
	date := ""
	if !e.Date.IsZero() {
		date = e.Date.Format(domain.EventDateLayout)
	}
	return missingFields("name", e.Name, "date", date, "location", e.Location, "description", e.Description)
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, []*domain.RSVP, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		event *domain.Event
		rsvps []*domain.RSVP
	)
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if event, err = repos.Events.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("get event: %w", err)
		}
		if rsvps, err = repos.RSVPs.ListByEventID(ctx, id); err != nil {
			return fmt.Errorf("list rsvps: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	return event, rsvps, nil
}

// loadOwnedEvent fetches the event and checks that actorID owns it.
func loadOwnedEvent(ctx context.Context, repos domain.Repositories, id, actorID int64) (*domain.Event, error) {
	event, err := repos.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, actorID int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var event *domain.Event
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if event, err = loadOwnedEvent(ctx, repos, id, actorID); err != nil {
			return err
		}
		patch.Apply(event)
		event.Name = strings.TrimSpace(event.Name)
		event.Location = strings.TrimSpace(event.Location)
		if err := validateEvent(event); err != nil {
			return err
		}
		if err := repos.Events.Update(ctx, event); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, actorID int64) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := loadOwnedEvent(ctx, repos, id, actorID); err != nil {
			return err
		}
		if err := repos.Events.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}
