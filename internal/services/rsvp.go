package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gatherly/internal/domain"
)

type rsvpService struct {
	tx             domain.TxManager
	contextTimeout time.Duration
	now            func() time.Time
}

func NewRSVPService(tx domain.TxManager, timeout time.Duration) domain.RSVPService {
	return &rsvpService{tx: tx, contextTimeout: timeout, now: time.Now}
}

func (s *rsvpService) Respond(ctx context.Context, eventID, userID int64, status string) (*domain.RSVP, bool, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	status = strings.TrimSpace(status)
	var missing []string
	if eventID <= 0 {
		missing = append(missing, "event_id")
	}
	if status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, false, fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if utf8.RuneCountInString(status) > domain.MaxRSVPStatusLen {
		return nil, false, fmt.Errorf("%w: status must be at most %d characters", domain.ErrInvalidInput, domain.MaxRSVPStatusLen)
	}

	rsvp := &domain.RSVP{
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		CreatedAt: s.now().UTC(),
	}
	var created bool
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := repos.Events.GetByID(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("get event: %w", err)
		}
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		rsvp.Username = user.Username
		if created, err = repos.RSVPs.Upsert(ctx, rsvp); err != nil {
			return fmt.Errorf("save rsvp: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rsvp, created, nil
}

func (s *rsvpService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.RSVP, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var rsvps []*domain.RSVP
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if rsvps, err = repos.RSVPs.ListByEventID(ctx, eventID); err != nil {
			return fmt.Errorf("list rsvps: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	return rsvps, nil
}
