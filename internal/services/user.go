package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type userService struct {
	tx             domain.TxManager
	contextTimeout time.Duration
}

// NewUserService creates a UserService.
func NewUserService(tx domain.TxManager, timeout time.Duration) domain.UserService {
	return &userService{tx: tx, contextTimeout: timeout}
}

func (s *userService) List(ctx context.Context, params domain.ListParams) ([]*domain.User, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var users []*domain.User
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		users, err = repos.Users.List(ctx, params.Normalized())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile := &domain.Profile{}
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("get user: %w", err)
		}
		profile.User = user

		if profile.Groups, err = repos.Groups.ListByMemberID(ctx, userID); err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		if profile.Events, err = repos.RSVPs.ListEventsByUserID(ctx, userID); err != nil {
			return fmt.Errorf("list rsvp events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if profile.Groups == nil {
		profile.Groups = []*domain.Group{}
	}
	if profile.Events == nil {
		profile.Events = []*domain.ProfileEvent{}
	}
	return profile, nil
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Users.Delete(ctx, userID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
