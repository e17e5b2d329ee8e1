package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gatherly/internal/domain"
)

type groupService struct {
	tx             domain.TxManager
	contextTimeout time.Duration
	now            func() time.Time
}

func NewGroupService(tx domain.TxManager, timeout time.Duration) domain.GroupService {
	return &groupService{
		tx:             tx,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *groupService) ListGroups(ctx context.Context, params domain.ListParams) ([]*domain.Group, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var groups []*domain.Group
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if groups, err = repos.Groups.List(ctx, params.Normalized()); err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return groups, nil
}

func (s *groupService) CreateGroup(ctx context.Context, group *domain.Group) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if group.UserID == 0 {
		return fmt.Errorf("group owner is required")
	}
	group.Name = strings.TrimSpace(group.Name)
	if err := missingFields("name", group.Name, "description", group.Description); err != nil {
		return err
	}
	group.CreatedAt = s.now().UTC()

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if err := repos.Groups.Create(ctx, group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		if err := repos.Groups.AddMember(ctx, group.ID, group.UserID); err != nil {
			return fmt.Errorf("add owner to group: %w", err)
		}
		return nil
	})
}

func (s *groupService) GetGroup(ctx context.Context, id int64) (*domain.Group, []*domain.UserSummary, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		group   *domain.Group
		members []*domain.UserSummary
	)
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if group, err = getGroup(ctx, repos, id); err != nil {
			return err
		}
		if members, err = repos.Groups.ListMembers(ctx, id); err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if members == nil {
		members = []*domain.UserSummary{}
	}
	return group, members, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, id, actorID int64) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := loadOwnedGroup(ctx, repos, id, actorID); err != nil {
			return err
		}
		if err := repos.Groups.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}

func getGroup(ctx context.Context, repos domain.Repositories, id int64) (*domain.Group, error) {
	group, err := repos.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// loadOwnedGroup fetches the group and checks that actorID owns it.
func loadOwnedGroup(ctx context.Context, repos domain.Repositories, id, actorID int64) (*domain.Group, error) {
	group, err := getGroup(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if group.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	return group, nil
}
