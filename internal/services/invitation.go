package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

type invitationService struct {
	tx             domain.TxManager
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInvitationService creates an InvitationService. emailService may be nil, in which
// case no invitation emails are sent.
func NewInvitationService(tx domain.TxManager, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invitationService{
		tx:             tx,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *invitationService) Invite(ctx context.Context, groupID, actorID, invitedUserID int64) (*domain.GroupInvitation, error) {
	txCtx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		inv   *domain.GroupInvitation
		email *domain.GroupInvitationEmailData
	)
	err := s.tx.WithinTx(txCtx, func(repos domain.Repositories) error {
		group, err := loadOwnedGroup(txCtx, repos, groupID, actorID)
		if err != nil {
			return err
		}
		if invitedUserID <= 0 {
			return fmt.Errorf("%w: missing required fields: invited_user_id", domain.ErrInvalidInput)
		}
		invitee, err := repos.Users.GetByID(txCtx, invitedUserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("get invitee: %w", err)
		}
		member, err := repos.Groups.IsMember(txCtx, groupID, invitedUserID)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if member {
			return domain.ErrAlreadyMember
		}
		inviter, err := repos.Users.GetByID(txCtx, actorID)
		if err != nil {
			return fmt.Errorf("get inviter: %w", err)
		}

		inv = &domain.GroupInvitation{
			GroupID:         groupID,
			GroupName:       group.Name,
			UserID:          actorID,
			InviterUsername: inviter.Username,
			InvitedUserID:   invitedUserID,
			Status:          domain.InvitationPending,
			CreatedAt:       s.now().UTC(),
		}
		if err := repos.Invitations.Create(txCtx, inv); err != nil {
			if errors.Is(err, domain.ErrAlreadyInvited) {
				return err
			}
			return fmt.Errorf("create invitation: %w", err)
		}
		email = &domain.GroupInvitationEmailData{
			Email:           invitee.Email,
			InviteeUsername: invitee.Username,
			InviterUsername: inviter.Username,
			GroupName:       group.Name,
			InvitationID:    inv.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, email)
	return inv, nil
}

// notify sends the invitation email. Delivery is best effort: the invitation is already
// committed, so failures are only logged.
func (s *invitationService) notify(ctx context.Context, data *domain.GroupInvitationEmailData) {
	if s.emailService == nil || data == nil {
		return
	}
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.emailService.SendGroupInvitation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "group invitation email failed",
			"invitation_id", data.InvitationID,
			"err", err,
		)
	}
}

func (s *invitationService) ListPending(ctx context.Context, userID int64) ([]*domain.GroupInvitation, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var invs []*domain.GroupInvitation
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if invs, err = repos.Invitations.ListPendingByInvitee(ctx, userID); err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []*domain.GroupInvitation{}
	}
	return invs, nil
}

func (s *invitationService) ListForGroup(ctx context.Context, groupID, actorID int64) ([]*domain.GroupInvitation, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var invs []*domain.GroupInvitation
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		if _, err := loadOwnedGroup(ctx, repos, groupID, actorID); err != nil {
			return err
		}
		var err error
		if invs, err = repos.Invitations.ListByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []*domain.GroupInvitation{}
	}
	return invs, nil
}

func (s *invitationService) Accept(ctx context.Context, id, actorID int64) (*domain.GroupInvitation, error) {
	return s.resolve(ctx, id, actorID, domain.InvitationAccepted)
}

func (s *invitationService) Deny(ctx context.Context, id, actorID int64) (*domain.GroupInvitation, error) {
	return s.resolve(ctx, id, actorID, domain.InvitationDenied)
}

// resolve moves a pending invitation to target. Repeating the transition that already
// happened is a no-op; moving between the two terminal states is rejected.
func (s *invitationService) resolve(ctx context.Context, id, actorID int64, target string) (*domain.GroupInvitation, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var inv *domain.GroupInvitation
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if inv, err = repos.Invitations.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("get invitation: %w", err)
		}
		if inv.InvitedUserID != actorID {
			return domain.ErrForbidden
		}
		switch inv.Status {
		case target:
			return nil
		case domain.InvitationPending:
		default:
			return domain.ErrInvalidTransition
		}

		if err := repos.Invitations.UpdateStatus(ctx, id, target); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		if target == domain.InvitationAccepted {
			if err := repos.Groups.AddMember(ctx, inv.GroupID, actorID); err != nil {
				return fmt.Errorf("add member: %w", err)
			}
		}
		inv.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
