package domain

import (
	"context"
	"time"
)

// Invitation statuses. pending is the only non-terminal state.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDenied   = "denied"
)

// GroupInvitation is an invitation from a group owner to another user.
type GroupInvitation struct {
	ID              int64     `json:"id"`
	GroupID         int64     `json:"group_id"`
	GroupName       string    `json:"group_name"`
	UserID          int64     `json:"user_id"`
	InviterUsername string    `json:"inviter_username"`
	InvitedUserID   int64     `json:"invited_user_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// GroupInvitationRepository defines storage operations for group invitations.
type GroupInvitationRepository interface {
	Create(ctx context.Context, inv *GroupInvitation) error
	GetByID(ctx context.Context, id int64) (*GroupInvitation, error)
	ListPendingByInvitee(ctx context.Context, userID int64) ([]*GroupInvitation, error)
	ListByGroupID(ctx context.Context, groupID int64) ([]*GroupInvitation, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// InvitationService drives the pending -> accepted|denied state machine.
type InvitationService interface {
	Invite(ctx context.Context, groupID, actorID, invitedUserID int64) (*GroupInvitation, error)
	ListPending(ctx context.Context, userID int64) ([]*GroupInvitation, error)
	ListForGroup(ctx context.Context, groupID, actorID int64) ([]*GroupInvitation, error)
	Accept(ctx context.Context, id, actorID int64) (*GroupInvitation, error)
	Deny(ctx context.Context, id, actorID int64) (*GroupInvitation, error)
}
