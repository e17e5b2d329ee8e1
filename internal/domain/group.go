package domain

import (
	"context"
	"time"
)

// Group is a named set of member users, owned by its creator.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewGroup returns a new Group. ID is set by the repository on create.
func NewGroup(name, description string, userID int64, createdAt time.Time) *Group {
	return &Group{
		Name:        name,
		Description: description,
		UserID:      userID,
		CreatedAt:   createdAt,
	}
}

// GroupRepository defines storage operations for groups and their membership.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context, params ListParams) ([]*Group, error)
	Delete(ctx context.Context, id int64) error
	// AddMember is idempotent: adding an existing member is a no-op.
	AddMember(ctx context.Context, groupID, userID int64) error
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]*UserSummary, error)
	ListByMemberID(ctx context.Context, userID int64) ([]*Group, error)
}

// GroupService defines group operations. Deletion is owner-only.
type GroupService interface {
	ListGroups(ctx context.Context, params ListParams) ([]*Group, error)
	// CreateGroup persists the group and adds its owner to the member set.
	CreateGroup(ctx context.Context, group *Group) error
	GetGroup(ctx context.Context, id int64) (*Group, []*UserSummary, error)
	DeleteGroup(ctx context.Context, id, actorID int64) error
}
