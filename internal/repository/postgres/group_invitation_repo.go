package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

// invitationSelect joins the group name and inviter username onto each invitation.
const invitationSelect = `
	SELECT i.id, i.group_id, g.name, i.user_id, u.username, i.invited_user_id, i.status, i.created_at
	FROM group_invitations i
	JOIN groups g ON g.id = i.group_id
	JOIN users u ON u.id = i.user_id
`

type groupInvitationRepository struct {
	DB DBTX
}

func NewGroupInvitationRepository(db DBTX) domain.GroupInvitationRepository {
	return &groupInvitationRepository{DB: db}
}

func scanInvitation(s rowScanner) (*domain.GroupInvitation, error) {
	inv := &domain.GroupInvitation{}
	err := s.Scan(&inv.ID, &inv.GroupID, &inv.GroupName, &inv.UserID, &inv.InviterUsername,
		&inv.InvitedUserID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *groupInvitationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.GroupInvitation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.GroupInvitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *groupInvitationRepository) Create(ctx context.Context, inv *domain.GroupInvitation) error {
	query := `
		INSERT INTO group_invitations (group_id, user_id, invited_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.GroupID, inv.UserID, inv.InvitedUserID, inv.Status, inv.CreatedAt).Scan(&inv.ID)
	if _, ok := isUniqueViolation(err); ok {
		return domain.ErrAlreadyInvited
	}
	return err
}

func (r *groupInvitationRepository) GetByID(ctx context.Context, id int64) (*domain.GroupInvitation, error) {
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, invitationSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *groupInvitationRepository) ListPendingByInvitee(ctx context.Context, userID int64) ([]*domain.GroupInvitation, error) {
	query := invitationSelect + ` WHERE i.invited_user_id = $1 AND i.status = $2 ORDER BY i.id`
	return r.list(ctx, query, userID, domain.InvitationPending)
}

func (r *groupInvitationRepository) ListByGroupID(ctx context.Context, groupID int64) ([]*domain.GroupInvitation, error) {
	return r.list(ctx, invitationSelect+` WHERE i.group_id = $1 ORDER BY i.id`, groupID)
}

func (r *groupInvitationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE group_invitations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotFound)
}
