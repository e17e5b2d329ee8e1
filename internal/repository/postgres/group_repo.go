package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

const groupColumns = `id, name, description, user_id, created_at`

type groupRepository struct {
	DB DBTX
}

func NewGroupRepository(db DBTX) domain.GroupRepository {
	return &groupRepository{DB: db}
}

func scanGroup(s rowScanner) (*domain.Group, error) {
	g := &domain.Group{}
	if err := s.Scan(&g.ID, &g.Name, &g.Description, &g.UserID, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) queryGroups(ctx context.Context, query string, args ...any) ([]*domain.Group, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]*domain.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) Create(ctx context.Context, g *domain.Group) error {
	query := `
		INSERT INTO groups (name, description, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, g.Name, g.Description, g.UserID, g.CreatedAt).Scan(&g.ID)
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	g, err := scanGroup(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) List(ctx context.Context, params domain.ListParams) ([]*domain.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE name ILIKE $1
		ORDER BY id
		LIMIT $2
	`
	return r.queryGroups(ctx, query, likePattern(params.Query), params.Limit)
}

// Delete removes the group; memberships and invitations cascade.
func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(result, domain.ErrNotFound)
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	query := `
		INSERT INTO group_members (user_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, group_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID, groupID)
	return err
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, groupID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID int64) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.username
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.UserSummary, 0)
	for rows.Next() {
		m := &domain.UserSummary{}
		if err := rows.Scan(&m.ID, &m.Username); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *groupRepository) ListByMemberID(ctx context.Context, userID int64) ([]*domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.user_id, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.id
	`
	return r.queryGroups(ctx, query, userID)
}
