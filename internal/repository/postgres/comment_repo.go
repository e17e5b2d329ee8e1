package postgres

import (
	"context"

	"gatherly/internal/domain"
)

type commentRepository struct {
	DB DBTX
}

func NewCommentRepository(db DBTX) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (content, user_id, event_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.Content, c.UserID, c.EventID, c.CreatedAt).Scan(&c.ID)
}

func (r *commentRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	query := `
		SELECT c.id, c.content, c.user_id, u.username, c.event_id, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c := &domain.Comment{}
		if err := rows.Scan(&c.ID, &c.Content, &c.UserID, &c.Username, &c.EventID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
