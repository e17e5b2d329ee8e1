package domain

import (
	"context"
	"time"
)

// Comment is free-text content left by a user on an event.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	EventID   int64     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByEventID(ctx context.Context, eventID int64) ([]*Comment, error)
}

// CommentService defines comment operations.
type CommentService interface {
	Create(ctx context.Context, eventID, userID int64, content string) (*Comment, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Comment, error)
}
