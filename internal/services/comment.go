package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gatherly/internal/domain"
)

type commentService struct {
	tx             domain.TxManager
	contextTimeout time.Duration
	now            func() time.Time
}

func NewCommentService(tx domain.TxManager, timeout time.Duration) domain.CommentService {
	return &commentService{tx: tx, contextTimeout: timeout, now: time.Now}
}

func (s *commentService) Create(ctx context.Context, eventID, userID int64, content string) (*domain.Comment, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	content = strings.TrimSpace(content)
	if err := missingFields("content", content); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Content:   content,
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: s.now().UTC(),
	}
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
		comment.Username = user.Username
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	var comments []*domain.Comment
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		var err error
		if comments, err = repos.Comments.ListByEventID(ctx, eventID); err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}
