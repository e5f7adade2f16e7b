package service

import (
	"context"

	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/logger"
	"github.com/okian/postboard/pkg/metrics"
)

// CreatePost stores a post owned by userID.
func (s *Service) CreatePost(ctx context.Context, userID uint, title, description string) (*model.Post, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	p := &model.Post{Title: title, Description: description, UserID: userID}
	if err := s.store.CreatePost(ctx, p); err != nil {
		s.logger.Warn(ctx, "create post failed", logger.Uint("user_id", userID), logger.Error(err))
		return nil, err
	}

	metrics.RecordPostCreated("single")
	return p, nil
}

// CreateGroupPost stores a post shared by every user in userIDs.
func (s *Service) CreateGroupPost(ctx context.Context, userIDs []uint, title, description string) (*model.GroupPost, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	gp := model.NewGroupPost(title, description, userIDs)
	if err := s.store.CreateGroupPost(ctx, gp); err != nil {
		s.logger.Warn(ctx, "create group post failed", logger.Any("user_ids", userIDs), logger.Error(err))
		return nil, err
	}

	metrics.RecordPostCreated("group")
	return gp, nil
}

// GroupPosts lists every group post with its users.
func (s *Service) GroupPosts(ctx context.Context) ([]model.GroupPost, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	return s.store.ListGroupPosts(ctx)
}
