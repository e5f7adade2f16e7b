package service

import (
	"context"
	"errors"

	"github.com/okian/postboard/internal/adapters/repository"
	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/logger"
	"github.com/okian/postboard/pkg/metrics"
)

// CreateUser registers a user with default settings (notifications off).
func (s *Service) CreateUser(ctx context.Context, userName string, displayName *string) (*model.User, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	if err := s.ensureNameFree(ctx, 0, userName); err != nil {
		return nil, err
	}

	u := model.NewUser(userName, displayName)
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.RecordUsernameConflict()
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	metrics.RecordUserCreated()
	s.logger.Info(ctx, "user created", logger.Uint("user_id", u.ID), logger.String("user_name", u.UserName))
	return u, nil
}

// Users lists every user with settings.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	return s.store.ListUsers(ctx)
}

// User returns a single user with settings.
func (s *Service) User(ctx context.Context, id uint) (*model.User, error) {
	if !s.Started() {
		return nil, ErrNotStarted
	}
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateUser applies patch to an existing user and returns the stored record.
// A user may keep its own username; taking one held by someone else fails
// with ErrUsernameTaken.
func (s *Service) UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	if _, err := s.User(ctx, id); err != nil {
		return nil, err
	}
	if patch.UserName != nil {
		if err := s.ensureNameFree(ctx, id, *patch.UserName); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateUser(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			metrics.RecordUsernameConflict()
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info(ctx, "user updated", logger.Uint("user_id", id))
	return s.User(ctx, id)
}

// DeleteUser removes an existing user and returns the record as it was.
func (s *Service) DeleteUser(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	metrics.RecordUserDeleted()
	s.logger.Info(ctx, "user deleted", logger.Uint("user_id", id))
	return u, nil
}

// UpdateUserSettings applies patch to the settings of an existing user.
func (s *Service) UpdateUserSettings(ctx context.Context, id uint, patch model.SettingsPatch) (*model.UserSettings, error) {
	u, err := s.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UserSettings == nil {
		return nil, ErrSettingsMissing
	}

	settings, err := s.store.UpdateSettings(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSettingsMissing
		}
		return nil, err
	}

	metrics.RecordSettingsUpdated()
	return settings, nil
}

// ensureNameFree fails with ErrUsernameTaken when userName belongs to a user other than self.
// self == 0 means no user is exempt.
func (s *Service) ensureNameFree(ctx context.Context, self uint, userName string) error {
	holder, err := s.store.UserByName(ctx, userName)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case holder.ID != self:
		metrics.RecordUsernameConflict()
		return ErrUsernameTaken
	}
	return nil
}
