// Package repository defines the persistence contracts for users and posts
// and their GORM-backed implementation.
package repository

import (
	"context"

	"github.com/okian/postboard/internal/domain/model"
)

// UserStore provides read/write access to users and their settings.
type UserStore interface {
	// CreateUser inserts u together with any nested settings and fills in its id.
	// Returns ErrConflict if the username is already in use.
	CreateUser(ctx context.Context, u *model.User) error

	// ListUsers returns every user with settings, ordered by id.
	ListUsers(ctx context.Context) ([]model.User, error)

	// UserByID returns the user with settings.
	// Returns ErrNotFound if the user is unknown.
	UserByID(ctx context.Context, id uint) (*model.User, error)

	// UserByName returns the user holding userName.
	// Returns ErrNotFound if nobody holds it.
	UserByName(ctx context.Context, userName string) (*model.User, error)

	// UpdateUser writes the non-nil fields of patch.
	UpdateUser(ctx context.Context, id uint, patch model.UserPatch) error

	// DeleteUser removes the user; settings, posts and group links cascade.
	DeleteUser(ctx context.Context, id uint) error

	// UpdateSettings writes the non-nil fields of patch and returns the result.
	// Returns ErrNotFound if the user has no settings row.
	UpdateSettings(ctx context.Context, userID uint, patch model.SettingsPatch) (*model.UserSettings, error)
}

// PostStore provides write access to posts and read access to group posts.
type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) error
	CreateGroupPost(ctx context.Context, gp *model.GroupPost) error

	// ListGroupPosts returns every group post with linked users, ordered by id.
	ListGroupPosts(ctx context.Context) ([]model.GroupPost, error)
}

// Store bundles everything the service needs from persistence.
type Store interface {
	UserStore
	PostStore

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
