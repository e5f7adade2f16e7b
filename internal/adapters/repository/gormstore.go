package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/metrics"
	"gorm.io/gorm"
)

// GormStore implements Store on top of a GORM handle.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an open database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// observe records latency and failures for op and classifies err.
func observe(op string, start time.Time, err error) error {
	metrics.RecordRepositoryQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordRepositoryError(op)
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(u).Error
	return observe("user.create", start, err)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	users := make([]model.User, 0)
	err := s.db.WithContext(ctx).Preload("UserSettings").Order("id").Find(&users).Error
	if err := observe("user.list", start, err); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*model.User, error) {
	start := time.Now()
	var u model.User
	err := s.db.WithContext(ctx).Preload("UserSettings").First(&u, id).Error
	if err := observe("user.by_id", start, err); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) UserByName(ctx context.Context, userName string) (*model.User, error) {
	start := time.Now()
	var u model.User
	err := s.db.WithContext(ctx).Where("user_name = ?", userName).First(&u).Error
	if err := observe("user.by_name", start, err); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, patch model.UserPatch) error {
	if patch.Empty() {
		return nil
	}
	start := time.Now()
	res := s.db.WithContext(ctx).Model(&model.User{ID: id}).Updates(patch.Columns())
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
	}
	return observe("user.update", start, err)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	start := time.Now()
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	err := res.Error
	if err == nil && res.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
	}
	return observe("user.delete", start, err)
}

func (s *GormStore) UpdateSettings(ctx context.Context, userID uint, patch model.SettingsPatch) (*model.UserSettings, error) {
	start := time.Now()
	db := s.db.WithContext(ctx)

	var settings model.UserSettings
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, observe("settings.update", start, err)
	}
	if patch.NotificationsOn != nil {
		err := db.Model(&settings).Update("notifications_on", *patch.NotificationsOn).Error
		if err != nil {
			return nil, observe("settings.update", start, err)
		}
		settings.NotificationsOn = *patch.NotificationsOn
	}
	return &settings, observe("settings.update", start, nil)
}

func (s *GormStore) CreatePost(ctx context.Context, p *model.Post) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(p).Error
	return observe("post.create", start, err)
}

func (s *GormStore) CreateGroupPost(ctx context.Context, gp *model.GroupPost) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(gp).Error
	return observe("group_post.create", start, err)
}

func (s *GormStore) ListGroupPosts(ctx context.Context) ([]model.GroupPost, error) {
	start := time.Now()
	posts := make([]model.GroupPost, 0)
	err := s.db.WithContext(ctx).Preload("Users.User").Order("id").Find(&posts).Error
	if err := observe("group_post.list", start, err); err != nil {
		return nil, err
	}
	return posts, nil
}

// Ping checks the connection pool.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
