// Package model contains domain models passed between layers.
// The structs double as GORM entities; JSON tags define the API shape.
package model

import "time"

// User is a registered account.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserName    string    `json:"userName" gorm:"size:255;uniqueIndex;not null"`
	DisplayName *string   `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	UserSettings *UserSettings     `json:"userSettings,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Posts        []Post            `json:"posts,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupPosts   []UserOnGroupPost `json:"groupPosts,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// UserSettings holds per-user preferences. Exactly one row per user.
type UserSettings struct {
	ID              uint `json:"-" gorm:"primaryKey"`
	NotificationsOn bool `json:"notificationsOn" gorm:"not null;default:false"`
	UserID          uint `json:"userId" gorm:"uniqueIndex;not null"`
}

// NewUser builds a user together with its default settings so both rows
// are written by a single Create.
func NewUser(userName string, displayName *string) *User {
	return &User{
		UserName:     userName,
		DisplayName:  displayName,
		UserSettings: &UserSettings{NotificationsOn: false},
	}
}

// UserPatch carries the optional fields of a user update. Nil means "leave as is".
type UserPatch struct {
	UserName    *string
	DisplayName *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.UserName == nil && p.DisplayName == nil
}

// Columns returns the column/value pairs to update.
func (p UserPatch) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if p.UserName != nil {
		cols["user_name"] = *p.UserName
	}
	if p.DisplayName != nil {
		cols["display_name"] = *p.DisplayName
	}
	return cols
}

// SettingsPatch carries the optional fields of a settings update.
type SettingsPatch struct {
	NotificationsOn *bool
}
