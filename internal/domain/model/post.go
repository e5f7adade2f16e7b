package model

import "time"

// MaxTitleLength bounds post and group post titles, in characters.
const MaxTitleLength = 200

// Post is authored by exactly one user.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GroupPost is shared among several users.
type GroupPost struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Title       string            `json:"title" gorm:"size:200;not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time         `json:"createdAt"`
	Users       []UserOnGroupPost `json:"users" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// UserOnGroupPost links a user to a group post.
type UserOnGroupPost struct {
	UserID      uint  `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	GroupPostID uint  `json:"groupPostId" gorm:"primaryKey;autoIncrement:false"`
	User        *User `json:"user,omitempty"`
}

// NewGroupPost builds a group post linked to every id in userIDs.
// Repeated ids are linked once, keeping first-seen order.
func NewGroupPost(title, description string, userIDs []uint) *GroupPost {
	gp := &GroupPost{
		Title:       title,
		Description: description,
		Users:       make([]UserOnGroupPost, 0, len(userIDs)),
	}
	seen := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		gp.Users = append(gp.Users, UserOnGroupPost{UserID: id})
	}
	return gp
}

// UserIDs returns the ids of the users linked to the group post.
func (g *GroupPost) UserIDs() []uint {
	ids := make([]uint, 0, len(g.Users))
	for _, u := range g.Users {
		ids = append(ids, u.UserID)
	}
	return ids
}
