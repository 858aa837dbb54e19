package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	RedditLink  string `gorm:"size:255;index"`
	Slug        string `gorm:"size:64;index"`
	CreatorID   uint64 `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Moderator 社区管理员，随社区级联删除
type Moderator struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_moderator"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_moderator"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership 用户-社区参与关系，除 (community_id, user_id) 外无负载
type Membership struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_membership"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_membership"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
