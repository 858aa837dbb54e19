package model

import "time"

type Post struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_post_comm_time,priority:1"`
	UserID      uint64    `gorm:"not null;index"` // author
	Name        string    `gorm:"size:200;not null"`
	Contents    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index:idx_post_comm_time,priority:2,sort:desc"`
	UpdatedAt   time.Time
}

// Vote 用户对帖子的付费意愿投票，允许同一用户重复投票
type Vote struct {
	ID        uint64  `gorm:"primaryKey"`
	PostID    uint64  `gorm:"not null;index"`
	VoterID   uint64  `gorm:"not null;index"`
	WouldPay  float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
