package model

import "time"

type Business struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_business"` // owner
	Name      string    `gorm:"size:64;not null;uniqueIndex:uk_business"`
	Bio       string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_business_created,sort:desc"`
	UpdatedAt time.Time
}

// Affiliation 商家-社区多对多关系
type Affiliation struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_affiliation"`
	BusinessID  uint64 `gorm:"not null;index;uniqueIndex:uk_affiliation"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Verification 用户对商家的认证记录，type 为短码：use / coop / seen
type Verification struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;index"` // author
	BusinessID uint64 `gorm:"not null;index"`
	Type       string `gorm:"size:5;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VerifyOutbox 认证事件表，随认证事务落库，由 relay 异步投递
type VerifyOutbox struct {
	ID         uint64 `gorm:"primaryKey"`
	EventType  string `gorm:"size:16;not null"`
	BusinessID uint64 `gorm:"not null"`
	UserID     uint64 `gorm:"not null"`
	Payload    string `gorm:"type:json;not null"`
	Status     int8   `gorm:"not null;default:0"` // 0=pending,1=sent,2=failed
	Retry      int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (VerifyOutbox) TableName() string { return "verify_outbox" }
