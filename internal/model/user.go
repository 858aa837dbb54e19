package model

import "time"

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	DeviceID    string `gorm:"size:64;not null;index"`
	Username    string `gorm:"size:32"`
	FirstName   string `gorm:"size:32"`
	LastName    string `gorm:"size:32"`
	PhoneNumber string `gorm:"size:32"`
	Email       string `gorm:"size:64"`
	Admin       bool   `gorm:"not null;default:false"`
	Enterp      bool   `gorm:"not null;default:false"` // 是否允许拥有商家
	Suspended   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Credential 登录凭证，以设备号为主键；匿名设备用户可以没有凭证
type Credential struct {
	DeviceID     string `gorm:"primaryKey;size:64"`
	UserID       uint64 `gorm:"not null;uniqueIndex"`
	Username     string `gorm:"size:32;index"`
	PasswordHash string `gorm:"size:255;not null"`
	Email        string `gorm:"size:64;index"`
	Phone        string `gorm:"size:32;index"`
}

func (Credential) TableName() string { return "auth_users" }
