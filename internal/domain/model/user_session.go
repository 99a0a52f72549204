package model

import "time"

// Bearerトークン1つにつき1行。期限切れは認証として扱わない。
type UserSession struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	SessionToken string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (s *UserSession) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
