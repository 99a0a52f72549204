package model

import "time"

// カートの持ち主は user_id か guest_token のどちらか一方だけ。
// user_idごとに1つ、guest_tokenごとに1つ。
type Cart struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64    `gorm:"uniqueIndex" json:"user_id"`
	GuestToken *string   `gorm:"type:varchar(64);uniqueIndex" json:"guest_token"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
