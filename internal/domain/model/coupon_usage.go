package model

import "time"

// クーポン利用の記録。チェックアウトのトランザクション内でのみ作成、変更しない。
// order_id / user_id は削除時にNULLになる弱い参照。
type CouponUsage struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID       int64     `gorm:"not null;index" json:"coupon_id"`
	OrderID        *int64    `gorm:"index" json:"order_id"`
	UserID         *int64    `json:"user_id"`
	DiscountAmount float64   `gorm:"type:decimal(10,2);not null" json:"discount_amount"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
