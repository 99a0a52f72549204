package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// クーポン。codeは大文字で保存する。
// usage_count が usage_limit に達したら is_active を落とす。
type Coupon struct {
	ID                int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code              string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description       string       `gorm:"type:varchar(255)" json:"description"`
	DiscountType      DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     float64      `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinOrderAmount    *float64     `gorm:"type:decimal(10,2)" json:"min_order_amount"`
	MaxDiscountAmount *float64     `gorm:"type:decimal(10,2)" json:"max_discount_amount"`
	UsageLimit        *int64       `json:"usage_limit"`
	UsageCount        int64        `gorm:"not null;default:0" json:"usage_count"`
	IsActive          bool         `gorm:"not null;default:true" json:"is_active"`
	StartsAt          *time.Time   `json:"starts_at"`
	ExpiresAt         *time.Time   `json:"expires_at"`
	CreatedAt         time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 検索前にコードを正規化する（大文字小文字は区別しない）
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// 利用可否チェック。失敗した最初の理由を返す。
// 順序: active → starts_at → expires_at → usage_limit → min_order_amount
func (c *Coupon) IsValid(now time.Time, subtotal float64) (bool, string) {
	if !c.IsActive {
		return false, "This coupon is not active."
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false, "This coupon is not yet available."
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false, "This coupon has expired."
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false, "This coupon has reached its usage limit."
	}
	if c.MinOrderAmount != nil && subtotal < *c.MinOrderAmount {
		return false, fmt.Sprintf("Minimum order amount of $%.2f required.", *c.MinOrderAmount)
	}
	return true, "Coupon is valid."
}

// 利用を1回記録する。上限に達していればfalse（記録しない）。
// 記録後にちょうど上限へ達したらdeactivate=true（is_activeを落とすべき）。
func (c *Coupon) ConsumeUsage() (deactivate bool, ok bool) {
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false, false
	}

	c.UsageCount++
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return true, true
	}
	return false, true
}

// 割引額を計算する。
// percentage: subtotal×率、max_discount_amountで上限、2桁で丸め。
// fixed: subtotalを超えない（合計がマイナスにならないように）。
func (c *Coupon) CalculateDiscount(subtotal float64) float64 {
	if c.DiscountType == DiscountTypePercentage {
		discount := subtotal * (c.DiscountValue / 100)
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
		return math.Round(discount*100) / 100
	}
	return math.Min(c.DiscountValue, subtotal)
}
