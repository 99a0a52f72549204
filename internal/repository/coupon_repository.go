package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
)

// ロック後に数え直したら上限に達していた（同時チェックアウト）
var ErrCouponExhausted = errors.New("coupon usage limit reached")

type CouponRepository interface {
	// codeは大文字化して完全一致で引く
	FindByCode(ctx context.Context, code string) (model.Coupon, error)

	// usage_countを+1し、usage_limitに達したらis_activeを落とす。
	// 既に上限ならErrCouponExhausted（加算しない）。
	// チェックアウトのトランザクション内で呼ぶこと。
	IncrementUsage(ctx context.Context, couponID int64) error
}
