package repository

import (
	"context"

	"eshop/internal/domain/model"
)

type CouponUsageRepository interface {
	Create(ctx context.Context, usage model.CouponUsage) error
}
