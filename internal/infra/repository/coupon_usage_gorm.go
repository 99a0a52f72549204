package repository

import (
	"context"

	"eshop/internal/domain/model"

	"gorm.io/gorm"
)

type CouponUsageGormRepository struct {
	db *gorm.DB
}

func NewCouponUsageGormRepository(db *gorm.DB) *CouponUsageGormRepository {
	return &CouponUsageGormRepository{db: db}
}

func (r *CouponUsageGormRepository) Create(ctx context.Context, usage model.CouponUsage) error {
	return r.db.WithContext(ctx).Create(&usage).Error
}
