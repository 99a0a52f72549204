package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

// codeは大文字化して完全一致
func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon

	err := r.db.WithContext(ctx).
		Where("code = ?", model.NormalizeCouponCode(code)).
		First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// usage_countを+1し、usage_limitに達した瞬間にis_activeを落とす。
// ロックを取ってから数え直すので、同時チェックアウトが事前チェックを
// すり抜けても2本目はErrCouponExhaustedで失敗する（在庫減算と同じ扱い）。
func (r *CouponGormRepository) IncrementUsage(ctx context.Context, couponID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Coupon

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", couponID).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}

		deactivate, ok := c.ConsumeUsage()
		if !ok {
			return repo.ErrCouponExhausted
		}

		updates := map[string]interface{}{
			"usage_count": c.UsageCount,
		}
		if deactivate {
			updates["is_active"] = false
		}

		return tx.Model(&model.Coupon{}).
			Where("id = ?", couponID).
			Updates(updates).Error
	})
}
