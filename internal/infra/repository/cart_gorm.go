package repository

import (
	"context"
	"errors"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	return r.getOrCreate(ctx, "user_id = ?", userID, func(now time.Time) model.Cart {
		return model.Cart{UserID: &userID, CreatedAt: now, UpdatedAt: now}
	})
}

// ゲストトークンのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByGuestToken(ctx context.Context, token string) (model.Cart, error) {
	return r.getOrCreate(ctx, "guest_token = ?", token, func(now time.Time) model.Cart {
		return model.Cart{GuestToken: &token, CreatedAt: now, UpdatedAt: now}
	})
}

// トランザクションで探す→無ければ作る。
// uniqueIndexとの競合時はもう一度探して既存を返す。
func (r *CartGormRepository) getOrCreate(ctx context.Context, cond string, arg interface{}, build func(now time.Time) model.Cart) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(cond, arg).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newCart := build(time.Now())
		if err := tx.Create(&newCart).Error; err != nil {
			retryErr := tx.
				Where(cond, arg).
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *CartGormRepository) FindByGuestToken(ctx context.Context, token string) (model.Cart, error) {
	return r.findOne(ctx, "guest_token = ?", token)
}

func (r *CartGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カートを明細ごと削除（Cart→CartItemのカスケードを明示的に持つ）
func (r *CartGormRepository) Delete(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Cart{}, cartID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 明細だけ全削除
func (r *CartGormRepository) ClearItems(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
