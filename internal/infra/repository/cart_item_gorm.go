package repository

import (
	"context"
	"errors"
	"time"

	"eshop/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// sync用: クライアントの数量で上書き（無ければ作成）
func (r *CartItemGormRepository) SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	return r.upsert(ctx, cartID, productID, qty, false)
}

// merge用: 既存数量に加算（無ければ作成）
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	return r.upsert(ctx, cartID, productID, qty, true)
}

func (r *CartItemGormRepository) upsert(ctx context.Context, cartID int64, productID int64, qty int64, additive bool) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error

		if err == nil {
			newQty := qty
			if additive {
				newQty = item.Quantity + qty
			}

			return tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", newQty).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  qty,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&newItem).Error
	})
}

// syncに含まれない商品を消す。空リストなら全部消す。
func (r *CartItemGormRepository) DeleteNotIn(ctx context.Context, cartID int64, productIDs []int64) error {
	q := r.db.WithContext(ctx).Where("cart_id = ?", cartID)
	if len(productIDs) > 0 {
		q = q.Where("product_id NOT IN ?", productIDs)
	}
	return q.Delete(&model.CartItem{}).Error
}
