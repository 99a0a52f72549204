package repository

import (
	"context"

	"eshop/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// sync用: クライアントの数量で上書き
	SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	// merge用: 既存数量に加算
	AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	// syncに含まれない商品を消す
	DeleteNotIn(ctx context.Context, cartID int64, productIDs []int64) error
}
