package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（同時チェックアウトの売り越し防止）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 無条件減算（売り切れ後も販売を続ける商品用。マイナスになり得る）
	DecreaseStock(ctx context.Context, productID int64, qty int64) error
}
