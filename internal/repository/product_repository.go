package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

// 商品カタログの読み取り。コアからは価格と在庫の正を引くだけ。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// まとめて引く。見つからなかったIDはmapに入らない。
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}
