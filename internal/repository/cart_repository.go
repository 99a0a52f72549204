package repository

import (
	"context"

	"eshop/internal/domain/model"
)

// カートは持ち主（user_id または guest_token）ごとに1つ。無ければ空で作る。
type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	GetOrCreateByGuestToken(ctx context.Context, token string) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByGuestToken(ctx context.Context, token string) (model.Cart, error)

	// 明細ごとカートを削除（マージ後・ゲストリセット用）
	Delete(ctx context.Context, cartID int64) error
	// 明細だけ全削除（チェックアウト後のクリア用）
	ClearItems(ctx context.Context, cartID int64) error
}
