package usecase

import (
	"context"
	"log/slog"
	"net/http"

	repo "eshop/internal/repository"
)

// ログイン時にゲストカートをユーザーカートへ畳み込む。
// 同じ商品は数量を加算、無ければ追加、最後にゲストカートを消す。全部1トランザクション。
type CartMergeUsecase struct {
	tx     repo.TransactionManager
	logger *slog.Logger
}

func NewCartMergeUsecase(tx repo.TransactionManager, logger *slog.Logger) *CartMergeUsecase {
	return &CartMergeUsecase{tx: tx, logger: logger}
}

func (u *CartMergeUsecase) MergeGuestIntoUser(ctx context.Context, guestToken string, userID int64) error {
	// ゲストトークンが無ければ何もしない
	if guestToken == "" {
		return nil
	}

	u.logger.Info("cart merge start", "user_id", userID)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		guestCart, err := r.Carts().FindByGuestToken(ctx, guestToken)
		if err == repo.ErrNotFound {
			// ゲストカートが無ければ何もしない
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		userCart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		guestItems, err := r.CartItems().ListByCartID(ctx, guestCart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 同じ商品は加算、無ければ追加
		for _, it := range guestItems {
			if err := r.CartItems().AddQuantity(ctx, userCart.ID, it.ProductID, it.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		// マージ済みのゲストカートは明細ごと消す
		if err := r.Carts().Delete(ctx, guestCart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})

	if err != nil {
		u.logger.Error("cart merge failed", "user_id", userID, "error", err)
		return err
	}

	u.logger.Info("cart merge done", "user_id", userID)
	return nil
}
