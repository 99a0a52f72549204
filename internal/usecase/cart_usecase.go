package usecase

import (
	"context"
	"net/http"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

// CartUsecase はカートの取得・同期・ゲストリセットの業務ロジックです。
// 持ち主はIdentity（ログイン済みユーザー or ゲストトークン）で決まる。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	idGen        IDGenerator
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		idGen:        idGen,
	}
}

type CartLineResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
}

type SyncItemInput struct {
	ProductID int64 `json:"id"`
	Quantity  int64 `json:"qty"`
}

// カート取得（無ければ空で作る）
func (u *CartUsecase) GetCart(ctx context.Context, id model.Identity) (CartResponse, error) {
	cart, err := u.resolveCart(ctx, id)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// フロントのカートをそのまま反映する（full sync）。
// 送られてこなかった商品は消し、送られてきた数量で上書きする。空リストならカートを空にする。
func (u *CartUsecase) SyncCart(ctx context.Context, id model.Identity, items []SyncItemInput) (CartResponse, error) {
	cart, err := u.resolveCart(ctx, id)
	if err != nil {
		return CartResponse{}, err
	}

	keep := make([]int64, 0, len(items))
	for _, it := range items {
		if it.ProductID > 0 {
			keep = append(keep, it.ProductID)
		}
	}

	if err := u.cartItemRepo.DeleteNotIn(ctx, cart.ID, keep); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, it := range items {
		if it.ProductID <= 0 {
			continue
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		if err := u.cartItemRepo.SetQuantity(ctx, cart.ID, it.ProductID, qty); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// ログアウト時にゲストカートを捨てて新しいトークンを返す。
// ユーザーカートは絶対に消さない（再ログインで戻る）。
func (u *CartUsecase) ResetGuestSession(ctx context.Context, oldToken string) (string, error) {
	if oldToken != "" {
		cart, err := u.cartRepo.FindByGuestToken(ctx, oldToken)
		if err == nil {
			if err := u.cartRepo.Delete(ctx, cart.ID); err != nil && err != repo.ErrNotFound {
				return "", NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else if err != repo.ErrNotFound {
			return "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.idGen.NewID(), nil
}

func (u *CartUsecase) resolveCart(ctx context.Context, id model.Identity) (model.Cart, error) {
	if id.IsAuthenticated() {
		cart, err := u.cartRepo.GetOrCreateByUserID(ctx, id.UserID)
		if err != nil {
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return cart, nil
	}

	if id.GuestToken == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "missing guest token")
	}

	cart, err := u.cartRepo.GetOrCreateByGuestToken(ctx, id.GuestToken)
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

// 明細に商品情報を付けてCartResponseを作る。消えた商品・非公開の商品は出さない。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartLineResponse, 0, len(items))

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			continue
		}

		respItems = append(respItems, CartLineResponse{
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
	}

	return CartResponse{Items: respItems}, nil
}
