package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
	"eshop/internal/validator"
)

// チェックアウト。評価してからコミットする（commit後に検証はしない）。
// 注文作成・明細作成・在庫減算・クーポン利用記録は1トランザクション。
// カートのクリアだけはcommit後のベストエフォート。
type CheckoutUsecase struct {
	tx          repo.TransactionManager
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	couponRepo  repo.CouponRepository
	pricing     PricingConfig
	clock       Clock
	idGen       IDGenerator
	logger      *slog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
	couponRepo repo.CouponRepository,
	pricing PricingConfig,
	clock Clock,
	idGen IDGenerator,
	logger *slog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		pricing:     pricing,
		clock:       clock,
		idGen:       idGen,
		logger:      logger,
	}
}

type ShippingInput struct {
	FirstName string `json:"shipping_first_name"`
	LastName  string `json:"shipping_last_name"`
	Email     string `json:"shipping_email"`
	Phone     string `json:"shipping_phone"`
	Address1  string `json:"shipping_address1"`
	Address2  string `json:"shipping_address2"`
	City      string `json:"shipping_city"`
	State     string `json:"shipping_state"`
	Zip       string `json:"shipping_zip"`
	Country   string `json:"shipping_country"`
}

// カード情報は形だけ検証して捨てる。保存しない。決済は行わない（モック）。
type CardInput struct {
	Number string `json:"card_number"`
	Expiry string `json:"card_expiry"`
	CVC    string `json:"card_cvc"`
	Name   string `json:"card_name"`
}

type CheckoutInput struct {
	Shipping   ShippingInput
	Card       CardInput
	CouponCode string
	Items      []CheckoutItemInput
}

type CheckoutOutput struct {
	OrderID     int64   `json:"id"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
}

func (u *CheckoutUsecase) Process(ctx context.Context, id model.Identity, in CheckoutInput) (CheckoutOutput, error) {
	// 1. 構造チェック（配送先・カード）。ここで失敗したら書き込みゼロ。
	fieldErrs := validator.ValidateCheckout(validator.CheckoutForm{
		ShippingFirstName: in.Shipping.FirstName,
		ShippingLastName:  in.Shipping.LastName,
		ShippingEmail:     in.Shipping.Email,
		ShippingPhone:     in.Shipping.Phone,
		ShippingAddress1:  in.Shipping.Address1,
		ShippingAddress2:  in.Shipping.Address2,
		ShippingCity:      in.Shipping.City,
		ShippingState:     in.Shipping.State,
		ShippingZip:       in.Shipping.Zip,
		ShippingCountry:   in.Shipping.Country,
		CardNumber:        in.Card.Number,
		CardExpiry:        in.Card.Expiry,
		CardCVC:           in.Card.CVC,
		CardName:          in.Card.Name,
	})
	if len(fieldErrs) > 0 {
		return CheckoutOutput{}, NewValidationError("Validation failed", fieldErrs)
	}
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewValidationError("Validation failed", map[string][]string{
			"items": {"The items field is required."},
		})
	}

	// 2. 価格はDBから引き直す。クライアントの単価は信用しない。
	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}

	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	subtotal, lines, err := priceLines(products, in.Items)
	if err != nil {
		return CheckoutOutput{}, err
	}

	// クーポン検証（存在→active→期間→回数→最低金額の順）
	var coupon *model.Coupon
	discount := 0.0
	var couponCode *string

	if in.CouponCode != "" {
		c, err := u.couponRepo.FindByCode(ctx, in.CouponCode)
		if err == repo.ErrNotFound {
			return CheckoutOutput{}, &HTTPError{
				Status:  http.StatusBadRequest,
				Message: "Invalid coupon code.",
				Fields:  map[string][]string{"coupon_code": {"Invalid coupon code."}},
			}
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if ok, msg := c.IsValid(u.clock.Now(), subtotal); !ok {
			return CheckoutOutput{}, &HTTPError{
				Status:  http.StatusBadRequest,
				Message: msg,
				Fields:  map[string][]string{"coupon_code": {msg}},
			}
		}

		discount = c.CalculateDiscount(subtotal)
		coupon = &c
		couponCode = &c.Code
	}

	shipping, tax, total := computeTotals(u.pricing, subtotal, discount)

	// 3〜6. 注文・明細・在庫・クーポン利用を1つの失敗単位で書く。
	now := u.clock.Now()
	out := CheckoutOutput{}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var userID *int64
		if id.IsAuthenticated() {
			uid := id.UserID
			userID = &uid
		}

		order := model.Order{
			UserID:            userID,
			OrderNumber:       u.newOrderNumber(now),
			Status:            model.OrderStatusPending,
			Subtotal:          subtotal,
			Tax:               tax,
			Shipping:          shipping,
			Discount:          discount,
			Total:             total,
			CouponCode:        couponCode,
			ShippingFirstName: in.Shipping.FirstName,
			ShippingLastName:  in.Shipping.LastName,
			ShippingEmail:     in.Shipping.Email,
			ShippingPhone:     optional(in.Shipping.Phone),
			ShippingAddress1:  in.Shipping.Address1,
			ShippingAddress2:  optional(in.Shipping.Address2),
			ShippingCity:      in.Shipping.City,
			ShippingState:     in.Shipping.State,
			ShippingZip:       in.Shipping.Zip,
			ShippingCountry:   in.Shipping.Country,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:    l.ProductID,
				ProductName:  l.ProductName,
				ProductPrice: l.ProductPrice,
				Quantity:     l.Quantity,
				Total:        l.Total,
				CreatedAt:    now,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 在庫減算。追跡商品は条件付きUPDATEで、同時チェックアウトでも売り越さない。
		for _, l := range lines {
			p := products[l.ProductID]
			if !p.TrackInventory {
				continue
			}

			if p.ContinueSellingWhenOutOfStock {
				if err := r.Inventory().DecreaseStock(ctx, l.ProductID, l.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				continue
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				// 事前チェックの後に他の注文が在庫を取った場合。全体をロールバック。
				return &HTTPError{
					Status:  http.StatusBadRequest,
					Message: "Stock availability issue",
					Fields: map[string][]string{
						"stock": {fmt.Sprintf("Insufficient stock for %s.", l.ProductName)},
					},
				}
			}
		}

		if coupon != nil {
			if err := r.CouponUsages().Create(ctx, model.CouponUsage{
				CouponID:       coupon.ID,
				OrderID:        &orderID,
				UserID:         userID,
				DiscountAmount: discount,
				CreatedAt:      now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Coupons().IncrementUsage(ctx, coupon.ID); err != nil {
				// 事前チェックの後に他の注文が最後の1回を使った場合。全体をロールバック。
				if err == repo.ErrCouponExhausted {
					msg := "This coupon has reached its usage limit."
					return &HTTPError{
						Status:  http.StatusBadRequest,
						Message: msg,
						Fields:  map[string][]string{"coupon_code": {msg}},
					}
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = CheckoutOutput{OrderID: orderID, OrderNumber: order.OrderNumber, Total: total}
		return nil
	})

	if err != nil {
		u.logger.Info("checkout failed", "error", err)
		return CheckoutOutput{}, err
	}

	// 7. commit後にカートをクリア。失敗しても注文は成立しているのでログだけ。
	u.clearCart(ctx, id)

	u.logger.Info("checkout done",
		"order_number", out.OrderNumber,
		"total", out.Total,
		"authenticated", id.IsAuthenticated(),
	)
	return out, nil
}

func (u *CheckoutUsecase) clearCart(ctx context.Context, id model.Identity) {
	var cart model.Cart
	var err error

	switch {
	case id.IsAuthenticated():
		cart, err = u.cartRepo.FindByUserID(ctx, id.UserID)
	case id.GuestToken != "":
		cart, err = u.cartRepo.FindByGuestToken(ctx, id.GuestToken)
	default:
		return
	}

	if err == repo.ErrNotFound {
		return
	}
	if err != nil {
		u.logger.Warn("cart lookup after checkout failed", "error", err)
		return
	}

	if err := u.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		u.logger.Warn("cart clear after checkout failed", "cart_id", cart.ID, "error", err)
	}
}

// ORD-YYYYMMDD-XXXXXXXX
func (u *CheckoutUsecase) newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(u.idGen.NewID(), "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
