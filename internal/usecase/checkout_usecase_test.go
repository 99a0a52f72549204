package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
	"eshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPricing() usecase.PricingConfig {
	return usecase.PricingConfig{ShippingFee: 10, FreeShippingThreshold: 150, TaxRate: 0.08}
}

func validCheckoutInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		Shipping: usecase.ShippingInput{
			FirstName: "Taro",
			LastName:  "Yamada",
			Email:     "taro@example.com",
			Address1:  "1-2-3 Chiyoda",
			City:      "Tokyo",
			State:     "Tokyo",
			Zip:       "100-0001",
			Country:   "JP",
		},
		Card: usecase.CardInput{
			Number: "4532015112830366",
			Expiry: "12/29",
			CVC:    "123",
			Name:   "TARO YAMADA",
		},
		Items: []usecase.CheckoutItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func newCheckoutDeps() (*stubTxManager, *CartRepoMock, *ProductRepoMock, *CouponRepoMock) {
	return newStubTxManager(), new(CartRepoMock), new(ProductRepoMock), new(CouponRepoMock)
}

func checkoutProducts() map[int64]model.Product {
	return map[int64]model.Product{
		1: {ID: 1, Name: "Coffee Beans", Price: 50, StockQuantity: 10, TrackInventory: true, IsActive: true},
		2: {ID: 2, Name: "Mug", Price: 40, StockQuantity: 5, TrackInventory: true, IsActive: true},
	}
}

func TestCheckoutUsecase_Process_Success(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	clock := &stubClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
	idGen := &stubIDGen{id: "0b59e1ce-8e5f-4a44-9c93-1234567890ab"}

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	// subtotal 140 → 送料10・税11.20・合計161.20
	txm.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.OrderNumber == "ORD-20260115-0B59E1CE" &&
			o.Status == model.OrderStatusPending &&
			o.Subtotal == 140 &&
			o.Shipping == 10 &&
			o.Tax == 11.20 &&
			o.Discount == 0 &&
			o.Total == 161.20 &&
			o.UserID == nil &&
			o.ShippingFirstName == "Taro"
	})).Return(int64(7), nil)

	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].ProductID == 1 && items[0].Quantity == 2 && items[0].Total == 100 &&
			items[1].ProductID == 2 && items[1].Quantity == 1 && items[1].Total == 40
	})).Return(nil)

	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(1)).Return(true, nil)

	cartRepo.On("FindByGuestToken", mock.Anything, "guest-token").Return(model.Cart{ID: 3}, nil)
	cartRepo.On("ClearItems", mock.Anything, int64(3)).Return(nil)

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), clock, idGen, testLogger())

	out, err := uc.Process(ctx, model.Identity{GuestToken: "guest-token"}, validCheckoutInput())
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.OrderID)
	assert.Equal(t, "ORD-20260115-0B59E1CE", out.OrderNumber)
	assert.Equal(t, 161.20, out.Total)
	assert.True(t, txm.committed)

	txm.repos.orders.AssertExpectations(t)
	txm.repos.orderItems.AssertExpectations(t)
	txm.repos.inventory.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestCheckoutUsecase_Process_ValidationFailure_NoWrites(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	in := validCheckoutInput()
	in.Card.Number = "4532015112830367" // Luhn不一致

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{}, &stubIDGen{}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
	assert.Contains(t, he.Fields, "card_number")
	assert.Equal(t, 0, txm.began)
	productRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Process_EmptyItems(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	in := validCheckoutInput()
	in.Items = nil

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{}, &stubIDGen{}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
	assert.Contains(t, he.Fields, "items")
	assert.Equal(t, 0, txm.began)
}

func TestCheckoutUsecase_Process_StockShortfallsCollected(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	products := map[int64]model.Product{
		1: {ID: 1, Name: "Coffee Beans", Price: 50, StockQuantity: 1, TrackInventory: true, IsActive: true},
		2: {ID: 2, Name: "Mug", Price: 40, StockQuantity: 0, TrackInventory: true, IsActive: true},
	}
	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(products, nil)

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{}, &stubIDGen{}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, validCheckoutInput())
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	// 全行ぶん集めてから失敗する
	assert.Equal(t, []string{
		"Insufficient stock for Coffee Beans. Available: 1",
		"Insufficient stock for Mug. Available: 0",
	}, he.Fields["stock"])
	assert.Equal(t, 0, txm.began)
}

func TestCheckoutUsecase_Process_ConcurrentStockRaceRollsBack(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	clock := &stubClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
	idGen := &stubIDGen{id: "0b59e1ce-8e5f-4a44-9c93-1234567890ab"}

	// 事前チェックは通るが、条件付きUPDATEで他の注文に先を越される
	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	txm.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(7), mock.Anything).Return(nil)
	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(false, nil)

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), clock, idGen, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, validCheckoutInput())
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Contains(t, he.Fields["stock"][0], "Insufficient stock for Coffee Beans")

	assert.True(t, txm.rolledBack)
	assert.False(t, txm.committed)
	// 失敗した注文ではカートを触らない
	cartRepo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Process_OrderItemsFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	txm.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(7), mock.Anything).Return(errors.New("insert failed"))

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{now: time.Now()}, &stubIDGen{id: "0b59e1ce"}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, validCheckoutInput())
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	assert.True(t, txm.rolledBack)
	txm.repos.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Process_WithCoupon(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	clock := &stubClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
	idGen := &stubIDGen{id: "0b59e1ce-8e5f-4a44-9c93-1234567890ab"}

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	coupon := model.Coupon{
		ID:            11,
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	// subtotal 140、割引14 → 合計147.20
	txm.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Discount == 14 && o.Total == 147.20 && o.CouponCode != nil && *o.CouponCode == "SAVE10"
	})).Return(int64(8), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(8), mock.Anything).Return(nil)
	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	txm.repos.couponUsages.On("Create", mock.Anything, mock.MatchedBy(func(u model.CouponUsage) bool {
		return u.CouponID == 11 && u.DiscountAmount == 14 && u.OrderID != nil && *u.OrderID == 8
	})).Return(nil)
	txm.repos.coupons.On("IncrementUsage", mock.Anything, int64(11)).Return(nil)

	cartRepo.On("FindByUserID", mock.Anything, int64(42)).Return(model.Cart{ID: 5}, nil)
	cartRepo.On("ClearItems", mock.Anything, int64(5)).Return(nil)

	in := validCheckoutInput()
	in.CouponCode = "SAVE10"

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), clock, idGen, testLogger())

	out, err := uc.Process(ctx, model.Identity{UserID: 42}, in)
	assert.NoError(t, err)
	assert.Equal(t, 147.20, out.Total)

	txm.repos.couponUsages.AssertExpectations(t)
	txm.repos.coupons.AssertExpectations(t)
}

func TestCheckoutUsecase_Process_CouponExhaustedConcurrentlyRollsBack(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	// 事前チェック時点では残り1回。IsValidは通る。
	limit := int64(1)
	couponRepo.On("FindByCode", mock.Anything, "LAST1").Return(model.Coupon{
		ID:            11,
		Code:          "LAST1",
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 5,
		UsageLimit:    &limit,
		UsageCount:    0,
		IsActive:      true,
	}, nil)

	txm.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(7), mock.Anything).Return(nil)
	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	txm.repos.couponUsages.On("Create", mock.Anything, mock.Anything).Return(nil)

	// トランザクション内では他の注文が最後の1回を使い終わっている
	txm.repos.coupons.On("IncrementUsage", mock.Anything, int64(11)).Return(repo.ErrCouponExhausted)

	in := validCheckoutInput()
	in.CouponCode = "LAST1"

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{now: time.Now()}, &stubIDGen{id: "0b59e1ce"}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "This coupon has reached its usage limit.", he.Message)
	assert.Equal(t, []string{"This coupon has reached its usage limit."}, he.Fields["coupon_code"])

	// 2本目の注文ごとロールバック。カートも残す。
	assert.True(t, txm.rolledBack)
	assert.False(t, txm.committed)
	cartRepo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Process_UnknownCoupon(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)
	couponRepo.On("FindByCode", mock.Anything, "NOPE").Return(model.Coupon{}, repo.ErrNotFound)

	in := validCheckoutInput()
	in.CouponCode = "NOPE"

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{}, &stubIDGen{}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "Invalid coupon code.", he.Message)
	assert.Equal(t, 0, txm.began)
}

func TestCheckoutUsecase_Process_ExpiredCoupon(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)
	couponRepo.On("FindByCode", mock.Anything, "OLD").Return(model.Coupon{
		ID: 12, Code: "OLD", IsActive: true, ExpiresAt: &expired,
	}, nil)

	in := validCheckoutInput()
	in.CouponCode = "OLD"

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{now: now}, &stubIDGen{}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, in)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "This coupon has expired.", he.Message)
	assert.Equal(t, 0, txm.began)
}

func TestCheckoutUsecase_Process_CartClearFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(checkoutProducts(), nil)

	txm.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(7), mock.Anything).Return(nil)
	txm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	// commit後のクリアが失敗しても注文は成立している
	cartRepo.On("FindByGuestToken", mock.Anything, "g").Return(model.Cart{ID: 3}, nil)
	cartRepo.On("ClearItems", mock.Anything, int64(3)).Return(errors.New("connection lost"))

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{now: time.Now()}, &stubIDGen{id: "0b59e1ce"}, testLogger())

	out, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, validCheckoutInput())
	assert.NoError(t, err)
	assert.True(t, txm.committed)
	assert.NotEmpty(t, out.OrderNumber)
}

func TestCheckoutUsecase_Process_UntrackedAndOversellProducts(t *testing.T) {
	ctx := context.Background()
	txm, cartRepo, productRepo, couponRepo := newCheckoutDeps()

	products := map[int64]model.Product{
		1: {ID: 1, Name: "Gift Card", Price: 50, TrackInventory: false, IsActive: true},
		2: {ID: 2, Name: "Preorder Mug", Price: 40, StockQuantity: 0, TrackInventory: true, ContinueSellingWhenOutOfStock: true, IsActive: true},
	}
	productRepo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return(products, nil)

	txm.repos.orders.On("Create", mock.Anything, mock.Anything).Return(int64(9), nil)
	txm.repos.orderItems.On("CreateBulk", mock.Anything, int64(9), mock.Anything).Return(nil)
	// 売り切れ後も販売を続ける商品は無条件減算
	txm.repos.inventory.On("DecreaseStock", mock.Anything, int64(2), int64(1)).Return(nil)

	cartRepo.On("FindByGuestToken", mock.Anything, "g").Return(model.Cart{}, repo.ErrNotFound)

	uc := usecase.NewCheckoutUsecase(txm, cartRepo, productRepo, couponRepo, testPricing(), &stubClock{now: time.Now()}, &stubIDGen{id: "0b59e1ce"}, testLogger())

	_, err := uc.Process(ctx, model.Identity{GuestToken: "g"}, validCheckoutInput())
	assert.NoError(t, err)

	// 在庫追跡していない商品は減算しない
	txm.repos.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	txm.repos.inventory.AssertExpectations(t)
}
