package usecase_test

import (
	"context"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByGuestToken(ctx context.Context, token string) (model.Cart, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByGuestToken(ctx context.Context, token string) (model.Cart, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Delete(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartRepoMock) ClearItems(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteNotIn(ctx context.Context, cartID int64, productIDs []int64) error {
	args := m.Called(ctx, cartID, productIDs)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).(map[int64]model.Product)
	return ps, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) DecreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) IncrementUsage(ctx context.Context, couponID int64) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

type CouponUsageRepoMock struct{ mock.Mock }

func (m *CouponUsageRepoMock) Create(ctx context.Context, usage model.CouponUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// =====================
// Tx stub（fnに同じリポジトリ束を渡し、結果を記録する）
// =====================

type stubTxRepos struct {
	orders       *OrderRepoMock
	orderItems   *OrderItemRepoMock
	carts        *CartRepoMock
	cartItems    *CartItemRepoMock
	inventory    *InventoryRepoMock
	products     *ProductRepoMock
	coupons      *CouponRepoMock
	couponUsages *CouponUsageRepoMock
}

func newStubTxRepos() *stubTxRepos {
	return &stubTxRepos{
		orders:       new(OrderRepoMock),
		orderItems:   new(OrderItemRepoMock),
		carts:        new(CartRepoMock),
		cartItems:    new(CartItemRepoMock),
		inventory:    new(InventoryRepoMock),
		products:     new(ProductRepoMock),
		coupons:      new(CouponRepoMock),
		couponUsages: new(CouponUsageRepoMock),
	}
}

func (r *stubTxRepos) Orders() repo.OrderRepository             { return r.orders }
func (r *stubTxRepos) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *stubTxRepos) Carts() repo.CartRepository               { return r.carts }
func (r *stubTxRepos) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *stubTxRepos) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *stubTxRepos) Products() repo.ProductRepository         { return r.products }
func (r *stubTxRepos) Coupons() repo.CouponRepository           { return r.coupons }
func (r *stubTxRepos) CouponUsages() repo.CouponUsageRepository { return r.couponUsages }

type stubTxManager struct {
	repos      *stubTxRepos
	began      int
	committed  bool
	rolledBack bool
}

func newStubTxManager() *stubTxManager {
	return &stubTxManager{repos: newStubTxRepos()}
}

func (m *stubTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.began++
	if err := fn(m.repos); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

// =====================
// Clock / IDGenerator stub
// =====================

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

type stubIDGen struct{ id string }

func (g *stubIDGen) NewID() string { return g.id }
