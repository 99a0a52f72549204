package server

import (
	"eshop/internal/handler"
	"eshop/internal/middleware"
	"eshop/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Coupon   *handler.CouponHandler
	Order    *handler.OrderHandler
	Auth     *handler.AuthHandler
}

// Echoを組み立ててルートを登録する
func New(sessions repository.SessionRepository, hs Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	hs.Product.RegisterRoutes(e)

	// 認証は任意。無効なBearerはゲスト扱いで続行する。
	optAuth := middleware.OptionalAuth(sessions)

	hs.Auth.RegisterRoutes(e.Group("/users", optAuth))
	hs.Cart.RegisterRoutes(e.Group("/cart", optAuth))
	hs.Coupon.RegisterRoutes(e.Group("/coupons"))
	hs.Checkout.RegisterRoutes(e.Group("/checkout", optAuth))
	hs.Order.RegisterRoutes(e.Group("/orders", optAuth))

	return e
}
