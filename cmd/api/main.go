package main

import (
	"log/slog"
	"os"
	"time"

	"eshop/internal/config"
	"eshop/internal/domain/model"
	"eshop/internal/handler"
	"eshop/internal/infra/db"
	infraRepo "eshop/internal/infra/repository"
	"eshop/internal/server"
	"eshop/internal/usecase"
	auth "eshop/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserSession{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	pricing := usecase.PricingConfig{
		ShippingFee:           cfg.ShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
	}
	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo, idGen)
	mergeUC := usecase.NewCartMergeUsecase(txManager, logger)
	couponUC := usecase.NewCouponUsecase(couponRepo, clock)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartRepo, productRepo, couponRepo, pricing, clock, idGen, logger)
	orderUC := usecase.NewOrderUsecase(txManager)

	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, sessionRepo, verifier, mergeUC, clock, sessionTTL)
	logoutUC := auth.NewLogoutUsecase(sessionRepo)
	profileUC := auth.NewProfileUsecase(userRepo)

	//Handler生成
	hs := server.Handlers{
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Coupon:   handler.NewCouponHandler(couponUC),
		Order:    handler.NewOrderHandler(orderUC),
		Auth:     handler.NewAuthHandler(registerUC, loginUC, logoutUC, profileUC),
	}

	//Server起動
	e := server.New(sessionRepo, hs)
	if err := e.Start(":" + cfg.Port); err != nil {
		panic(err)
	}
}
