package main

import (
	"context"
	"log"
	"time"

	"shoplite/internal/config"
	"shoplite/internal/domain/model"
	"shoplite/internal/handler"
	"shoplite/internal/infra/db"
	infraRepo "shoplite/internal/infra/repository"
	"shoplite/internal/payment"
	"shoplite/internal/server"
	"shoplite/internal/session"
	"shoplite/internal/usecase"
	"shoplite/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くても起動できる（本番は環境変数で渡す）
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	if err := db.WaitReady(context.Background(), 30*time.Second); err != nil {
		log.Fatal(err)
	}
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//セッション（カート＋決済状態）はインメモリ
	sessions := session.NewStore()

	//決済プロバイダ。URL未設定ならシミュレータで動かす
	var provider payment.Provider
	if cfg.PaymentProviderURL != "" {
		provider = payment.NewHTTPProvider(cfg.PaymentProviderURL, cfg.PaymentProviderKey)
	} else {
		provider = payment.NewSimulator()
	}

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, authValidator, sessions)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(sessions, productRepo, cfg.TaxRatePercent)
	checkoutUC := usecase.NewCheckoutUsecase(sessions, txManager, provider, usecase.UUIDGenerator{}, cfg.TaxRatePercent, cfg.Currency)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	e := server.New(cfg, h)
	if err := server.Start(e, cfg); err != nil {
		log.Fatal(err)
	}
}
