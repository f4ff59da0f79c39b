package main

import (
	"shopcart/internal/config"
	"shopcart/internal/domain/model"
	"shopcart/internal/handler"
	"shopcart/internal/infra/db"
	infraRepo "shopcart/internal/infra/repository"
	"shopcart/internal/server"
	"shopcart/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.GoEnv == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Item{},
		&model.Cart{},
		&model.CartLine{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	lineRepo := infraRepo.NewCartLineGormRepository(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, logger)
	itemUC := usecase.NewItemUsecase(itemRepo, logger)
	cartUC := usecase.NewCartUsecase(cartRepo, lineRepo, itemRepo, logger)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	itemH := handler.NewItemHandler(itemUC)
	cartH := handler.NewCartHandler(cartUC)

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, authH, itemH, cartH)

	if err := server.Start(e, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
