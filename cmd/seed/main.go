package main

import (
	"context"

	"shopcart/internal/config"
	"shopcart/internal/domain/model"
	"shopcart/internal/infra/db"
	infraRepo "shopcart/internal/infra/repository"
	"shopcart/internal/seed"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// デモカタログの投入コマンド。APIサーバーとは分離して明示的に実行する。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.Item{}); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	itemRepo := infraRepo.NewItemGormRepository(gormDB)

	if err := seed.Run(context.Background(), itemRepo, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	logger.Info("seed done")
}
