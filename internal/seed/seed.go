package seed

import (
	"context"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"

	"go.uber.org/zap"
)

// デモカタログ。IDは固定（"1"〜）で、起動後に明示的に投入する。
// ランタイムのカート処理はこの表を参照しない。
var DemoItems = []model.Item{
	{
		ID:          "1",
		Title:       "Wireless Headphones",
		Description: "Premium wireless headphones with noise cancellation",
		Price:       99.99,
		Category:    "electronics",
		Image:       "https://images.unsplash.com/photo-1612858249937-1cc0852093dd?q=80&w=1170&auto=format&fit=crop",
	},
	{
		ID:          "2",
		Title:       "Smart Watch",
		Description: "Advanced fitness tracking and notifications",
		Price:       299.99,
		Category:    "electronics",
		Image:       "https://images.unsplash.com/photo-1508685096489-7aacd43bd3b1?q=80&w=627&auto=format&fit=crop",
	},
	{
		ID:          "3",
		Title:       "Coffee Maker",
		Description: "Programmable coffee maker with thermal carafe",
		Price:       149.99,
		Category:    "home",
		Image:       "https://plus.unsplash.com/premium_photo-1661722983090-11783531c332?q=80&w=1170&auto=format&fit=crop",
	},
	{
		ID:          "4",
		Title:       "Running Shoes",
		Description: "Comfortable running shoes for daily training",
		Price:       129.99,
		Category:    "sports",
		Image:       "https://images.unsplash.com/photo-1585944672394-4c58a015c1fb?q=80&w=687&auto=format&fit=crop",
	},
	{
		ID:          "5",
		Title:       "Backpack",
		Description: "Durable backpack for everyday use",
		Price:       79.99,
		Category:    "accessories",
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?q=80&w=687&auto=format&fit=crop",
	},
	{
		ID:          "6",
		Title:       "Desk Lamp",
		Description: "Adjustable LED desk lamp",
		Price:       59.99,
		Category:    "home",
		Image:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=687&auto=format&fit=crop",
	},
	{
		ID:          "7",
		Title:       "Bluetooth Speaker",
		Description: "Portable bluetooth speaker with excellent sound quality",
		Price:       89.99,
		Category:    "electronics",
		Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?q=80&w=1170&auto=format&fit=crop",
	},
	{
		ID:          "8",
		Title:       "Gaming Mouse",
		Description: "High-precision gaming mouse with RGB lighting",
		Price:       69.99,
		Category:    "electronics",
		Image:       "https://images.unsplash.com/photo-1527814050087-3793815479db?q=80&w=1170&auto=format&fit=crop",
	},
}

// Run は未登録のデモ商品だけを投入する（既存は触らない）。
func Run(ctx context.Context, items repo.ItemRepository, logger *zap.Logger) error {
	for _, item := range DemoItems {
		_, err := items.FindByID(ctx, item.ID)
		if err == nil {
			continue
		}
		if err != repo.ErrNotFound {
			return err
		}

		if _, err := items.Create(ctx, item); err != nil {
			return err
		}
		logger.Info("seeded item", zap.String("item_id", item.ID), zap.String("title", item.Title))
	}
	return nil
}
