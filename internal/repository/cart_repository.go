package repository

import (
	"context"

	"shopcart/internal/domain/model"
)

type CartRepository interface {
	// 無ければ作成して返す（初回の追加で遅延作成）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
}

type CartLineRepository interface {
	// 挿入順（id asc）で返す
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartLine, error)
	// 同一商品は数量加算
	UpsertByCartAndItem(ctx context.Context, cartID int64, itemID string, addQty int64) error
	// 数量をそのまま置き換える（加算しない）。行が無ければErrNotFound
	SetQuantity(ctx context.Context, cartID int64, itemID string, qty int64) error
	// 行が無ければErrNotFound
	DeleteByCartAndItem(ctx context.Context, cartID int64, itemID string) error
}
