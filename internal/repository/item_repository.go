package repository

import (
	"context"
	"errors"

	"shopcart/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索。Categoryは完全一致（"all"と空は絞り込みなし）、
// Searchはtitle/descriptionへの大文字小文字を区別しない部分一致。
type ItemListQuery struct {
	Category string
	Search   string
}

// 商品の永続化（保存・取得）だけを約束。
type ItemRepository interface {
	List(ctx context.Context, q ItemListQuery) ([]model.Item, error)
	FindByID(ctx context.Context, id string) (model.Item, error)

	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, item model.Item) error
	Delete(ctx context.Context, id string) error
}
