package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ItemUsecase struct {
	itemRepo repo.ItemRepository
	logger   *zap.Logger
}

// DI
func NewItemUsecase(itemRepo repo.ItemRepository, logger *zap.Logger) *ItemUsecase {
	return &ItemUsecase{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// GET /itemsの入力DTO
type ListItemsInput struct {
	Category string
	Search   string
}

type CreateItemInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// 部分更新。nilのフィールドは変更しない
type UpdateItemInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
}

func (u *ItemUsecase) ListItems(ctx context.Context, in ListItemsInput) ([]model.Item, error) {
	if len(in.Search) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "search too long")
	}

	items, err := u.itemRepo.List(ctx, repo.ItemListQuery{
		Category: strings.TrimSpace(in.Category),
		Search:   strings.TrimSpace(in.Search),
	})
	if err != nil {
		u.logger.Error("item list failed", zap.String("category", in.Category),
			zap.String("search", in.Search), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return items, nil
}

func (u *ItemUsecase) GetItemDetail(ctx context.Context, itemID string) (model.Item, error) {
	if itemID == "" {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		u.logger.Error("item detail failed", zap.String("item_id", itemID), zap.Error(err))
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return item, nil
}

func (u *ItemUsecase) CreateItem(ctx context.Context, in CreateItemInput) (model.Item, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)

	if title == "" {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if category == "" {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if in.Price < 0 {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = model.DefaultItemImage
	}

	item := model.Item{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		Category:    category,
		Image:       image,
	}

	created, err := u.itemRepo.Create(ctx, item)
	if err != nil {
		u.logger.Error("item create failed", zap.String("title", title), zap.Error(err))
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *ItemUsecase) UpdateItem(ctx context.Context, itemID string, in UpdateItemInput) (model.Item, error) {
	if itemID == "" {
		return model.Item{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		u.logger.Error("item update failed", zap.String("item_id", itemID), zap.Error(err))
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "title is required")
		}
		item.Title = t
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		item.Price = *in.Price
	}
	if in.Category != nil {
		c := strings.TrimSpace(*in.Category)
		if c == "" {
			return model.Item{}, NewHTTPError(http.StatusBadRequest, "category is required")
		}
		item.Category = c
	}
	if in.Image != nil {
		item.Image = strings.TrimSpace(*in.Image)
		if item.Image == "" {
			item.Image = model.DefaultItemImage
		}
	}

	if err := u.itemRepo.Update(ctx, item); err != nil {
		if err == repo.ErrNotFound {
			return model.Item{}, NewHTTPError(http.StatusNotFound, "item not found")
		}
		u.logger.Error("item update failed", zap.String("item_id", itemID), zap.Error(err))
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return item, nil
}

func (u *ItemUsecase) DeleteItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := u.itemRepo.Delete(ctx, itemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not found")
		}
		u.logger.Error("item delete failed", zap.String("item_id", itemID), zap.Error(err))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
