package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"
	"shopcart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// インメモリのフェイクRepository
// =====================

type fakeItemRepo struct {
	items map[string]model.Item
}

func (f *fakeItemRepo) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, error) {
	panic("not used in CartUsecase tests")
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id string) (model.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return item, nil
}

func (f *fakeItemRepo) Create(ctx context.Context, item model.Item) (model.Item, error) {
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item model.Item) error {
	panic("not used in CartUsecase tests")
}

func (f *fakeItemRepo) Delete(ctx context.Context, id string) error {
	panic("not used in CartUsecase tests")
}

type fakeCartRepo struct {
	carts  map[int64]model.Cart
	nextID int64
}

func (f *fakeCartRepo) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	f.nextID++
	cart := model.Cart{ID: f.nextID, UserID: userID}
	f.carts[userID] = cart
	return cart, nil
}

func (f *fakeCartRepo) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return cart, nil
}

type fakeLineRepo struct {
	lines  []model.CartLine
	nextID int64
}

func (f *fakeLineRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	out := []model.CartLine{}
	for _, l := range f.lines {
		if l.CartID == cartID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLineRepo) UpsertByCartAndItem(ctx context.Context, cartID int64, itemID string, addQty int64) error {
	for i := range f.lines {
		if f.lines[i].CartID == cartID && f.lines[i].ItemID == itemID {
			f.lines[i].Quantity += addQty
			return nil
		}
	}
	f.nextID++
	f.lines = append(f.lines, model.CartLine{
		ID: f.nextID, CartID: cartID, ItemID: itemID, Quantity: addQty,
	})
	return nil
}

func (f *fakeLineRepo) SetQuantity(ctx context.Context, cartID int64, itemID string, qty int64) error {
	for i := range f.lines {
		if f.lines[i].CartID == cartID && f.lines[i].ItemID == itemID {
			f.lines[i].Quantity = qty
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeLineRepo) DeleteByCartAndItem(ctx context.Context, cartID int64, itemID string) error {
	for i := range f.lines {
		if f.lines[i].CartID == cartID && f.lines[i].ItemID == itemID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func newCartUsecase(items ...model.Item) *usecase.CartUsecase {
	itemRepo := &fakeItemRepo{items: map[string]model.Item{}}
	for _, it := range items {
		itemRepo.items[it.ID] = it
	}
	cartRepo := &fakeCartRepo{carts: map[int64]model.Cart{}}
	lineRepo := &fakeLineRepo{}
	return usecase.NewCartUsecase(cartRepo, lineRepo, itemRepo, zap.NewNop())
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, want, he.Status)
}

var (
	itemA = model.Item{ID: "a", Title: "Item A", Price: 10.00, Category: "test"}
	itemB = model.Item{ID: "b", Title: "Item B", Price: 5.50, Category: "test"}
)

// =====================
// GetCart
// =====================

func TestCartUsecase_GetCart_EmptyWhenNoCart(t *testing.T) {
	uc := newCartUsecase(itemA)

	out, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, 0.0, out.Total)
}

func TestCartUsecase_GetCart_Idempotent(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ItemID: "a", Quantity: 2})
	require.NoError(t, err)

	first, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	second, err := uc.GetCart(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCartUsecase_GetCart_Unauthorized(t *testing.T) {
	uc := newCartUsecase()

	_, err := uc.GetCart(context.Background(), 0)
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_TwoDistinctItems(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 1})
	require.NoError(t, err)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "b", Quantity: 1})
	require.NoError(t, err)

	// 2行・各数量1・挿入順
	require.Len(t, out.Items, 2)
	assert.Equal(t, "a", out.Items[0].ItemID)
	assert.Equal(t, "b", out.Items[1].ItemID)
	assert.Equal(t, int64(1), out.Items[0].Quantity)
	assert.Equal(t, int64(1), out.Items[1].Quantity)
}

func TestCartUsecase_AddToCart_SameItemIncrements(t *testing.T) {
	uc := newCartUsecase(itemA)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 2})
	require.NoError(t, err)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 3})
	require.NoError(t, err)

	// 2行にはならず、1行で数量5
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
}

func TestCartUsecase_AddToCart_ResolvesDisplayData(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 2})
	require.NoError(t, err)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "b", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, "Item A", out.Items[0].Title)
	assert.Equal(t, 10.00, out.Items[0].Price)
	assert.Equal(t, 36.50, out.Total)
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc := newCartUsecase(itemA)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ItemID: "a", Quantity: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ItemID: "a", Quantity: -1})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddToCart_UnknownItem(t *testing.T) {
	uc := newCartUsecase(itemA)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ItemID: "nope", Quantity: 1})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_AddToCart_Unauthorized(t *testing.T) {
	uc := newCartUsecase(itemA)

	_, err := uc.AddToCart(context.Background(), 0, usecase.AddCartInput{ItemID: "a", Quantity: 1})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

// =====================
// RemoveItem
// =====================

func TestCartUsecase_RemoveItem_CartMissing(t *testing.T) {
	uc := newCartUsecase(itemA)

	_, err := uc.RemoveItem(context.Background(), 1, "a")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_RemoveItem_LineMissing_CartUnchanged(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 1})
	require.NoError(t, err)

	_, err = uc.RemoveItem(ctx, 1, "b")
	assertHTTPStatus(t, err, http.StatusNotFound)

	// カートは変わっていない
	out, err := uc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "a", out.Items[0].ItemID)
}

func TestCartUsecase_RemoveItem_ThenEmpty(t *testing.T) {
	uc := newCartUsecase(itemA)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 1})
	require.NoError(t, err)

	out, err := uc.RemoveItem(ctx, 1, "a")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, 0.0, out.Total)

	// 2回目は404
	_, err = uc.RemoveItem(ctx, 1, "a")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// SetQuantity
// =====================

func TestCartUsecase_SetQuantity_ReplacesExactly(t *testing.T) {
	uc := newCartUsecase(itemA)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 2})
	require.NoError(t, err)

	// 加算（7）ではなく置き換え（5）
	out, err := uc.SetQuantity(ctx, 1, "a", 5)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)
}

func TestCartUsecase_SetQuantity_ZeroEqualsRemove(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 2})
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "b", Quantity: 1})
	require.NoError(t, err)

	out, err := uc.SetQuantity(ctx, 1, "a", 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "b", out.Items[0].ItemID)
}

func TestCartUsecase_SetQuantity_LineMissing(t *testing.T) {
	uc := newCartUsecase(itemA, itemB)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ItemID: "a", Quantity: 1})
	require.NoError(t, err)

	_, err = uc.SetQuantity(ctx, 1, "b", 3)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
