package usecase

import (
	"context"
	"net/http"
	"sync"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"

	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジックです。
// カートの不変条件（同一商品は1行・数量は1以上）をここで守る。
type CartUsecase struct {
	cartRepo repo.CartRepository
	lineRepo repo.CartLineRepository
	itemRepo repo.ItemRepository
	logger   *zap.Logger
	locks    *userLocks
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	lineRepo repo.CartLineRepository,
	itemRepo repo.ItemRepository,
	logger *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		cartRepo: cartRepo,
		lineRepo: lineRepo,
		itemRepo: itemRepo,
		logger:   logger,
		locks:    newUserLocks(),
	}
}

// CartResponse はカートAPIの返却形。明細は商品情報を解決済み。
type CartResponse struct {
	Items []model.ResolvedLine `json:"items"`
	Total float64              `json:"total"`
}

type AddCartInput struct {
	ItemID   string
	Quantity int64
}

// GetCart はカート取得。カート未作成なら空を返す（作成はしない）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return emptyCartResponse(), nil
	}
	if err != nil {
		u.logger.Error("cart get failed", zap.Int64("user_id", userID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddToCart はカートに追加（同一商品は数量加算・カートは初回追加で遅延作成）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ItemID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	unlock := u.locks.lock(userID)
	defer unlock()

	// 商品チェック。未知の商品は追加できない
	_, err := u.itemRepo.FindByID(ctx, in.ItemID)
	if err == repo.ErrNotFound {
		u.logger.Warn("cart add rejected: unknown item",
			zap.Int64("user_id", userID), zap.String("item_id", in.ItemID))
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		u.logger.Error("cart add failed", zap.Int64("user_id", userID),
			zap.String("item_id", in.ItemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("cart create failed", zap.Int64("user_id", userID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.lineRepo.UpsertByCartAndItem(ctx, cart.ID, in.ItemID, in.Quantity); err != nil {
		u.logger.Error("cart upsert failed", zap.Int64("user_id", userID),
			zap.String("item_id", in.ItemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// RemoveItem は明細削除。カート自体が無い場合と行が無い場合は
// どちらも404だが、ログでは区別する。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, itemID string) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	unlock := u.locks.lock(userID)
	defer unlock()

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		u.logger.Warn("cart remove rejected: cart missing",
			zap.Int64("user_id", userID), zap.String("item_id", itemID))
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		u.logger.Error("cart remove failed", zap.Int64("user_id", userID),
			zap.String("item_id", itemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.lineRepo.DeleteByCartAndItem(ctx, cart.ID, itemID); err != nil {
		if err == repo.ErrNotFound {
			u.logger.Warn("cart remove rejected: line missing",
				zap.Int64("user_id", userID), zap.String("item_id", itemID))
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not found in cart")
		}
		u.logger.Error("cart remove failed", zap.Int64("user_id", userID),
			zap.String("item_id", itemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// SetQuantity は数量の置き換え（加算しない）。1未満は削除と同じ。
// 置き換えは1回のUPDATEで行い、途中状態が観測されないようにする。
func (u *CartUsecase) SetQuantity(ctx context.Context, userID int64, itemID string, qty int64) (CartResponse, error) {
	if qty < 1 {
		return u.RemoveItem(ctx, userID, itemID)
	}

	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	unlock := u.locks.lock(userID)
	defer unlock()

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		u.logger.Error("cart set quantity failed", zap.Int64("user_id", userID),
			zap.String("item_id", itemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.lineRepo.SetQuantity(ctx, cart.ID, itemID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "item not found in cart")
		}
		u.logger.Error("cart set quantity failed", zap.Int64("user_id", userID),
			zap.String("item_id", itemID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細に商品情報を解決してCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	lines, err := u.lineRepo.ListByCartID(ctx, cartID)
	if err != nil {
		u.logger.Error("cart list failed", zap.Int64("cart_id", cartID), zap.Error(err))
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resolved := make([]model.ResolvedLine, 0, len(lines))

	for _, l := range lines {
		item, err := u.itemRepo.FindByID(ctx, l.ItemID)
		if err != nil {
			// 削除済み商品の行は表示から外す
			continue
		}

		resolved = append(resolved, model.ResolvedLine{
			ItemID:   item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: l.Quantity,
		})
	}

	return CartResponse{Items: resolved, Total: model.CartTotal(resolved)}, nil
}

func emptyCartResponse() CartResponse {
	return CartResponse{Items: []model.ResolvedLine{}, Total: 0}
}

// 同一ユーザーのカート更新を直列化する。
// 2タブ同時更新の後勝ち上書きを防ぐ。
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: map[int64]*sync.Mutex{}}
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	m, ok := l.m[userID]
	if !ok {
		m = &sync.Mutex{}
		l.m[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
