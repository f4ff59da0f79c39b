// Package cartclient はカートAPIのクライアント側アダプタです。
// 認証トークンがあれば全操作をサーバーへ委譲し、無ければ
// ローカル保存のゲストカートに対して同じ操作を行います。
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"shopcart/internal/domain/model"

	"github.com/google/uuid"
)

// ゲストカートのローカル保存キー（固定）
const guestCartKey = "guestCart"

var ErrInvalidQuantity = errors.New("cartclient: quantity must be >= 1")

// サーバーが返したエラー
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cartclient: server returned %d: %s", e.Status, e.Message)
}

// 表示層へ渡すカート。どちらの経路でも同じ形。
type CartView struct {
	Items []model.ResolvedLine `json:"items"`
	Total float64              `json:"total"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// ログイン時にゲストカートをサーバーカートへ1回だけ取り込む。
// 既定はオフ（ゲストカートはそのまま残す）。
func WithMergeOnLogin() Option {
	return func(c *Client) { c.mergeOnLogin = true }
}

type Client struct {
	baseURL      string
	httpc        *http.Client
	store        Store
	mergeOnLogin bool

	mu    sync.Mutex
	token string
	guest GuestCart
	view  CartView // 最後に成功した状態。失敗時はここを変えない
}

func New(baseURL string, store Store, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}

	// トークンが無い起動時はローカルのゲストカートを読む
	if err := c.loadGuest(); err != nil {
		return nil, err
	}
	c.view = guestView(c.guest)

	return c, nil
}

func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// SetToken でログイン状態に切り替える。以降の操作はサーバーへ。
// マージが有効ならゲスト行を加算セマンティクスで取り込んでから
// ローカル保存を消す。無効ならゲストカートはそのまま放置される。
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token

	if c.mergeOnLogin && len(c.guest.Items) > 0 {
		for _, l := range c.guest.Items {
			body := map[string]interface{}{"itemId": l.ItemID, "quantity": l.Quantity}
			if _, err := c.doCart(ctx, http.MethodPost, "/cart", body); err != nil {
				return err
			}
		}
		c.guest = GuestCart{}
		if err := c.store.Remove(guestCartKey); err != nil {
			return err
		}
	}

	view, err := c.doCart(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return err
	}
	c.view = view
	return nil
}

// ClearToken でゲスト状態へ戻す。ローカルのゲストカートを読み直す。
func (c *Client) ClearToken() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	if err := c.loadGuest(); err != nil {
		return err
	}
	c.view = guestView(c.guest)
	return nil
}

// Cart は現在のカートを返す。認証時はサーバーから取り直す。
func (c *Client) Cart(ctx context.Context) (CartView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" {
		return c.view, nil
	}

	view, err := c.doCart(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return c.view, err
	}
	c.view = view
	return view, nil
}

// Add は追加（同一商品は数量加算）。ゲスト時はsnapで表示情報を渡す。
func (c *Client) Add(ctx context.Context, itemID string, qty int64, snap *ItemSnapshot) (CartView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty < 1 {
		return c.view, ErrInvalidQuantity
	}

	if c.token != "" {
		body := map[string]interface{}{"itemId": itemID, "quantity": qty}
		view, err := c.doCart(ctx, http.MethodPost, "/cart", body)
		if err != nil {
			return c.view, err
		}
		c.view = view
		return view, nil
	}

	found := false
	for i := range c.guest.Items {
		if c.guest.Items[i].ItemID == itemID {
			c.guest.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		c.guest.Items = append(c.guest.Items, Line{
			ItemID:   itemID,
			Snapshot: snap,
			Quantity: qty,
		})
	}

	return c.commitGuest()
}

// Remove は明細削除。ゲスト時は無い行の削除を成功扱いにする。
func (c *Client) Remove(ctx context.Context, itemID string) (CartView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		view, err := c.doCart(ctx, http.MethodDelete, "/cart/"+itemID, nil)
		if err != nil {
			return c.view, err
		}
		c.view = view
		return view, nil
	}

	kept := c.guest.Items[:0]
	for _, l := range c.guest.Items {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}
	c.guest.Items = kept

	return c.commitGuest()
}

// SetQuantity は数量の置き換え。0以下は削除と同じ。
func (c *Client) SetQuantity(ctx context.Context, itemID string, qty int64) (CartView, error) {
	if qty < 1 {
		return c.Remove(ctx, itemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		body := map[string]interface{}{"quantity": qty}
		view, err := c.doCart(ctx, http.MethodPatch, "/cart/"+itemID, body)
		if err != nil {
			return c.view, err
		}
		c.view = view
		return view, nil
	}

	for i := range c.guest.Items {
		if c.guest.Items[i].ItemID == itemID {
			c.guest.Items[i].Quantity = qty
			return c.commitGuest()
		}
	}

	// 無い行の数量変更は何もしない
	return c.view, nil
}

// ItemCount は数量の合計（行数ではない）。
func (c *Client) ItemCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CartItemCount(c.view.Items)
}

func (c *Client) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Total
}

// ゲストカートを保存してビューを更新。保存が失敗したら
// 以前のビューを保ったままエラーを返す。
func (c *Client) commitGuest() (CartView, error) {
	if c.guest.GuestID == "" {
		c.guest.GuestID = uuid.NewString()
	}

	b, err := json.Marshal(c.guest)
	if err != nil {
		return c.view, err
	}
	if err := c.store.Save(guestCartKey, b); err != nil {
		return c.view, err
	}

	c.view = guestView(c.guest)
	return c.view, nil
}

func (c *Client) loadGuest() error {
	c.guest = GuestCart{}

	b, ok, err := c.store.Load(guestCartKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(b, &c.guest)
}

func guestView(g GuestCart) CartView {
	lines := normalize(g.Items)
	return CartView{Items: lines, Total: model.CartTotal(lines)}
}

// サーバーのカートAPIを呼んでCartViewを返す。
func (c *Client) doCart(ctx context.Context, method string, path string, body interface{}) (CartView, error) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return CartView{}, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return CartView{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return CartView{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return CartView{}, &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	var view CartView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return CartView{}, err
	}
	if view.Items == nil {
		view.Items = []model.ResolvedLine{}
	}
	return view, nil
}
