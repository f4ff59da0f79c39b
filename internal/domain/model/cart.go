package model

import (
	"math"
	"time"
)

// 1ユーザーにつきカートは1つ
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カートの明細。
// 同一カート内で同じ商品は1行だけ（cart_id + item_id でユニーク）。
// quantityは常に1以上。0以下になる行は削除する。
type CartLine struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;uniqueIndex:uq_cart_item" json:"cart_id"`
	ItemID    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_cart_item" json:"item_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 表示用に商品情報を解決済みの明細。
// サーバーのレスポンス組み立てとクライアントのゲストカート正規化の
// 両方がこの形に揃えてから合計系の関数を使う。
type ResolvedLine struct {
	ItemID   string  `json:"itemId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int64   `json:"quantity"`
}

// 合計金額。積算は丸めず、最後に小数2桁へ丸める。
func CartTotal(lines []ResolvedLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return math.Round(sum*100) / 100
}

// 数量の合計（行数ではない）
func CartItemCount(lines []ResolvedLine) int64 {
	var n int64
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
