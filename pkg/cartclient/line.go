package cartclient

import "shopcart/internal/domain/model"

// 商品表示情報のスナップショット。ゲストカートはカタログへ
// 問い合わせできない前提なので、追加時点の表示情報を行ごとに抱える。
type ItemSnapshot struct {
	ItemID      string  `json:"itemId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// カートの1行。Snapshotの有無で2形態をとる:
//   - Snapshotあり＝ローカル行（ゲスト。表示情報を内包）
//   - Snapshotなし＝リモート行（サーバーが解決する参照のみ）
type Line struct {
	ItemID   string        `json:"itemId"`
	Snapshot *ItemSnapshot `json:"snapshot,omitempty"`
	Quantity int64         `json:"quantity"`
}

// ローカル保存されるゲストカート本体。
type GuestCart struct {
	GuestID string `json:"guestId"`
	Items   []Line `json:"items"`
}

// normalizeで2形態を1つの形に揃えてから合計系の関数に渡す。
func normalize(lines []Line) []model.ResolvedLine {
	resolved := make([]model.ResolvedLine, 0, len(lines))
	for _, l := range lines {
		r := model.ResolvedLine{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
		}
		if l.Snapshot != nil {
			r.Title = l.Snapshot.Title
			r.Price = l.Snapshot.Price
			r.Image = l.Snapshot.Image
		}
		resolved = append(resolved, r)
	}
	return resolved
}
