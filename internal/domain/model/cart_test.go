package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	lines := []ResolvedLine{
		{ItemID: "a", Price: 10.00, Quantity: 2},
		{ItemID: "b", Price: 5.50, Quantity: 3},
	}

	assert.Equal(t, 36.50, CartTotal(lines))
}

func TestCartTotal_RoundsOnlyAtTheEnd(t *testing.T) {
	// 0.1を3つ: 途中で丸めると誤差が出る組み合わせ
	lines := []ResolvedLine{
		{ItemID: "a", Price: 0.1, Quantity: 3},
	}

	assert.Equal(t, 0.30, CartTotal(lines))
}

func TestCartTotal_Empty(t *testing.T) {
	assert.Equal(t, 0.0, CartTotal(nil))
	assert.Equal(t, 0.0, CartTotal([]ResolvedLine{}))
}

func TestCartItemCount_SumsQuantities(t *testing.T) {
	lines := []ResolvedLine{
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 3},
	}

	// 行数（2）ではなく数量合計（5）
	assert.Equal(t, int64(5), CartItemCount(lines))
}

func TestCartItemCount_Empty(t *testing.T) {
	assert.Equal(t, int64(0), CartItemCount(nil))
}
