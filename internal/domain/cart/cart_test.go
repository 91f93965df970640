package cart_test

import (
	"testing"

	"shoplite/internal/domain/cart"

	"github.com/stretchr/testify/assert"
)

func snapshot(id int64, name string, price int64) cart.ProductSnapshot {
	return cart.ProductSnapshot{ID: id, Name: name, Price: price}
}

// 合計値が常にitemsと一致していることを確認するヘルパー
func assertTotalsConsistent(t *testing.T, c *cart.Cart) {
	t.Helper()
	items := c.Items()
	assert.Equal(t, cart.ItemCount(items), c.TotalItems())
	assert.Equal(t, cart.Subtotal(items), c.TotalAmount())
}

// =====================
// AddItem
// =====================

func TestCart_AddItem_NewLine(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)

	items := c.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, int64(1500), items[0].UnitPrice)
	assert.Equal(t, int64(2), c.TotalItems())
	assert.Equal(t, int64(3000), c.TotalAmount())
	assertTotalsConsistent(t, c)
}

func TestCart_AddItem_SameProductMergesQuantity(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)
	c.AddItem(snapshot(1, "mug", 1500), 3)

	//行は増えず数量が2+3=5になる
	items := c.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(5), items[0].Quantity)
	assert.Equal(t, int64(7500), c.TotalAmount())
	assertTotalsConsistent(t, c)
}

func TestCart_AddItem_KeepsInsertionOrder(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(3, "c", 100), 1)
	c.AddItem(snapshot(1, "a", 100), 1)
	c.AddItem(snapshot(2, "b", 100), 1)
	//既存行への加算は順序を変えない
	c.AddItem(snapshot(1, "a", 100), 1)

	items := c.Items()
	assert.Equal(t, []int64{3, 1, 2}, []int64{items[0].ProductID, items[1].ProductID, items[2].ProductID})
}

func TestCart_AddItem_NonPositiveQuantityIsNoOp(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 0)
	c.AddItem(snapshot(2, "cap", 900), -1)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalItems())
	assert.Equal(t, int64(0), c.TotalAmount())
}

func TestCart_AddItem_PriceSnapshotNotAffectedByLaterPrice(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 1)

	//2回目の追加で単価が変わっていても、行の単価は追加時点のまま
	c.AddItem(snapshot(1, "mug", 9999), 1)

	items := c.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(1500), items[0].UnitPrice)
	assert.Equal(t, int64(3000), c.TotalAmount())
}

// =====================
// SetItemQuantity
// =====================

func TestCart_SetItemQuantity_Overwrites(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)
	c.SetItemQuantity(1, 7)

	assert.Equal(t, int64(7), c.TotalItems())
	assert.Equal(t, int64(10500), c.TotalAmount())
	assertTotalsConsistent(t, c)
}

func TestCart_SetItemQuantity_ZeroRemovesLine(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)
	c.AddItem(snapshot(2, "cap", 900), 1)

	c.SetItemQuantity(1, 0)

	items := c.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(2), items[0].ProductID)
	assertTotalsConsistent(t, c)
}

func TestCart_SetItemQuantity_NegativeRemovesLine(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)

	c.SetItemQuantity(1, -5)

	assert.True(t, c.IsEmpty())
}

func TestCart_SetItemQuantity_UnknownProductIsNoOp(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)

	c.SetItemQuantity(99, 3)

	assert.Equal(t, int64(2), c.TotalItems())
	assert.Equal(t, int64(3000), c.TotalAmount())
}

// =====================
// RemoveItem / Clear
// =====================

func TestCart_RemoveItem(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)
	c.AddItem(snapshot(2, "cap", 900), 1)

	c.RemoveItem(1)

	items := c.Items()
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, int64(900), c.TotalAmount())
	assertTotalsConsistent(t, c)
}

func TestCart_RemoveItem_UnknownProductIsNoOp(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)

	c.RemoveItem(99)

	assert.Equal(t, int64(3000), c.TotalAmount())
}

func TestCart_Clear(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)
	c.AddItem(snapshot(2, "cap", 900), 3)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalItems())
	assert.Equal(t, int64(0), c.TotalAmount())
}

func TestCart_Items_ReturnsCopy(t *testing.T) {
	c := cart.New()
	c.AddItem(snapshot(1, "mug", 1500), 2)

	items := c.Items()
	items[0].Quantity = 100

	//内部状態は変わらない
	assert.Equal(t, int64(2), c.TotalItems())
	assert.Equal(t, int64(2), c.Items()[0].Quantity)
}

// =====================
// 派生計算（税・合計）
// =====================

func TestTotals_TaxAndGrandTotal(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: 1, UnitPrice: 1500, Quantity: 2}, // 30.00
		{ProductID: 2, UnitPrice: 1500, Quantity: 1}, // 15.00
	}

	subtotal := cart.Subtotal(items)
	assert.Equal(t, int64(4500), subtotal)           // 45.00
	assert.Equal(t, int64(450), cart.Tax(subtotal, 10))        // 4.50
	assert.Equal(t, int64(4950), cart.GrandTotal(subtotal, 10)) // 49.50
}

func TestTotals_ExactAtRoundNumbers(t *testing.T) {
	//100.00の10%はちょうど110.00（誤差なし）
	assert.Equal(t, int64(11000), cart.GrandTotal(10000, 10))
}

func TestTotals_EmptyCart(t *testing.T) {
	assert.Equal(t, int64(0), cart.Subtotal(nil))
	assert.Equal(t, int64(0), cart.ItemCount(nil))
	assert.Equal(t, int64(0), cart.Tax(0, 10))
	assert.Equal(t, int64(0), cart.GrandTotal(0, 10))
}
