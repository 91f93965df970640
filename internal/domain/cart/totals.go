package cart

// 金額は全てセント単位のint64。
// 税率は整数パーセント（10 = 10%）なので浮動小数の誤差が出ない。

// Subtotal は明細の合計額（数量 × 追加時点の単価）。
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Quantity * it.UnitPrice
	}
	return sum
}

// ItemCount は数量の合計。
func ItemCount(items []LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Quantity
	}
	return sum
}

// Tax は税額。
func Tax(subtotal int64, ratePercent int64) int64 {
	return subtotal * ratePercent / 100
}

// GrandTotal は税込合計。
func GrandTotal(subtotal int64, ratePercent int64) int64 {
	return subtotal + Tax(subtotal, ratePercent)
}
