package cart

// カート1行分。price/nameは追加時点のスナップショット。
type LineItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
}

// ProductSnapshot はカートに積む時点の商品情報。
// 以後の商品価格変更はカートに影響しない。
type ProductSnapshot struct {
	ID       int64
	Name     string
	ImageURL string
	Price    int64
}

// Cart はセッション内のカート状態。
// items と合計値は常に一致させる（毎回の変更後にrecomputeで全再計算）。
// 同一商品は1行まで。数量0の行は保持しない。
type Cart struct {
	items       []LineItem
	totalItems  int64
	totalAmount int64
}

func New() *Cart {
	return &Cart{items: []LineItem{}}
}

// AddItem は商品を追加（同一商品は数量加算、追加順を保持）。
// qty <= 0 は行を作らない（再計算だけ行う）。
func (c *Cart) AddItem(p ProductSnapshot, qty int64) {
	if qty > 0 {
		if idx := c.indexOf(p.ID); idx >= 0 {
			c.items[idx].Quantity += qty
		} else {
			c.items = append(c.items, LineItem{
				ProductID: p.ID,
				Name:      p.Name,
				ImageURL:  p.ImageURL,
				UnitPrice: p.Price,
				Quantity:  qty,
			})
		}
	}
	c.recompute()
}

// SetItemQuantity は数量を上書き。qty <= 0 は行削除。
// 対象が無ければ何もしない（エラーにもしない）。
func (c *Cart) SetItemQuantity(productID int64, qty int64) {
	idx := c.indexOf(productID)
	if idx >= 0 {
		if qty > 0 {
			c.items[idx].Quantity = qty
		} else {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
		}
	}
	c.recompute()
}

// RemoveItem は行を削除。無ければ何もしない。
func (c *Cart) RemoveItem(productID int64) {
	idx := c.indexOf(productID)
	if idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
	c.recompute()
}

// Clear は全行を削除して合計を0に戻す。
func (c *Cart) Clear() {
	c.items = []LineItem{}
	c.recompute()
}

// Items は明細のコピーを返す（呼び出し側の変更を内部に反映させない）。
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) TotalItems() int64 {
	return c.totalItems
}

func (c *Cart) TotalAmount() int64 {
	return c.totalAmount
}

// 合計は差分更新せず、毎回itemsから全再計算する。
func (c *Cart) recompute() {
	c.totalItems = ItemCount(c.items)
	c.totalAmount = Subtotal(c.items)
}

func (c *Cart) indexOf(productID int64) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
