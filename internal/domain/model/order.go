package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// 支払い方法。カードのみプロバイダ確認が必要。
type PaymentMethod string

const (
	PaymentMethodCredit PaymentMethod = "credit"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodBank   PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCredit, PaymentMethodPayPal, PaymentMethodBank:
		return true
	}
	return false
}

type Order struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	UserID      int64         `gorm:"not null;index;uniqueIndex:idx_orders_user_idem,priority:1" json:"user_id"`
	Status      OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	//税込合計（セント）
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	//カード決済のときだけプロバイダの決済参照を持つ
	PaymentReference string `gorm:"type:varchar(255)" json:"payment_reference,omitempty"`

	ShippingAddress string `gorm:"type:varchar(512);not null" json:"shipping_address"`

	//再送検知キー。ユーザーごとに一意（別ユーザーが同じキーを使っても衝突しない）
	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_orders_user_idem,priority:2" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
