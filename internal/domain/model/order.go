package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
)

// PAID / FAILED は終端。終端からの遷移は無い。
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//外部に見せる注文番号（UUID）
	OrderNumber string `gorm:"type:uuid;not null;uniqueIndex" json:"order_number"`

	AddressID int64       `gorm:"not null" json:"address_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	TotalPrice int64  `gorm:"not null" json:"total_price"`
	Currency   string `gorm:"type:varchar(3);not null" json:"currency"`

	//決済プロバイダのセッションID（webhookの照合キー）
	CheckoutSessionID string `gorm:"type:varchar(255);uniqueIndex" json:"-"`

	//プロバイダのホスト型決済ページURL
	CheckoutURL string `gorm:"type:text" json:"checkout_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
