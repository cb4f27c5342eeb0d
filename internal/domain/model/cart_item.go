package model

import "time"

// カートの明細。
// 価格は持たない。チェックアウトまでは常に商品の現在価格で計算する。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index" json:"cart_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
