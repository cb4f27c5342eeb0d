package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`

	//番地など
	Line1 string `gorm:"type:varchar(255);not null" json:"line1"`

	//建物名など
	Line2 string `gorm:"type:varchar(255)" json:"line2"`

	//市区町村
	City string `gorm:"type:varchar(100);not null" json:"city"`

	//州・都道府県
	State string `gorm:"type:varchar(100)" json:"state"`

	//郵便番号
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`

	//国コード（ISO 3166-1 alpha-2）
	Country string `gorm:"type:varchar(2);not null" json:"country"`

	//電話番号
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
