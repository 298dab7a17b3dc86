package model

import (
	"time"
)

// Cart 每個使用者最多一個購物車
// 建立 Order 後購物車會被清空（items 清空，document 保留）
type Cart struct {
	CartID      string     `gorm:"primaryKey;type:varchar(255)" json:"cart_id"`
	UserID      string     `gorm:"not null;type:varchar(255);uniqueIndex" json:"user_id"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"tshirts"`
	TotalItems  int        `gorm:"not null;default:0" json:"total_items"`
	LastUpdated time.Time  `gorm:"not null" json:"last_updated"`
	BaseModel
}

type CartItem struct {
	CartID   string `gorm:"primaryKey;type:varchar(255)" json:"-"`
	TshirtID string `gorm:"primaryKey;type:varchar(255)" json:"tshirt_id"`
	Quantity int    `gorm:"not null" json:"quantity"`
}

// CalcTotalItems 加總所有品項數量
func CalcTotalItems(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
