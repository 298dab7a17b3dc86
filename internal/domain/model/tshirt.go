package model

import (
	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderChild  Gender = "child"
	GenderUnisex Gender = "unisex"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderChild, GenderUnisex:
		return true
	}
	return false
}

type Tshirt struct {
	TshirtID     string          `gorm:"primaryKey;type:varchar(255)" json:"tshirt_id"`
	SKU          string          `gorm:"not null;type:varchar(100);unique" json:"sku"`
	Gender       Gender          `gorm:"not null;type:varchar(10)" json:"gender"`
	Model        string          `gorm:"not null;type:varchar(100)" json:"model"`
	Size         string          `gorm:"not null;type:varchar(10)" json:"size"`
	CustomName   string          `gorm:"not null;type:varchar(100)" json:"custom_name"`
	CustomNumber int             `gorm:"not null" json:"custom_number"`
	Price        decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock        int             `gorm:"not null;type:int" json:"stock"`
	BaseModel
}

// TshirtUpdate 部分更新用，nil 欄位表示不更新
type TshirtUpdate struct {
	SKU          *string          `json:"sku,omitempty"`
	Gender       *Gender          `json:"gender,omitempty"`
	Model        *string          `json:"model,omitempty"`
	Size         *string          `json:"size,omitempty"`
	CustomName   *string          `json:"custom_name,omitempty"`
	CustomNumber *int             `json:"custom_number,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Stock        *int             `json:"stock,omitempty"`
}

// IsEmpty 所有欄位皆為 nil 時不需要更新
func (u *TshirtUpdate) IsEmpty() bool {
	return u.SKU == nil && u.Gender == nil && u.Model == nil && u.Size == nil &&
		u.CustomName == nil && u.CustomNumber == nil && u.Price == nil && u.Stock == nil
}
