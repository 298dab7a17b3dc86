package model

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced   OrderStatus = "placed"   // 已下單，唯一初始狀態
	OrderStatusPaid     OrderStatus = "paid"     // 已付款，終態
	OrderStatusCanceled OrderStatus = "canceled" // 已取消，終態
)

type OrderAction string

const (
	OrderActionPay    OrderAction = "pay"
	OrderActionCancel OrderAction = "cancel"
)

var (
	ErrOrderAlreadyCanceled = errors.New("this order has already been cancelled")
	ErrOrderNotPlaced       = errors.New("only orders with placed status can be transitioned")
	ErrUnknownOrderAction   = errors.New("unknown order action")
)

// NextStatus 訂單狀態機唯一入口
// 只允許 placed -> paid 與 placed -> canceled
func NextStatus(current OrderStatus, action OrderAction) (OrderStatus, error) {
	if current == OrderStatusCanceled {
		return current, ErrOrderAlreadyCanceled
	}
	if current != OrderStatusPlaced {
		return current, ErrOrderNotPlaced
	}
	switch action {
	case OrderActionPay:
		return OrderStatusPaid, nil
	case OrderActionCancel:
		return OrderStatusCanceled, nil
	default:
		return current, ErrUnknownOrderAction
	}
}

// 葡萄牙郵遞區號格式 ex: 1234-567
var postalCodePattern = regexp.MustCompile(`^\d{4}-\d{3}$`)

const allowedCountry = "Portugal"

type ShippingAddress struct {
	Street     string `gorm:"not null;type:varchar(255)" json:"street"`
	City       string `gorm:"not null;type:varchar(100)" json:"city"`
	District   string `gorm:"not null;type:varchar(100)" json:"district"`
	PostalCode string `gorm:"not null;type:varchar(10)" json:"postalCode"`
	Country    string `gorm:"not null;type:varchar(50)" json:"country"`
}

var (
	ErrInvalidPostalCode = errors.New("postal code must match the format 1234-567")
	ErrInvalidCountry    = errors.New("country must be Portugal")
	ErrAddressIncomplete = errors.New("street, city and district are required")
)

func (a ShippingAddress) Validate() error {
	if a.Street == "" || a.City == "" || a.District == "" {
		return ErrAddressIncomplete
	}
	if !postalCodePattern.MatchString(a.PostalCode) {
		return ErrInvalidPostalCode
	}
	if a.Country != allowedCountry {
		return ErrInvalidCountry
	}
	return nil
}

// Order 從購物車快照而來，TotalPrice 建立時計算一次後不再變動
type Order struct {
	OrderID         string          `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	UserID          string          `gorm:"not null;type:varchar(255);index" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"tshirts"`
	Status          OrderStatus     `gorm:"not null;type:varchar(20);default:placed" json:"status"`
	Timestamp       time.Time       `gorm:"not null" json:"timestamp"`
	TotalPrice      decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_price"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BaseModel
}

type OrderItem struct {
	OrderID  string `gorm:"primaryKey;type:varchar(255)" json:"-"`
	TshirtID string `gorm:"primaryKey;type:varchar(255)" json:"tshirt_id"`
	Quantity int    `gorm:"not null" json:"quantity"`
}
