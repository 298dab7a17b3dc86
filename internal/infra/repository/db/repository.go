package db

import (
	"context"
	"errors"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

var (
	// ErrTshirtNotFound 商品不存在
	ErrTshirtNotFound = errors.New("tshirt not found")
	// ErrStockNotEnough 庫存不足，條件式更新沒有命中任何列
	ErrStockNotEnough = errors.New("tshirt stock not enough")
	// ErrSKUExists SKU 已存在
	ErrSKUExists = errors.New("this sku already exists")
	// ErrCartNotFound 使用者沒有購物車
	ErrCartNotFound = errors.New("that user has no cart")
	// ErrCartExists 同一使用者已有購物車
	ErrCartExists = errors.New("this user already has a cart")
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStateChanged 狀態轉移寫入時 status 已被其他請求改掉
	ErrOrderStateChanged = errors.New("order status no longer matches expected state")
	// ErrUserNotFound 使用者不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists email 已被註冊
	ErrEmailExists = errors.New("this email exists in the database")
)

// ITshirtRepository 商品目錄與庫存操作介面
type ITshirtRepository interface {
	CreateTshirt(ctx context.Context, tshirt *model.Tshirt) error
	GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error)
	GetTshirtBySKU(ctx context.Context, sku string) (*model.Tshirt, error)
	GetAllTshirts(ctx context.Context) ([]model.Tshirt, error)
	// GetTshirtsByIDs 批次存在性查詢 id ∈ set
	GetTshirtsByIDs(ctx context.Context, tshirtIDs []string) ([]model.Tshirt, error)
	UpdateTshirtFields(ctx context.Context, tshirtID string, update *model.TshirtUpdate) error
	// DeductStock 條件式扣庫存，stock < quantity 時整筆寫入不生效
	DeductStock(ctx context.Context, tshirtID string, quantity int) error
	// RestoreStock 加回庫存
	RestoreStock(ctx context.Context, tshirtID string, quantity int) error
	DeleteTshirt(ctx context.Context, tshirtID string) error
}

// ICartRepository 購物車操作介面，每個使用者最多一個購物車
type ICartRepository interface {
	CreateCart(ctx context.Context, cart *model.Cart) error
	GetCartByUserID(ctx context.Context, userID string) (*model.Cart, error)
	// ReplaceCartItems 整份覆寫購物車內容 (replace 不是 merge)
	ReplaceCartItems(ctx context.Context, cart *model.Cart) error
	// ListCartsByTshirtID 找出所有引用該商品的購物車
	ListCartsByTshirtID(ctx context.Context, tshirtID string) ([]model.Cart, error)
}

// IOrderRepository 訂單操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	// UpdateOrderStatus 條件式狀態轉移，from 不符時回 ErrOrderStateChanged
	UpdateOrderStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error
}

// IUserRepository 使用者操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
