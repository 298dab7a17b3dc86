package db

import (
	"context"
	"errors"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"gorm.io/gorm"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 查詢所有訂單
func (s *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").Find(&orders).Error
	return orders, err
}

// Update - 條件式狀態轉移
// 寫入條件帶上預期的前一個狀態，兩個並發 pay/cancel 只有一個會成功
// 另一個拿到 ErrOrderStateChanged 而不是默默蓋掉終態
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.GetOrderByID(ctx, orderID); err != nil {
			return err
		}
		return ErrOrderStateChanged
	}
	return nil
}

var _ IOrderRepository = (*OrderRepo)(nil)
