package db

import (
	"context"
	"errors"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"gorm.io/gorm"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// Create - 創建購物車，user_id 上有 unique index 擋住第二個購物車
func (s *CartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	err := s.db.WithContext(ctx).Create(cart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCartExists
	}
	return err
}

// Read - 根據使用者查詢購物車
func (s *CartRepo) GetCartByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Update - 整份覆寫購物車內容與彙總欄位
// 先刪舊 items 再寫新 items，包在同一個 transaction
func (s *CartRepo) ReplaceCartItems(ctx context.Context, cart *model.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Cart{}).
			Where("cart_id = ?", cart.CartID).
			Updates(map[string]interface{}{
				"total_items":  cart.TotalItems,
				"last_updated": cart.LastUpdated,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCartNotFound
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.CartID
		}
		return tx.Create(&cart.Items).Error
	})
}

// Read - 找出所有引用該商品的購物車，商品刪除的 fan-out 用
func (s *CartRepo) ListCartsByTshirtID(ctx context.Context, tshirtID string) ([]model.Cart, error) {
	var carts []model.Cart
	err := s.db.WithContext(ctx).Preload("Items").
		Joins("JOIN cart_items ON cart_items.cart_id = carts.cart_id").
		Where("cart_items.tshirt_id = ?", tshirtID).
		Find(&carts).Error
	return carts, err
}

var _ ICartRepository = (*CartRepo)(nil)
