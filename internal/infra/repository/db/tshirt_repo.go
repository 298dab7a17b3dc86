package db

import (
	"context"
	"errors"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"gorm.io/gorm"
)

type TshirtRepo struct {
	db *DbDao
}

func NewTshirtRepo(db *DbDao) *TshirtRepo {
	return &TshirtRepo{db: db}
}

// Create - 創建商品
func (s *TshirtRepo) CreateTshirt(ctx context.Context, tshirt *model.Tshirt) error {
	err := s.db.WithContext(ctx).Create(tshirt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSKUExists
	}
	return err
}

// Read - 根據ID查詢商品
func (s *TshirtRepo) GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error) {
	var tshirt model.Tshirt
	err := s.db.WithContext(ctx).First(&tshirt, "tshirt_id = ?", tshirtID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTshirtNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tshirt, nil
}

// Read - 根據SKU查詢商品
func (s *TshirtRepo) GetTshirtBySKU(ctx context.Context, sku string) (*model.Tshirt, error) {
	var tshirt model.Tshirt
	err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&tshirt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTshirtNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tshirt, nil
}

// Read - 查詢所有商品
func (s *TshirtRepo) GetAllTshirts(ctx context.Context) ([]model.Tshirt, error) {
	var tshirts []model.Tshirt
	err := s.db.WithContext(ctx).Find(&tshirts).Error
	return tshirts, err
}

// Read - 批次查詢 id ∈ set
func (s *TshirtRepo) GetTshirtsByIDs(ctx context.Context, tshirtIDs []string) ([]model.Tshirt, error) {
	var tshirts []model.Tshirt
	if len(tshirtIDs) == 0 {
		return tshirts, nil
	}
	err := s.db.WithContext(ctx).Where("tshirt_id IN ?", tshirtIDs).Find(&tshirts).Error
	return tshirts, err
}

// Update - 部分更新商品，只寫入有帶值的欄位
func (s *TshirtRepo) UpdateTshirtFields(ctx context.Context, tshirtID string, update *model.TshirtUpdate) error {
	fields := map[string]interface{}{}
	if update.SKU != nil {
		fields["sku"] = *update.SKU
	}
	if update.Gender != nil {
		fields["gender"] = *update.Gender
	}
	if update.Model != nil {
		fields["model"] = *update.Model
	}
	if update.Size != nil {
		fields["size"] = *update.Size
	}
	if update.CustomName != nil {
		fields["custom_name"] = *update.CustomName
	}
	if update.CustomNumber != nil {
		fields["custom_number"] = *update.CustomNumber
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Stock != nil {
		fields["stock"] = *update.Stock
	}
	if len(fields) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&model.Tshirt{}).
		Where("tshirt_id = ?", tshirtID).
		Updates(fields)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return ErrSKUExists
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTshirtNotFound
	}
	return nil
}

// Update - 條件式扣庫存
// 寫入條件帶上 stock >= quantity，兩個並發扣減不會互相蓋掉，也不會寫出負庫存
func (s *TshirtRepo) DeductStock(ctx context.Context, tshirtID string, quantity int) error {
	result := s.db.WithContext(ctx).Model(&model.Tshirt{}).
		Where("tshirt_id = ? AND stock >= ?", tshirtID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 沒命中，分辨是商品不存在還是庫存不足
		if _, err := s.GetTshirtByID(ctx, tshirtID); err != nil {
			return err
		}
		return ErrStockNotEnough
	}
	return nil
}

// Update - 加回庫存
func (s *TshirtRepo) RestoreStock(ctx context.Context, tshirtID string, quantity int) error {
	result := s.db.WithContext(ctx).Model(&model.Tshirt{}).
		Where("tshirt_id = ?", tshirtID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTshirtNotFound
	}
	return nil
}

// Delete - 軟刪除商品
func (s *TshirtRepo) DeleteTshirt(ctx context.Context, tshirtID string) error {
	result := s.db.WithContext(ctx).Where("tshirt_id = ?", tshirtID).Delete(&model.Tshirt{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTshirtNotFound
	}
	return nil
}

var _ ITshirtRepository = (*TshirtRepo)(nil)
