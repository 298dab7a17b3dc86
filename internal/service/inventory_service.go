package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
)

// IInventoryService 庫存一致性引擎
// 可用性/存在性檢查是純讀取，扣補庫存逐行獨立寫入，沒有跨行的原子性
type IInventoryService interface {
	// CheckAvailability 回傳需求量超過現有庫存的 tshirt id，不存在的商品視同無庫存
	CheckAvailability(ctx context.Context, items []model.CartItem) ([]string, error)
	// VerifyTshirtIDs 逐一核對 id 是否存在於目錄
	VerifyTshirtIDs(ctx context.Context, items []model.CartItem) (bool, []string, error)
	// DeductStock 逐行條件式扣庫存
	DeductStock(ctx context.Context, items []model.OrderItem) error
	// RestoreStock 逐行加回庫存
	RestoreStock(ctx context.Context, items []model.OrderItem) error
}

type InventoryService struct {
	tshirtRepo db.ITshirtRepository
}

func NewInventoryService(tshirtRepo db.ITshirtRepository) *InventoryService {
	return &InventoryService{tshirtRepo: tshirtRepo}
}

func (s *InventoryService) CheckAvailability(ctx context.Context, items []model.CartItem) ([]string, error) {
	var noStock []string
	for _, item := range items {
		tshirt, err := s.tshirtRepo.GetTshirtByID(ctx, item.TshirtID)
		if errors.Is(err, db.ErrTshirtNotFound) {
			noStock = append(noStock, item.TshirtID)
			continue
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.InternalCode, "failed to check stock", err)
		}
		if item.Quantity > tshirt.Stock {
			noStock = append(noStock, item.TshirtID)
		}
	}
	return noStock, nil
}

func (s *InventoryService) VerifyTshirtIDs(ctx context.Context, items []model.CartItem) (bool, []string, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.TshirtID
	}

	found, err := s.tshirtRepo.GetTshirtsByIDs(ctx, ids)
	if err != nil {
		return false, nil, apperr.Wrap(apperr.InternalCode, "failed to verify t-shirt ids", err)
	}
	if len(found) == len(ids) {
		return true, nil, nil
	}

	existing := make(map[string]struct{}, len(found))
	for _, tshirt := range found {
		existing[tshirt.TshirtID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return false, missing, nil
}

// DeductStock 每一行獨立套用 check-and-set
// 第一行就失敗時沒有任何寫入，可以回乾淨的 stock 錯誤
// 中途失敗代表前面的行已經扣掉，回報 partial write 由上層補償
func (s *InventoryService) DeductStock(ctx context.Context, items []model.OrderItem) error {
	for i, item := range items {
		err := s.tshirtRepo.DeductStock(ctx, item.TshirtID, item.Quantity)
		if err == nil {
			continue
		}
		if i == 0 {
			if errors.Is(err, db.ErrStockNotEnough) || errors.Is(err, db.ErrTshirtNotFound) {
				return apperr.WithItems(apperr.StockCode, "items out of stock", []string{item.TshirtID})
			}
			return apperr.Wrap(apperr.InternalCode, "failed to deduct stock", err)
		}
		return apperr.Wrap(apperr.PartialWriteCode,
			fmt.Sprintf("stock deduction failed at t-shirt %s after %d lines were already applied", item.TshirtID, i), err)
	}
	return nil
}

func (s *InventoryService) RestoreStock(ctx context.Context, items []model.OrderItem) error {
	for i, item := range items {
		err := s.tshirtRepo.RestoreStock(ctx, item.TshirtID, item.Quantity)
		if err == nil {
			continue
		}
		if i == 0 {
			return apperr.Wrap(apperr.InternalCode, "failed to restore stock", err)
		}
		return apperr.Wrap(apperr.PartialWriteCode,
			fmt.Sprintf("stock restore failed at t-shirt %s after %d lines were already applied", item.TshirtID, i), err)
	}
	return nil
}

var _ IInventoryService = (*InventoryService)(nil)
