package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
	"github.com/igorpreis/Store-Back-End/internal/pkg/util"
)

type ITshirtService interface {
	GetAllTshirts(ctx context.Context) ([]model.Tshirt, error)
	GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error)
	CreateTshirt(ctx context.Context, actor Actor, tshirt *model.Tshirt) error
	// UpdateTshirt 回傳是否真的有欄位變動
	UpdateTshirt(ctx context.Context, actor Actor, tshirtID string, update *model.TshirtUpdate) (bool, error)
	DeleteTshirt(ctx context.Context, actor Actor, tshirtID string) (*CartCleanupResult, error)
}

// CartCleanupResult 商品刪除後購物車清理的逐車結果
// 每台購物車獨立更新，單台失敗不會擋住其他台，也不會回滾已完成的
type CartCleanupResult struct {
	TotalCount   int              `json:"total_count"`
	SuccessCarts []string         `json:"success_carts"`
	FailedCarts  map[string]error `json:"failed_carts"`
}

type TshirtService struct {
	tshirtRepo db.ITshirtRepository
	cartRepo   db.ICartRepository
}

func NewTshirtService(tshirtRepo db.ITshirtRepository, cartRepo db.ICartRepository) *TshirtService {
	return &TshirtService{tshirtRepo: tshirtRepo, cartRepo: cartRepo}
}

func (s *TshirtService) GetAllTshirts(ctx context.Context) ([]model.Tshirt, error) {
	tshirts, err := s.tshirtRepo.GetAllTshirts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to list t-shirts", err)
	}
	return tshirts, nil
}

func (s *TshirtService) GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error) {
	tshirt, err := s.tshirtRepo.GetTshirtByID(ctx, tshirtID)
	if err != nil {
		if errors.Is(err, db.ErrTshirtNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "product not found")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load t-shirt", err)
	}
	return tshirt, nil
}

// CreateTshirt 管理員新增商品，SKU 轉大寫、gender 轉小寫後檢查
func (s *TshirtService) CreateTshirt(ctx context.Context, actor Actor, tshirt *model.Tshirt) error {
	if err := Authorize(actor, Resource{Kind: ResourceCatalog}); err != nil {
		return err
	}

	tshirt.SKU = strings.ToUpper(tshirt.SKU)
	tshirt.Gender = model.Gender(strings.ToLower(string(tshirt.Gender)))
	if err := validateTshirt(tshirt.Gender, tshirt.Price, tshirt.Stock); err != nil {
		return err
	}

	tshirt.TshirtID = util.GenerateID()
	if err := s.tshirtRepo.CreateTshirt(ctx, tshirt); err != nil {
		if errors.Is(err, db.ErrSKUExists) {
			return apperr.New(apperr.ValidationCode, "this sku already exists in the database")
		}
		return apperr.Wrap(apperr.InternalCode, "failed to create the t-shirt in the database", err)
	}
	return nil
}

// UpdateTshirt 管理員部分更新商品
// 與現況完全相同時不寫入，回傳 changed=false
func (s *TshirtService) UpdateTshirt(ctx context.Context, actor Actor, tshirtID string, update *model.TshirtUpdate) (bool, error) {
	if err := Authorize(actor, Resource{Kind: ResourceCatalog}); err != nil {
		return false, err
	}
	if update.IsEmpty() {
		return false, apperr.New(apperr.ValidationCode, "no data was sent in the body")
	}

	current, err := s.tshirtRepo.GetTshirtByID(ctx, tshirtID)
	if err != nil {
		if errors.Is(err, db.ErrTshirtNotFound) {
			return false, apperr.Newf(apperr.NotFoundCode, "no item found with id: %s", tshirtID)
		}
		return false, apperr.Wrap(apperr.InternalCode, "failed to load t-shirt", err)
	}

	if update.SKU != nil {
		upper := strings.ToUpper(*update.SKU)
		update.SKU = &upper
	}
	if update.Gender != nil {
		lower := model.Gender(strings.ToLower(string(*update.Gender)))
		update.Gender = &lower
	}
	gender := current.Gender
	if update.Gender != nil {
		gender = *update.Gender
	}
	price := current.Price
	if update.Price != nil {
		price = *update.Price
	}
	stock := current.Stock
	if update.Stock != nil {
		stock = *update.Stock
	}
	if err := validateTshirt(gender, price, stock); err != nil {
		return false, err
	}

	if !tshirtChanged(current, update) {
		return false, nil
	}

	if err := s.tshirtRepo.UpdateTshirtFields(ctx, tshirtID, update); err != nil {
		if errors.Is(err, db.ErrSKUExists) {
			return false, apperr.New(apperr.ValidationCode, "this sku already exists in the database")
		}
		if errors.Is(err, db.ErrTshirtNotFound) {
			return false, apperr.Newf(apperr.NotFoundCode, "no item found with id: %s", tshirtID)
		}
		return false, apperr.Wrap(apperr.InternalCode, "failed to update the item in the database", err)
	}
	return true, nil
}

// DeleteTshirt 管理員刪除商品，並將商品從所有引用它的購物車移除
// fan-out 是逐車獨立的並發更新，收集每台的成敗，不保證全有全無
func (s *TshirtService) DeleteTshirt(ctx context.Context, actor Actor, tshirtID string) (*CartCleanupResult, error) {
	if err := Authorize(actor, Resource{Kind: ResourceCatalog}); err != nil {
		return nil, err
	}

	if _, err := s.tshirtRepo.GetTshirtByID(ctx, tshirtID); err != nil {
		if errors.Is(err, db.ErrTshirtNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "product not found")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load t-shirt", err)
	}

	carts, err := s.cartRepo.ListCartsByTshirtID(ctx, tshirtID)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to list carts referencing the t-shirt", err)
	}

	if err := s.tshirtRepo.DeleteTshirt(ctx, tshirtID); err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to delete the t-shirt", err)
	}

	result := s.cleanupCarts(ctx, tshirtID, carts)
	if len(result.FailedCarts) > 0 {
		log.Warn().Str("tshirt_id", tshirtID).
			Int("failed", len(result.FailedCarts)).
			Int("total", result.TotalCount).
			Msg("some carts could not be cleaned up after t-shirt deletion")
	}
	return result, nil
}

func (s *TshirtService) cleanupCarts(ctx context.Context, tshirtID string, carts []model.Cart) *CartCleanupResult {
	result := &CartCleanupResult{
		TotalCount:   len(carts),
		SuccessCarts: make([]string, 0, len(carts)),
		FailedCarts:  make(map[string]error),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := range carts {
		cart := carts[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			remaining := make([]model.CartItem, 0, len(cart.Items))
			for _, item := range cart.Items {
				if item.TshirtID != tshirtID {
					remaining = append(remaining, item)
				}
			}
			cart.Items = remaining
			cart.TotalItems = model.CalcTotalItems(remaining)
			cart.LastUpdated = time.Now().UTC()

			err := s.cartRepo.ReplaceCartItems(ctx, &cart)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedCarts[cart.CartID] = err
				return
			}
			result.SuccessCarts = append(result.SuccessCarts, cart.CartID)
		}()
	}
	wg.Wait()
	return result
}

func validateTshirt(gender model.Gender, price decimal.Decimal, stock int) error {
	if !gender.IsValid() {
		return apperr.New(apperr.ValidationCode, "gender must be one of male, female, child, unisex")
	}
	if price.IsNegative() {
		return apperr.New(apperr.ValidationCode, "price must not be negative")
	}
	if stock < 0 {
		return apperr.New(apperr.ValidationCode, "stock must not be negative")
	}
	return nil
}

func tshirtChanged(current *model.Tshirt, update *model.TshirtUpdate) bool {
	if update.SKU != nil && *update.SKU != current.SKU {
		return true
	}
	if update.Gender != nil && *update.Gender != current.Gender {
		return true
	}
	if update.Model != nil && *update.Model != current.Model {
		return true
	}
	if update.Size != nil && *update.Size != current.Size {
		return true
	}
	if update.CustomName != nil && *update.CustomName != current.CustomName {
		return true
	}
	if update.CustomNumber != nil && *update.CustomNumber != current.CustomNumber {
		return true
	}
	if update.Price != nil && !update.Price.Equal(current.Price) {
		return true
	}
	if update.Stock != nil && *update.Stock != current.Stock {
		return true
	}
	return false
}

var _ ITshirtService = (*TshirtService)(nil)
