package service

import (
	"context"
	"errors"
	"time"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
	"github.com/igorpreis/Store-Back-End/internal/pkg/util"
)

type ICartService interface {
	CreateCart(ctx context.Context, actor Actor, items []model.CartItem) (*model.Cart, error)
	UpdateCart(ctx context.Context, actor Actor, items []model.CartItem) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, actor Actor, tshirtID string) (*model.Cart, error)
	GetCart(ctx context.Context, actor Actor) (*model.Cart, error)
}

type CartService struct {
	cartRepo  db.ICartRepository
	inventory IInventoryService
}

func NewCartService(cartRepo db.ICartRepository, inventory IInventoryService) *CartService {
	return &CartService{cartRepo: cartRepo, inventory: inventory}
}

// 品項共通驗證，數量至少 1、同一商品不可重複出現
func validateCartItems(items []model.CartItem) error {
	for _, item := range items {
		if item.TshirtID == "" {
			return apperr.New(apperr.ValidationCode, "every item must carry a t-shirt id")
		}
		if item.Quantity < 1 {
			return apperr.Newf(apperr.ValidationCode, "quantity for t-shirt %s must be at least 1", item.TshirtID)
		}
	}
	if found, duplicates := util.DuplicateTshirtIDs(items); found {
		return apperr.WithItems(apperr.ValidationCode, "duplicate t-shirt ids are not allowed", duplicates)
	}
	return nil
}

// CreateCart 建立購物車，一個使用者只能有一個
// 建立時會做即時庫存檢查
func (s *CartService) CreateCart(ctx context.Context, actor Actor, items []model.CartItem) (*model.Cart, error) {
	if err := Authorize(actor, Resource{Kind: ResourceCart}); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.New(apperr.ValidationCode, "t-shirts must be a non-empty array")
	}
	if err := validateCartItems(items); err != nil {
		return nil, err
	}

	noStock, err := s.inventory.CheckAvailability(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(noStock) > 0 {
		return nil, apperr.WithItems(apperr.StockCode, "items out of stock", noStock)
	}

	cart := &model.Cart{
		CartID:      util.GenerateID(),
		UserID:      actor.UserID,
		Items:       items,
		TotalItems:  model.CalcTotalItems(items),
		LastUpdated: time.Now().UTC(),
	}
	if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
		if errors.Is(err, db.ErrCartExists) {
			return nil, apperr.New(apperr.ConflictCode, "this user already has a cart, please make a put instead of a post")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to create cart in database", err)
	}
	return cart, nil
}

// UpdateCart 整份覆寫購物車內容 (replace 不是 merge)
// 只驗證品項存在於目錄，不重檢即時庫存 — 與建立時行為不同，下單時會再擋
func (s *CartService) UpdateCart(ctx context.Context, actor Actor, items []model.CartItem) (*model.Cart, error) {
	if err := Authorize(actor, Resource{Kind: ResourceCart}); err != nil {
		return nil, err
	}
	if err := validateCartItems(items); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, db.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "that user has no cart")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load cart", err)
	}

	ok, missing, err := s.inventory.VerifyTshirtIDs(ctx, items)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.WithItems(apperr.NotFoundCode, "t-shirt ids do not exist in the database", missing)
	}

	cart.Items = items
	cart.TotalItems = model.CalcTotalItems(items)
	cart.LastUpdated = time.Now().UTC()
	if err := s.cartRepo.ReplaceCartItems(ctx, cart); err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to update cart in the database", err)
	}
	return cart, nil
}

// RemoveCartItem 從購物車移除單一品項並重算 totalItems
func (s *CartService) RemoveCartItem(ctx context.Context, actor Actor, tshirtID string) (*model.Cart, error) {
	if err := Authorize(actor, Resource{Kind: ResourceCart}); err != nil {
		return nil, err
	}
	if tshirtID == "" {
		return nil, apperr.New(apperr.ValidationCode, "please provide a valid t-shirt id to delete")
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, db.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "that user has no cart")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load cart", err)
	}

	remaining := make([]model.CartItem, 0, len(cart.Items))
	removed := false
	for _, item := range cart.Items {
		if item.TshirtID == tshirtID {
			removed = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !removed {
		return nil, apperr.Newf(apperr.NotFoundCode, "t-shirt with id %s not found in the cart", tshirtID)
	}

	cart.Items = remaining
	cart.TotalItems = model.CalcTotalItems(remaining)
	cart.LastUpdated = time.Now().UTC()
	if err := s.cartRepo.ReplaceCartItems(ctx, cart); err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to update cart in the database", err)
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, actor Actor) (*model.Cart, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, db.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "that user has no cart")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load cart", err)
	}
	return cart, nil
}

var _ ICartService = (*CartService)(nil)
