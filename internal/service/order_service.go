package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/producer"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
	"github.com/igorpreis/Store-Back-End/internal/pkg/util"
)

type IOrderService interface {
	CreateOrder(ctx context.Context, actor Actor, address model.ShippingAddress) (*model.Order, error)
	PayOrder(ctx context.Context, actor Actor, orderID string) (*model.Order, error)
	CancelOrder(ctx context.Context, actor Actor, orderID string) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
}

type OrderService struct {
	orderRepo  db.IOrderRepository
	cartRepo   db.ICartRepository
	tshirtRepo db.ITshirtRepository
	inventory  IInventoryService
	events     producer.IOrderEventProducer
}

func NewOrderService(
	orderRepo db.IOrderRepository,
	cartRepo db.ICartRepository,
	tshirtRepo db.ITshirtRepository,
	inventory IInventoryService,
	events producer.IOrderEventProducer,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		tshirtRepo: tshirtRepo,
		inventory:  inventory,
		events:     events,
	}
}

// calculateTotalPrice 以當下目錄價格計算 Σ(quantity × price)，四捨五入到兩位
// 結果寫進訂單後不再重算，之後目錄改價不影響已建立的訂單
func (s *OrderService) calculateTotalPrice(ctx context.Context, items []model.CartItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		tshirt, err := s.tshirtRepo.GetTshirtByID(ctx, item.TshirtID)
		if errors.Is(err, db.ErrTshirtNotFound) {
			return decimal.Zero, apperr.WithItems(apperr.NotFoundCode, "t-shirt ids do not exist in the database", []string{item.TshirtID})
		}
		if err != nil {
			return decimal.Zero, apperr.Wrap(apperr.InternalCode, "failed to load t-shirt price", err)
		}
		total = total.Add(tshirt.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2), nil
}

// CreateOrder 從使用者的購物車建立訂單
// 快照品項與總價 → 扣庫存 → 寫入訂單 → 清空購物車
// 跨越寫入邊界後的失敗不做 rollback，以 partial write 錯誤浮出
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, address model.ShippingAddress) (*model.Order, error) {
	if err := Authorize(actor, Resource{Kind: ResourceOrder}); err != nil {
		return nil, err
	}
	if err := address.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ValidationCode, err.Error(), err)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, db.ErrCartNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "that user has no cart")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperr.New(apperr.StockCode, "this cart does not have any shirts to place an order")
	}

	noStock, err := s.inventory.CheckAvailability(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	if len(noStock) > 0 {
		return nil, apperr.WithItems(apperr.StockCode, "items out of stock", noStock)
	}

	totalPrice, err := s.calculateTotalPrice(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderID:         util.GenerateID(),
		UserID:          actor.UserID,
		Items:           snapshotCartItems(cart.Items),
		Status:          model.OrderStatusPlaced,
		Timestamp:       time.Now().UTC(),
		TotalPrice:      totalPrice,
		ShippingAddress: address,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.OrderID
	}

	// 第一個寫入邊界，這之後的失敗都是 partial write
	if err := s.inventory.DeductStock(ctx, order.Items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("order insert failed after stock was deducted")
		return nil, apperr.Wrap(apperr.PartialWriteCode, "stock was deducted but the order could not be created", err)
	}

	cart.Items = nil
	cart.TotalItems = 0
	cart.LastUpdated = time.Now().UTC()
	if err := s.cartRepo.ReplaceCartItems(ctx, cart); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("cart clear failed after order was created")
		return nil, apperr.Wrap(apperr.PartialWriteCode, "order was created but the cart could not be emptied", err)
	}

	if err := s.events.OrderPlaced(ctx, order); err != nil {
		log.Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to publish order placed event")
	}
	return order, nil
}

// PayOrder placed -> paid，除了狀態寫入沒有其他副作用
func (s *OrderService) PayOrder(ctx context.Context, actor Actor, orderID string) (*model.Order, error) {
	order, err := s.transition(ctx, actor, orderID, model.OrderActionPay)
	if err != nil {
		return nil, err
	}
	if err := s.events.OrderStatusChanged(ctx, producer.OrderEventPaid, order.OrderID, order.UserID); err != nil {
		log.Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to publish order paid event")
	}
	return order, nil
}

// CancelOrder placed -> canceled，並把快照裡的數量加回庫存
// 加回的是下單當下的數量，跟目錄現況無關
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, orderID string) (*model.Order, error) {
	order, err := s.transition(ctx, actor, orderID, model.OrderActionCancel)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.RestoreStock(ctx, order.Items); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("stock restore failed after order was canceled")
		return nil, apperr.Wrap(apperr.PartialWriteCode, "order was canceled but stock could not be fully restored", err)
	}
	if err := s.events.OrderStatusChanged(ctx, producer.OrderEventCanceled, order.OrderID, order.UserID); err != nil {
		log.Warn().Err(err).Str("order_id", order.OrderID).Msg("failed to publish order canceled event")
	}
	return order, nil
}

// transition 擁有權檢查 + 狀態機 + 條件式狀態寫入
func (s *OrderService) transition(ctx context.Context, actor Actor, orderID string, action model.OrderAction) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFoundCode, "order not found")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to load order", err)
	}
	if err := Authorize(actor, Resource{Kind: ResourceOrder, OwnerID: order.UserID}); err != nil {
		return nil, err
	}

	next, err := model.NextStatus(order.Status, action)
	if err != nil {
		return nil, apperr.Wrap(apperr.StateCode, err.Error(), err)
	}

	// 寫入條件帶上讀到的狀態，輸掉並發競爭的那一方會失敗而不是蓋掉結果
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, order.Status, next); err != nil {
		if errors.Is(err, db.ErrOrderStateChanged) {
			return nil, apperr.New(apperr.StateCode, "order status was changed by another request, please reload the order")
		}
		return nil, apperr.Wrap(apperr.InternalCode, "failed to update order status", err)
	}
	order.Status = next
	return order, nil
}

// GetAllOrders 管理用全量查詢，core 不做權限或分頁
func (s *OrderService) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAllOrders(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalCode, "failed to list orders", err)
	}
	return orders, nil
}

func snapshotCartItems(items []model.CartItem) []model.OrderItem {
	out := make([]model.OrderItem, len(items))
	for i, item := range items {
		out[i] = model.OrderItem{
			TshirtID: item.TshirtID,
			Quantity: item.Quantity,
		}
	}
	return out
}

var _ IOrderService = (*OrderService)(nil)
