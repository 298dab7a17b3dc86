package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/producer"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/memrepo"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
)

type orderFixture struct {
	orders  *OrderService
	carts   *CartService
	tshirts *memrepo.TshirtRepo
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	store := memrepo.NewStore()
	tshirtRepo := memrepo.NewTshirtRepo(store)
	cartRepo := memrepo.NewCartRepo(store)
	orderRepo := memrepo.NewOrderRepo(store)
	inventory := NewInventoryService(tshirtRepo)
	return &orderFixture{
		orders:  NewOrderService(orderRepo, cartRepo, tshirtRepo, inventory, producer.NoopOrderProducer{}),
		carts:   NewCartService(cartRepo, inventory),
		tshirts: tshirtRepo,
	}
}

func validAddress() model.ShippingAddress {
	return model.ShippingAddress{
		Street:     "Rua Augusta 100",
		City:       "Lisboa",
		District:   "Lisboa",
		PostalCode: "1100-053",
		Country:    "Portugal",
	}
}

func (f *orderFixture) stockOf(t *testing.T, tshirtID string) int {
	t.Helper()
	tshirt, err := f.tshirts.GetTshirtByID(context.Background(), tshirtID)
	require.NoError(t, err)
	return tshirt.Stock
}

func TestCreateOrderFromCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 2}})
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPlaced, order.Status)
	require.True(t, order.TotalPrice.Equal(decimal.RequireFromString("20.00")))
	require.Len(t, order.Items, 1)
	require.Equal(t, 2, order.Items[0].Quantity)

	// 扣庫存、清空購物車
	require.Equal(t, 3, f.stockOf(t, id))
	cart, err := f.carts.GetCart(ctx, userActor("u1"))
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.TotalItems)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	// 沒有購物車
	_, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.True(t, apperr.IsCode(err, apperr.NotFoundCode))

	_, err = f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 1}})
	require.NoError(t, err)

	// 地址不合法
	bad := validAddress()
	bad.PostalCode = "12345"
	_, err = f.orders.CreateOrder(ctx, userActor("u1"), bad)
	require.True(t, apperr.IsCode(err, apperr.ValidationCode))

	// 地址錯誤不應該動到庫存
	require.Equal(t, 5, f.stockOf(t, id))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	idA := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: idA, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.carts.RemoveCartItem(ctx, userActor("u1"), idA)
	require.NoError(t, err)

	_, err = f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.True(t, apperr.IsCode(err, apperr.StockCode))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 4}})
	require.NoError(t, err)

	// 建立購物車之後庫存被別人買走
	require.NoError(t, f.tshirts.DeductStock(ctx, id, 3))

	_, err = f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.True(t, apperr.IsCode(err, apperr.StockCode))
	require.Equal(t, 2, f.stockOf(t, id))
}

// 下單後改目錄價格不影響已建立訂單的總價
func TestOrderTotalPriceIsSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 2}})
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("99.99")
	require.NoError(t, f.tshirts.UpdateTshirtFields(ctx, id, &model.TshirtUpdate{Price: &newPrice}))

	orders, err := f.orders.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, order.OrderID, orders[0].OrderID)
	require.True(t, orders[0].TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestPayOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 1}})
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)

	paid, err := f.orders.PayOrder(ctx, userActor("u1"), order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, paid.Status)

	// 已付款不能再付或取消
	_, err = f.orders.PayOrder(ctx, userActor("u1"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.StateCode))
	_, err = f.orders.CancelOrder(ctx, userActor("u1"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.StateCode))
}

func TestCancelOrderRestoresSnapshotQuantities(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 2}})
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)
	require.Equal(t, 3, f.stockOf(t, id))

	canceled, err := f.orders.CancelOrder(ctx, userActor("u1"), order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCanceled, canceled.Status)
	require.Equal(t, 5, f.stockOf(t, id))

	// 已取消再取消
	_, err = f.orders.CancelOrder(ctx, userActor("u1"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.StateCode))
	require.Equal(t, 5, f.stockOf(t, id))
}

// staleReadOrderRepo 模擬讀取到過期狀態的並發情境
// stale 開啟後 GetOrderByID 永遠回報 placed，條件式寫入會因 from 不符而失敗
type staleReadOrderRepo struct {
	db.IOrderRepository
	stale bool
}

func (r *staleReadOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := r.IOrderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if r.stale {
		order.Status = model.OrderStatusPlaced
	}
	return order, nil
}

func TestPayOrderStaleReadLosesRace(t *testing.T) {
	store := memrepo.NewStore()
	tshirtRepo := memrepo.NewTshirtRepo(store)
	cartRepo := memrepo.NewCartRepo(store)
	orderRepo := &staleReadOrderRepo{IOrderRepository: memrepo.NewOrderRepo(store)}
	inventory := NewInventoryService(tshirtRepo)
	orders := NewOrderService(orderRepo, cartRepo, tshirtRepo, inventory, producer.NoopOrderProducer{})
	carts := NewCartService(cartRepo, inventory)
	ctx := context.Background()

	id := seedTshirt(t, tshirtRepo, "10.00", 5)
	_, err := carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 1}})
	require.NoError(t, err)
	order, err := orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)

	_, err = orders.PayOrder(ctx, userActor("u1"), order.OrderID)
	require.NoError(t, err)

	// 讀到的還是 placed，狀態機放行，但條件式寫入擋下
	orderRepo.stale = true
	_, err = orders.CancelOrder(ctx, userActor("u1"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.StateCode))
	require.Contains(t, err.Error(), "changed by another request")

	orderRepo.stale = false
	stored, err := orderRepo.GetOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, stored.Status)
}

func TestOrderOwnership(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, f.tshirts, "10.00", 5)

	_, err := f.carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: id, Quantity: 1}})
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(ctx, userActor("u1"), validAddress())
	require.NoError(t, err)

	_, err = f.orders.PayOrder(ctx, userActor("u2"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.ForbiddenCode))
	_, err = f.orders.CancelOrder(ctx, userActor("u2"), order.OrderID)
	require.True(t, apperr.IsCode(err, apperr.ForbiddenCode))

	_, err = f.orders.PayOrder(ctx, userActor("u1"), "no-such-order")
	require.True(t, apperr.IsCode(err, apperr.NotFoundCode))
}
