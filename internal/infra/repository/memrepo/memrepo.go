// Package memrepo 提供 db 介面的 in-memory 實作，測試與本機開發用
package memrepo

import (
	"context"
	"sync"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
)

// Store 共用的 in-memory 儲存，所有 repo 共享同一把鎖
type Store struct {
	mu           sync.RWMutex
	tshirts      map[string]model.Tshirt
	carts        map[string]model.Cart
	cartIDByUser map[string]string
	orders       map[string]model.Order
	users        map[string]model.User
	userIDByMail map[string]string
}

func NewStore() *Store {
	return &Store{
		tshirts:      make(map[string]model.Tshirt),
		carts:        make(map[string]model.Cart),
		cartIDByUser: make(map[string]string),
		orders:       make(map[string]model.Order),
		users:        make(map[string]model.User),
		userIDByMail: make(map[string]string),
	}
}

func copyCart(c model.Cart) model.Cart {
	cp := c
	cp.Items = append([]model.CartItem(nil), c.Items...)
	return cp
}

func copyOrder(o model.Order) model.Order {
	cp := o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return cp
}

type TshirtRepo struct{ store *Store }

func NewTshirtRepo(store *Store) *TshirtRepo { return &TshirtRepo{store: store} }

var _ db.ITshirtRepository = (*TshirtRepo)(nil)

func (r *TshirtRepo) CreateTshirt(ctx context.Context, tshirt *model.Tshirt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.tshirts {
		if t.SKU == tshirt.SKU {
			return db.ErrSKUExists
		}
	}
	r.store.tshirts[tshirt.TshirtID] = *tshirt
	return nil
}

func (r *TshirtRepo) GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.tshirts[tshirtID]
	if !ok {
		return nil, db.ErrTshirtNotFound
	}
	cp := t
	return &cp, nil
}

func (r *TshirtRepo) GetTshirtBySKU(ctx context.Context, sku string) (*model.Tshirt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, t := range r.store.tshirts {
		if t.SKU == sku {
			cp := t
			return &cp, nil
		}
	}
	return nil, db.ErrTshirtNotFound
}

func (r *TshirtRepo) GetAllTshirts(ctx context.Context) ([]model.Tshirt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]model.Tshirt, 0, len(r.store.tshirts))
	for _, t := range r.store.tshirts {
		out = append(out, t)
	}
	return out, nil
}

func (r *TshirtRepo) GetTshirtsByIDs(ctx context.Context, tshirtIDs []string) ([]model.Tshirt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []model.Tshirt
	for _, id := range tshirtIDs {
		if t, ok := r.store.tshirts[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TshirtRepo) UpdateTshirtFields(ctx context.Context, tshirtID string, update *model.TshirtUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tshirts[tshirtID]
	if !ok {
		return db.ErrTshirtNotFound
	}
	if update.SKU != nil {
		for id, other := range r.store.tshirts {
			if id != tshirtID && other.SKU == *update.SKU {
				return db.ErrSKUExists
			}
		}
		t.SKU = *update.SKU
	}
	if update.Gender != nil {
		t.Gender = *update.Gender
	}
	if update.Model != nil {
		t.Model = *update.Model
	}
	if update.Size != nil {
		t.Size = *update.Size
	}
	if update.CustomName != nil {
		t.CustomName = *update.CustomName
	}
	if update.CustomNumber != nil {
		t.CustomNumber = *update.CustomNumber
	}
	if update.Price != nil {
		t.Price = *update.Price
	}
	if update.Stock != nil {
		t.Stock = *update.Stock
	}
	r.store.tshirts[tshirtID] = t
	return nil
}

// DeductStock 與 db 實作相同的 check-and-set 語意，整段在鎖內
func (r *TshirtRepo) DeductStock(ctx context.Context, tshirtID string, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tshirts[tshirtID]
	if !ok {
		return db.ErrTshirtNotFound
	}
	if t.Stock < quantity {
		return db.ErrStockNotEnough
	}
	t.Stock -= quantity
	r.store.tshirts[tshirtID] = t
	return nil
}

func (r *TshirtRepo) RestoreStock(ctx context.Context, tshirtID string, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tshirts[tshirtID]
	if !ok {
		return db.ErrTshirtNotFound
	}
	t.Stock += quantity
	r.store.tshirts[tshirtID] = t
	return nil
}

func (r *TshirtRepo) DeleteTshirt(ctx context.Context, tshirtID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tshirts[tshirtID]; !ok {
		return db.ErrTshirtNotFound
	}
	delete(r.store.tshirts, tshirtID)
	return nil
}

type CartRepo struct{ store *Store }

func NewCartRepo(store *Store) *CartRepo { return &CartRepo{store: store} }

var _ db.ICartRepository = (*CartRepo)(nil)

func (r *CartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.cartIDByUser[cart.UserID]; ok {
		return db.ErrCartExists
	}
	r.store.carts[cart.CartID] = copyCart(*cart)
	r.store.cartIDByUser[cart.UserID] = cart.CartID
	return nil
}

func (r *CartRepo) GetCartByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	cartID, ok := r.store.cartIDByUser[userID]
	if !ok {
		return nil, db.ErrCartNotFound
	}
	cp := copyCart(r.store.carts[cartID])
	return &cp, nil
}

func (r *CartRepo) ReplaceCartItems(ctx context.Context, cart *model.Cart) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.carts[cart.CartID]
	if !ok {
		return db.ErrCartNotFound
	}
	stored.Items = append([]model.CartItem(nil), cart.Items...)
	stored.TotalItems = cart.TotalItems
	stored.LastUpdated = cart.LastUpdated
	r.store.carts[cart.CartID] = stored
	return nil
}

func (r *CartRepo) ListCartsByTshirtID(ctx context.Context, tshirtID string) ([]model.Cart, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []model.Cart
	for _, cart := range r.store.carts {
		for _, item := range cart.Items {
			if item.TshirtID == tshirtID {
				out = append(out, copyCart(cart))
				break
			}
		}
	}
	return out, nil
}

type OrderRepo struct{ store *Store }

func NewOrderRepo(store *Store) *OrderRepo { return &OrderRepo{store: store} }

var _ db.IOrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[order.OrderID] = copyOrder(*order)
	return nil
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	o, ok := r.store.orders[orderID]
	if !ok {
		return nil, db.ErrOrderNotFound
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (r *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]model.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

// UpdateOrderStatus 與 db 實作相同的條件式轉移語意
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[orderID]
	if !ok {
		return db.ErrOrderNotFound
	}
	if o.Status != from {
		return db.ErrOrderStateChanged
	}
	o.Status = to
	r.store.orders[orderID] = o
	return nil
}

type UserRepo struct{ store *Store }

func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

var _ db.IUserRepository = (*UserRepo)(nil)

func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.userIDByMail[user.Email]; ok {
		return db.ErrEmailExists
	}
	r.store.users[user.UserID] = *user
	r.store.userIDByMail[user.Email] = user.UserID
	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[userID]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.userIDByMail[email]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	cp := r.store.users[id]
	return &cp, nil
}
