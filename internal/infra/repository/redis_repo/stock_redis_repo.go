package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var (
	ErrStockNotFound  = errors.New("tshirt stock not found")
	ErrStockNotEnough = errors.New("tshirt stock not enough")
)

// IStockRedisRepository 商品庫存快取
// key 結構: tshirt:{id}:stock -> { stock: n }
type IStockRedisRepository interface {
	CreateStock(ctx context.Context, tshirtID string, stock int) error
	// GetStock 讀取快取庫存，沒有快取時回 ErrStockNotFound
	GetStock(ctx context.Context, tshirtID string) (int, error)
	// AddStock 以差額調整庫存，回傳調整後的值
	AddStock(ctx context.Context, tshirtID string, quantity int) (int, error)
	UpdateStock(ctx context.Context, tshirtID string, stock int) error
	DeleteStock(ctx context.Context, tshirtID string) error
	// DeductStock 原子性檢查加扣減，庫存不足時整筆不生效
	DeductStock(ctx context.Context, tshirtID string, quantity int) (int, error)
}

// 檢查與扣減在同一個 script 內完成，兩個並發扣減不會扣出負值
// -1 表示 key 不存在，-2 表示庫存不足
const deductStockScript = `
local current = redis.call('HGET', KEYS[1], ARGV[2])
if not current then
	return -1
end
if tonumber(current) < tonumber(ARGV[1]) then
	return -2
end
return redis.call('HINCRBY', KEYS[1], ARGV[2], -ARGV[1])
`

type StockRedisRepo struct {
	stockCache *redis.Client
}

func NewStockRepo(stockCache *redis.Client) *StockRedisRepo {
	return &StockRedisRepo{stockCache: stockCache}
}

func stockKey(tshirtID string) string {
	return fmt.Sprintf("tshirt:%s:stock", tshirtID)
}

func (s *StockRedisRepo) CreateStock(ctx context.Context, tshirtID string, stock int) error {
	return s.stockCache.HSet(ctx, stockKey(tshirtID), "stock", stock).Err()
}

func (s *StockRedisRepo) GetStock(ctx context.Context, tshirtID string) (int, error) {
	val, err := s.stockCache.HGet(ctx, stockKey(tshirtID), "stock").Result()
	if err == redis.Nil {
		return 0, ErrStockNotFound
	}
	if err != nil {
		return 0, err
	}
	stock, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func (s *StockRedisRepo) AddStock(ctx context.Context, tshirtID string, quantity int) (int, error) {
	result := s.stockCache.HIncrBy(ctx, stockKey(tshirtID), "stock", int64(quantity))
	if err := result.Err(); err != nil {
		return 0, err
	}
	return int(result.Val()), nil
}

func (s *StockRedisRepo) UpdateStock(ctx context.Context, tshirtID string, stock int) error {
	return s.stockCache.HSet(ctx, stockKey(tshirtID), "stock", stock).Err()
}

func (s *StockRedisRepo) DeleteStock(ctx context.Context, tshirtID string) error {
	return s.stockCache.Del(ctx, stockKey(tshirtID)).Err()
}

func (s *StockRedisRepo) DeductStock(ctx context.Context, tshirtID string, quantity int) (int, error) {
	result, err := s.stockCache.Eval(ctx, deductStockScript, []string{stockKey(tshirtID)}, quantity, "stock").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to deduct stock: %w", err)
	}
	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type: %T", result)
	}

	switch remaining {
	case -1:
		return 0, fmt.Errorf("%w: tshirt %s", ErrStockNotFound, tshirtID)
	case -2:
		return 0, fmt.Errorf("%w: tshirt %s", ErrStockNotEnough, tshirtID)
	}
	return int(remaining), nil
}

var _ IStockRedisRepository = (*StockRedisRepo)(nil)
