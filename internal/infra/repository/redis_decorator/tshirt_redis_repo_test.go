package redis_decorator

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/memrepo"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/redis_repo"
)

// fakeStockCache 以 map 模擬 redis 庫存快取，語意與 Lua script 相同
type fakeStockCache struct {
	stocks map[string]int
}

func newFakeStockCache() *fakeStockCache {
	return &fakeStockCache{stocks: make(map[string]int)}
}

func (f *fakeStockCache) CreateStock(ctx context.Context, tshirtID string, stock int) error {
	f.stocks[tshirtID] = stock
	return nil
}

func (f *fakeStockCache) GetStock(ctx context.Context, tshirtID string) (int, error) {
	stock, ok := f.stocks[tshirtID]
	if !ok {
		return 0, redis_repo.ErrStockNotFound
	}
	return stock, nil
}

func (f *fakeStockCache) AddStock(ctx context.Context, tshirtID string, quantity int) (int, error) {
	f.stocks[tshirtID] += quantity
	return f.stocks[tshirtID], nil
}

func (f *fakeStockCache) UpdateStock(ctx context.Context, tshirtID string, stock int) error {
	f.stocks[tshirtID] = stock
	return nil
}

func (f *fakeStockCache) DeleteStock(ctx context.Context, tshirtID string) error {
	delete(f.stocks, tshirtID)
	return nil
}

func (f *fakeStockCache) DeductStock(ctx context.Context, tshirtID string, quantity int) (int, error) {
	stock, ok := f.stocks[tshirtID]
	if !ok {
		return 0, fmt.Errorf("%w: tshirt %s", redis_repo.ErrStockNotFound, tshirtID)
	}
	if stock < quantity {
		return 0, fmt.Errorf("%w: tshirt %s", redis_repo.ErrStockNotEnough, tshirtID)
	}
	f.stocks[tshirtID] = stock - quantity
	return f.stocks[tshirtID], nil
}

var _ redis_repo.IStockRedisRepository = (*fakeStockCache)(nil)

func newDecoratorFixture(t *testing.T) (db.ITshirtRepository, *memrepo.TshirtRepo, *fakeStockCache) {
	t.Helper()
	dbRepo := memrepo.NewTshirtRepo(memrepo.NewStore())
	cache := newFakeStockCache()
	return NewCacheAsideTshirtRepo(dbRepo, cache), dbRepo, cache
}

func seedTshirt(t *testing.T, repo db.ITshirtRepository, id string, stock int) {
	t.Helper()
	require.NoError(t, repo.CreateTshirt(context.Background(), &model.Tshirt{
		TshirtID: id,
		SKU:      "SKU-" + id,
		Gender:   model.GenderUnisex,
		Model:    "classic",
		Size:     "M",
		Price:    decimal.RequireFromString("10.00"),
		Stock:    stock,
	}))
}

func TestCreateTshirtSeedsCache(t *testing.T) {
	repo, _, cache := newDecoratorFixture(t)
	seedTshirt(t, repo, "t1", 5)
	require.Equal(t, 5, cache.stocks["t1"])
}

func TestGetTshirtByIDServesCachedStock(t *testing.T) {
	repo, dbRepo, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)

	// db 被別的節點改掉但快取還沒失效，讀取以快取為準
	require.NoError(t, dbRepo.DeductStock(ctx, "t1", 2))
	tshirt, err := repo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 5, tshirt.Stock)

	// 快取掉了就用 db 值並回填
	require.NoError(t, cache.DeleteStock(ctx, "t1"))
	tshirt, err = repo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 3, tshirt.Stock)
	require.Equal(t, 3, cache.stocks["t1"])
}

func TestDeductStockFastPath(t *testing.T) {
	repo, dbRepo, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)

	require.NoError(t, repo.DeductStock(ctx, "t1", 2))
	require.Equal(t, 3, cache.stocks["t1"])
	stored, err := dbRepo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 3, stored.Stock)
}

// 快取說不夠就直接擋掉，db 完全不會被動到
func TestDeductStockCacheRejectsWithoutDbWrite(t *testing.T) {
	repo, dbRepo, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)

	require.NoError(t, cache.UpdateStock(ctx, "t1", 1))
	err := repo.DeductStock(ctx, "t1", 3)
	require.ErrorIs(t, err, db.ErrStockNotEnough)

	stored, err := dbRepo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 5, stored.Stock)
	require.Equal(t, 1, cache.stocks["t1"])
}

// db 的 check-and-set 失敗時把已扣掉的快取補回去
func TestDeductStockRollsBackCacheOnDbFailure(t *testing.T) {
	repo, _, cache := newDecoratorFixture(t)
	ctx := context.Background()

	// 快取有殘留但商品已不在 db
	require.NoError(t, cache.CreateStock(ctx, "ghost", 5))
	err := repo.DeductStock(ctx, "ghost", 2)
	require.ErrorIs(t, err, db.ErrTshirtNotFound)
	require.Equal(t, 5, cache.stocks["ghost"])
}

func TestDeductStockColdCacheFallsThroughToDb(t *testing.T) {
	repo, dbRepo, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)
	require.NoError(t, cache.DeleteStock(ctx, "t1"))

	require.NoError(t, repo.DeductStock(ctx, "t1", 2))
	stored, err := dbRepo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 3, stored.Stock)

	// 快取維持冷狀態，下一次讀取才回填
	_, ok := cache.stocks["t1"]
	require.False(t, ok)
}

func TestRestoreStockMirrorsToCache(t *testing.T) {
	repo, dbRepo, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)

	require.NoError(t, repo.DeductStock(ctx, "t1", 3))
	require.NoError(t, repo.RestoreStock(ctx, "t1", 3))
	require.Equal(t, 5, cache.stocks["t1"])
	stored, err := dbRepo.GetTshirtByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 5, stored.Stock)
}

func TestUpdateAndDeleteKeepCacheInSync(t *testing.T) {
	repo, _, cache := newDecoratorFixture(t)
	ctx := context.Background()
	seedTshirt(t, repo, "t1", 5)

	newStock := 9
	require.NoError(t, repo.UpdateTshirtFields(ctx, "t1", &model.TshirtUpdate{Stock: &newStock}))
	require.Equal(t, 9, cache.stocks["t1"])

	require.NoError(t, repo.DeleteTshirt(ctx, "t1"))
	_, ok := cache.stocks["t1"]
	require.False(t, ok)
}
