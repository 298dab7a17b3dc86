package redis_decorator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/redis_repo"
)

/*
redis 專注商品庫存，所以只有跟庫存有關的操作才需要連動 redis
庫存真相來源在 db，redis 是讀取路徑的快取，cache-aside:
讀取時優先用快取值，沒有快取就用 db 值回填
扣庫存先走 redis 的原子 script 當快速路徑，庫存不足時不用碰 db
*/
type CacheAsideTshirtRepo struct {
	db.ITshirtRepository
	redis redis_repo.IStockRedisRepository
}

func NewCacheAsideTshirtRepo(dbRepo db.ITshirtRepository, redis redis_repo.IStockRedisRepository) db.ITshirtRepository {
	return &CacheAsideTshirtRepo{ITshirtRepository: dbRepo, redis: redis}
}

func (p *CacheAsideTshirtRepo) CreateTshirt(ctx context.Context, tshirt *model.Tshirt) error {
	err := p.ITshirtRepository.CreateTshirt(ctx, tshirt)
	if err != nil {
		return err
	}
	if err := p.redis.CreateStock(ctx, tshirt.TshirtID, tshirt.Stock); err != nil {
		log.Warn().Err(err).Str("tshirt_id", tshirt.TshirtID).Msg("failed to seed stock cache")
	}
	return nil
}

// GetTshirtByID 目錄欄位讀 db，庫存優先用快取值
// 沒有快取時用 db 值回填，之後的讀取就不用再打 db 算庫存
func (p *CacheAsideTshirtRepo) GetTshirtByID(ctx context.Context, tshirtID string) (*model.Tshirt, error) {
	tshirt, err := p.ITshirtRepository.GetTshirtByID(ctx, tshirtID)
	if err != nil {
		return nil, err
	}

	stock, err := p.redis.GetStock(ctx, tshirtID)
	if err == nil {
		tshirt.Stock = stock
		return tshirt, nil
	}
	if errors.Is(err, redis_repo.ErrStockNotFound) {
		if err := p.redis.CreateStock(ctx, tshirtID, tshirt.Stock); err != nil {
			log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("failed to seed stock cache")
		}
	} else {
		log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("failed to read stock cache")
	}
	return tshirt, nil
}

func (p *CacheAsideTshirtRepo) UpdateTshirtFields(ctx context.Context, tshirtID string, update *model.TshirtUpdate) error {
	err := p.ITshirtRepository.UpdateTshirtFields(ctx, tshirtID, update)
	if err != nil {
		return err
	}
	if update.Stock == nil {
		return nil
	}
	if err := p.redis.UpdateStock(ctx, tshirtID, *update.Stock); err != nil {
		p.retryUpdateStock(tshirtID, *update.Stock)
	}
	return nil
}

// DeductStock redis 的原子 script 當快速路徑
// 快取說庫存不足就直接擋掉，不用碰 db
// 快取扣成功後 db 的 check-and-set 才是正式寫入，db 失敗時把快取補回去
func (p *CacheAsideTshirtRepo) DeductStock(ctx context.Context, tshirtID string, quantity int) error {
	applied := false
	if _, err := p.redis.DeductStock(ctx, tshirtID, quantity); err == nil {
		applied = true
	} else if errors.Is(err, redis_repo.ErrStockNotEnough) {
		return db.ErrStockNotEnough
	} else if !errors.Is(err, redis_repo.ErrStockNotFound) {
		log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("stock cache deduct failed, falling through to db")
	}

	if err := p.ITshirtRepository.DeductStock(ctx, tshirtID, quantity); err != nil {
		if applied {
			if _, addErr := p.redis.AddStock(ctx, tshirtID, quantity); addErr != nil {
				log.Warn().Err(addErr).Str("tshirt_id", tshirtID).Msg("failed to roll back cached stock deduction")
			}
		}
		return err
	}
	return nil
}

func (p *CacheAsideTshirtRepo) RestoreStock(ctx context.Context, tshirtID string, quantity int) error {
	err := p.ITshirtRepository.RestoreStock(ctx, tshirtID, quantity)
	if err != nil {
		return err
	}
	if _, err := p.redis.AddStock(ctx, tshirtID, quantity); err != nil {
		log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("failed to mirror stock restore to cache")
	}
	return nil
}

func (p *CacheAsideTshirtRepo) DeleteTshirt(ctx context.Context, tshirtID string) error {
	err := p.ITshirtRepository.DeleteTshirt(ctx, tshirtID)
	if err != nil {
		return err
	}
	if err := p.redis.DeleteStock(context.Background(), tshirtID); err != nil {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := p.redis.DeleteStock(context.Background(), tshirtID); err != nil {
				log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("failed to drop stock cache entry")
			}
		}()
	}
	return nil
}

func (p *CacheAsideTshirtRepo) retryUpdateStock(tshirtID string, stock int) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := p.redis.UpdateStock(context.Background(), tshirtID, stock); err != nil {
			log.Warn().Err(err).Str("tshirt_id", tshirtID).Msg("failed to refresh stock cache")
		}
	}()
}
