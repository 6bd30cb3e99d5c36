package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const cacheWriteTimeout = 500 * time.Millisecond

// CachedSource отдаёт кандидатов из кэша, а при промахе читает хранилище.
// Одновременные промахи с одинаковым фильтром объединяются в одно чтение.
type CachedSource struct {
	source catalog.Source
	cache  CandidateCache
	group  singleflight.Group
	logger logger.Logger
}

func NewCachedSource(source catalog.Source, cache CandidateCache, logger logger.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, logger: logger}
}

func (c *CachedSource) ListCandidates(ctx context.Context, filter catalog.CandidateFilter) ([]domain.Product, error) {
	const op = "CachedSource.ListCandidates"
	key := filter.Key()

	// Версия читается до загрузки: записать результат можно только под ней,
	// иначе выборка, прочитанная до изменения в админке, переживёт Invalidate.
	version, err := c.cache.Version(ctx)
	if err != nil {
		c.logger.Warnf("%s: cache version read failed: %v", op, err)
		return c.load(ctx, "nocache:"+key, filter, nil)
	}

	products, ok, err := c.cache.GetCandidates(ctx, version, key)
	if err != nil {
		c.logger.Warnf("%s: cache read failed, key=%s: %v", op, key, err)
	}
	if ok {
		return products, nil
	}

	return c.load(ctx, strconv.FormatInt(version, 10)+":"+key, filter, func(ctx context.Context, loaded []domain.Product) {
		written, err := c.cache.SetCandidates(ctx, version, key, loaded)
		if err != nil {
			c.logger.Warnf("%s: cache write failed, key=%s: %v", op, key, err)
			return
		}
		if !written {
			c.logger.Debugf("%s: cache version changed during load, key=%s", op, key)
		}
	})
}

// load объединяет одновременные чтения с одинаковым flightKey.
func (c *CachedSource) load(
	ctx context.Context,
	flightKey string,
	filter catalog.CandidateFilter,
	store func(ctx context.Context, loaded []domain.Product),
) ([]domain.Product, error) {
	ch := c.group.DoChan(flightKey, func() (any, error) {
		loaded, err := c.source.ListCandidates(context.WithoutCancel(ctx), filter)
		if err != nil {
			return nil, err
		}

		if store != nil {
			writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
			defer cancel()
			store(writeCtx, loaded)
		}

		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.([]domain.Product), nil
	}
}
