package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	candidatesPrefix     = "catalog:candidates:"
	candidatesVersionKey = candidatesPrefix + "version"
)

// setIfVersionScript записывает выборку, только если версия кэша не менялась
// с момента, когда её прочитал вызывающий.
// KEYS[1] версия, KEYS[2] запись; ARGV: версия, данные, TTL в мс.
var setIfVersionScript = r.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// CandidateCacheRepo кэширует выборки кандидатов каталога.
// Ключ записи включает номер версии; Invalidate увеличивает версию,
// и старые записи просто истекают по TTL.
type CandidateCacheRepo struct {
	client r.UniversalClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
}

func NewCandidateCacheRepo(client r.UniversalClient, conv converter.ProductConverter, cfg *cfg.RedisCfg) *CandidateCacheRepo {
	return &CandidateCacheRepo{client: client, conv: conv, cfg: cfg}
}

// Version возвращает текущую версию кэша; до первого Invalidate это 0.
func (c *CandidateCacheRepo) Version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, candidatesVersionKey).Int64()
	if errors.Is(err, r.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return version, nil
}

// GetCandidates возвращает false, если записи нет или она повреждена.
func (c *CandidateCacheRepo) GetCandidates(ctx context.Context, version int64, key string) ([]domain.Product, bool, error) {
	cacheKey := entryKey(version, key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, false, nil // cache miss
	}
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		_ = c.client.Del(ctx, cacheKey).Err()
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntities(models), true, nil
}

// SetCandidates сохраняет выборку под версией, прочитанной до загрузки.
// Если за это время прошёл Invalidate, запись пропускается и возвращается false.
func (c *CandidateCacheRepo) SetCandidates(ctx context.Context, version int64, key string, products []domain.Product) (bool, error) {
	data, err := json.Marshal(c.conv.ToRedisModels(products))
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	written, err := setIfVersionScript.Run(ctx, c.client,
		[]string{candidatesVersionKey, entryKey(version, key)},
		strconv.FormatInt(version, 10), data, c.cfg.CandidateTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return written == 1, nil
}

// Invalidate делает недоступными все записи, сохранённые до вызова.
func (c *CandidateCacheRepo) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, candidatesVersionKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func entryKey(version int64, key string) string {
	return candidatesPrefix + "v" + strconv.FormatInt(version, 10) + ":" + key
}
