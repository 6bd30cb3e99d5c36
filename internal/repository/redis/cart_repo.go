package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartRepo хранит корзину одним JSON-значением по ключу cart:<cartID>.
// Каждая запись продлевает TTL.
type CartRepo struct {
	client r.UniversalClient
	conv   converter.CartConverter
	cfg    *cfg.RedisCfg
}

func NewCartRepo(client r.UniversalClient, conv converter.CartConverter, cfg *cfg.RedisCfg) *CartRepo {
	return &CartRepo{client: client, conv: conv, cfg: cfg}
}

// Get возвращает пустую корзину, если ключа нет.
func (c *CartRepo) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, r.Nil) {
		return domain.NewCart(cartID), nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CartRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	model.ID = cartID

	return c.conv.ToEntity(&model), nil
}

func (c *CartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(c.conv.ToRedisModel(cart))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Set(ctx, cartKey(cart.ID), data, c.cfg.CartTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CartRepo) Delete(ctx context.Context, cartID string) error {
	if err := c.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}
