package clients

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// NewRedisClient создаёт клиента и проверяет соединение.
func NewRedisClient(ctx context.Context, c *cfg.RedisCfg) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		Username:     c.User,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.Timeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
