package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	invalidateTimeout = 2 * time.Second
	produceTimeout    = 5 * time.Second
)

// CatalogEvents реагирует на изменения каталога: сбрасывает кэш кандидатов
// и отправляет событие в брокер, если он настроен.
type CatalogEvents struct {
	cache    CandidateCache
	producer EventProducer // nil: брокер не настроен
	logger   logger.Logger
	wg       sync.WaitGroup
}

func NewCatalogEvents(cache CandidateCache, producer EventProducer, logger logger.Logger) *CatalogEvents {
	return &CatalogEvents{cache: cache, producer: producer, logger: logger}
}

// Register подписывает обработчик на шину и возвращает функцию отписки.
func (c *CatalogEvents) Register(b *bus.Bus) func() {
	return bus.Subscribe(b, c.Handle)
}

// Handle сбрасывает кэш синхронно, чтобы следующее чтение видело изменение.
// Запись в брокер идёт в фоне.
func (c *CatalogEvents) Handle(msg bus.CatalogChanged) {
	const op = "CatalogEvents.Handle"

	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()

	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Errorf(err, "%s: candidate cache invalidation failed, %s %d %s", op, msg.Entity, msg.ID, msg.Op)
	}

	if c.producer == nil {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), produceTimeout)
		defer cancel()

		if err := c.producer.WriteCatalogChanged(ctx, msg); err != nil {
			c.logger.Errorf(err, "%s: failed to publish %s %d %s", op, msg.Entity, msg.ID, msg.Op)
		}
	}()
}

// Wait дожидается фоновых отправок. Используется при остановке.
func (c *CatalogEvents) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
