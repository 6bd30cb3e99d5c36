package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	mu   sync.Mutex
	msgs []bus.CatalogChanged
	err  error
}

func (f *fakeProducer) WriteCatalogChanged(_ context.Context, msg bus.CatalogChanged) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestCatalogEvents_InvalidatesAndProduces(t *testing.T) {
	cache := newFakeCache()
	cache.items["k"] = nil
	producer := &fakeProducer{}
	events := NewCatalogEvents(cache, producer, logger.NewNop())

	b := bus.New()
	unsubscribe := events.Register(b)
	defer unsubscribe()

	msg := bus.CatalogChanged{Entity: bus.EntityProduct, ID: 7, Op: bus.OpUpdated}
	b.Publish(msg)
	b.Publish(bus.CartChanged{CartID: "ignored"})

	assert.Equal(t, 1, cache.invalidated)
	assert.Empty(t, cache.items)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, events.Wait(ctx))

	producer.mu.Lock()
	defer producer.mu.Unlock()
	assert.Equal(t, []bus.CatalogChanged{msg}, producer.msgs)
}

func TestCatalogEvents_WithoutProducer(t *testing.T) {
	cache := newFakeCache()
	cache.err = errStorage
	events := NewCatalogEvents(cache, nil, logger.NewNop())

	events.Handle(bus.CatalogChanged{Entity: bus.EntityCategory, ID: 1, Op: bus.OpDeleted})

	assert.Equal(t, 1, cache.invalidated)
	require.NoError(t, events.Wait(context.Background()))
}
