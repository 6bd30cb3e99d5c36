package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSource_ReadsThroughCache(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: 1, Name: "Ron", Price: decimal.NewFromInt(1), IsActive: true})
	cache := newFakeCache()
	src := NewCachedSource(products, cache, logger.NewNop())
	filter := catalog.CandidateFilter{Visibility: catalog.VisibilityActive}

	first, err := src.ListCandidates(context.Background(), filter)
	require.NoError(t, err)
	second, err := src.ListCandidates(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, products.listCalls)
	assert.Contains(t, cache.items, filter.Key())
}

func TestCachedSource_CacheFailureFallsBackToStorage(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: 1, Name: "Ron", IsActive: true})
	cache := newFakeCache()
	cache.err = errStorage
	src := NewCachedSource(products, cache, logger.NewNop())

	res, err := src.ListCandidates(context.Background(), catalog.CandidateFilter{})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestCachedSource_StorageFailure(t *testing.T) {
	products := newFakeProducts()
	products.listErr = errStorage
	src := NewCachedSource(products, newFakeCache(), logger.NewNop())

	_, err := src.ListCandidates(context.Background(), catalog.CandidateFilter{})
	assert.ErrorIs(t, err, errStorage)
}

// gatedSource отдаёт текущий снимок товаров, но первое чтение ждёт release.
type gatedSource struct {
	products *fakeProducts
	started  chan struct{}
	release  chan struct{}
	gated    bool
}

func (g *gatedSource) ListCandidates(ctx context.Context, filter catalog.CandidateFilter) ([]domain.Product, error) {
	res, err := g.products.ListCandidates(ctx, filter)
	if !g.gated {
		g.gated = true
		close(g.started)
		<-g.release
	}

	return res, err
}

func TestCachedSource_InvalidateDuringLoadIsNotOverwritten(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: 1, Name: "old", IsActive: true})
	cache := newFakeCache()
	src := &gatedSource{products: products, started: make(chan struct{}), release: make(chan struct{})}
	cached := NewCachedSource(src, cache, logger.NewNop())
	filter := catalog.CandidateFilter{Visibility: catalog.VisibilityActive}

	done := make(chan []domain.Product, 1)
	go func() {
		res, err := cached.ListCandidates(context.Background(), filter)
		assert.NoError(t, err)
		done <- res
	}()

	<-src.started
	_, err := products.Update(context.Background(), &domain.Product{ID: 1, Name: "new", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))
	close(src.release)

	select {
	case res := <-done:
		require.Len(t, res, 1)
		assert.Equal(t, "old", res[0].Name)
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}

	assert.Equal(t, 1, cache.skipped)
	assert.Empty(t, cache.items)

	fresh, err := cached.ListCandidates(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "new", fresh[0].Name)
	assert.Equal(t, 2, products.listCalls)
}
