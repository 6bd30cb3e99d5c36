package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products []domain.Product
	err      error
	calls    int
	last     CandidateFilter
}

func (f *fakeSource) ListCandidates(_ context.Context, filter CandidateFilter) ([]domain.Product, error) {
	f.calls++
	f.last = filter
	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.Product, 0, len(f.products))
	for i := range f.products {
		if filter.Matches(&f.products[i]) {
			out = append(out, f.products[i])
		}
	}

	return out, nil
}

func int64Ptr(v int64) *int64 { return &v }

// seedProducts: 25 активных товаров, из них 4 пака (ID 5, 10, 15, 20).
func seedProducts() []domain.Product {
	products := make([]domain.Product, 0, 25)
	for i := 1; i <= 25; i++ {
		products = append(products, domain.Product{
			ID:           int64(i),
			Name:         fmt.Sprintf("Producto %02d", i),
			Price:        decimal.NewFromInt(int64(i)),
			CategoryID:   int64Ptr(int64(i%3 + 1)),
			CategoryName: fmt.Sprintf("Categoría %d", i%3+1),
			IsActive:     true,
			IsPack:       i%5 == 0 && i < 25,
		})
	}

	return products
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}

	return out
}

func TestEngine_PagesOverTwentyFiveProducts(t *testing.T) {
	en := NewEngine(&fakeSource{products: seedProducts()})
	ctx := context.Background()

	page1, err := en.Query(ctx, Request{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page1.TotalCount)
	assert.Equal(t, []int64{5, 10, 15, 20, 1, 2, 3, 4, 6, 7}, ids(page1.Items))
	assert.Equal(t, 3, page1.TotalPages())

	page3, err := en.Query(ctx, Request{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)
	assert.Equal(t, 25, page3.TotalCount)

	page4, err := en.Query(ctx, Request{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page4.Items)
	assert.Equal(t, 25, page4.TotalCount)
}

func TestEngine_PacksCategoryBecomesOnlyPacks(t *testing.T) {
	src := &fakeSource{products: seedProducts()}
	en := NewEngine(src)

	for _, size := range []int{1, 3, 10, 50} {
		res, err := en.Query(context.Background(), Request{
			Categories: CategorySet{Packs: true},
			Page:       1,
			PageSize:   size,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, res.TotalCount, "page size %d", size)
	}

	assert.True(t, src.last.OnlyPacks)
	assert.Empty(t, src.last.CategoryIDs)
}

func TestEngine_PacksOrCategory(t *testing.T) {
	en := NewEngine(&fakeSource{products: seedProducts()})

	res, err := en.Query(context.Background(), Request{
		Categories: CategorySet{IDs: []int64{1}, Packs: true},
		Page:       1,
		PageSize:   100,
	})
	require.NoError(t, err)

	for _, p := range res.Items {
		assert.True(t, p.IsPack || *p.CategoryID == 1, "product %d", p.ID)
	}
	// категория 1: i%3 == 0 -> 8 товаров (15 пак), плюс паки 5, 10, 20
	assert.Equal(t, 11, res.TotalCount)
}

func TestEngine_PagesPartitionFilteredSet(t *testing.T) {
	en := NewEngine(&fakeSource{products: seedProducts()})
	requests := []Request{
		{},
		{SearchTerm: "producto 1"},
		{Categories: CategorySet{IDs: []int64{2, 3}}},
		{PriceMin: decimal.NewFromInt(3), Order: OrderRecency},
	}

	for _, base := range requests {
		for _, size := range []int{1, 4, 7, 25, 30} {
			base.PageSize = size
			base.Page = 1
			first, err := en.Query(context.Background(), base)
			require.NoError(t, err)

			all := Apply(seedProducts(), Request{
				SearchTerm: base.SearchTerm, Categories: base.Categories,
				PriceMin: base.PriceMin, Order: base.Order, Page: 1, PageSize: 1000,
			}).Items

			var joined []domain.Product
			for page := 1; page <= first.TotalPages(); page++ {
				base.Page = page
				res, err := en.Query(context.Background(), base)
				require.NoError(t, err)
				assert.Equal(t, first.TotalCount, res.TotalCount)

				remaining := res.TotalCount - (page-1)*size
				assert.Len(t, res.Items, min(size, max(0, remaining)))
				joined = append(joined, res.Items...)
			}

			assert.Equal(t, ids(all), ids(joined))
		}
	}
}

func TestEngine_OutOfRangePage(t *testing.T) {
	en := NewEngine(&fakeSource{products: seedProducts()[:15]})

	res, err := en.Query(context.Background(), Request{Page: 99, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 15, res.TotalCount)
}

func TestEngine_InvalidPaging(t *testing.T) {
	src := &fakeSource{products: seedProducts()}
	en := NewEngine(src)

	_, err := en.Query(context.Background(), Request{Page: 1, PageSize: 0})
	require.ErrorIs(t, err, e.ErrConfiguration)
	assert.Zero(t, src.calls)

	res, err := en.Query(context.Background(), Request{Page: -3, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, 5)
}

func TestEngine_SourceFailure(t *testing.T) {
	en := NewEngine(&fakeSource{err: errors.New("connection refused")})

	res, err := en.Query(context.Background(), Request{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, e.ErrDataUnavailable)
	assert.Nil(t, res)
}

func TestFilter_AccentInsensitiveSearch(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Cerveza Pilsen", IsActive: true},
		{ID: 2, Name: "Ron Añejo", IsActive: true},
	}

	for _, term := range []string{"CERVEZA", "cervéza", "  pilsen ", "Cerveza Pilsen"} {
		got := Filter(products, Request{SearchTerm: term})
		assert.Equal(t, []int64{1}, ids(got), "term %q", term)
	}

	assert.Equal(t, []int64{2}, ids(Filter(products, Request{SearchTerm: "anejo"})))
}

func TestFilter_ShortNumericTermMatchesExactID(t *testing.T) {
	products := []domain.Product{
		{ID: 12, Name: "Agua", IsActive: true},
		{ID: 112, Name: "Hielo", IsActive: true},
		{ID: 1200, Name: "Soda", IsActive: true},
	}

	assert.Equal(t, []int64{12}, ids(Filter(products, Request{SearchTerm: "12"})))
	assert.Empty(t, Filter(products, Request{SearchTerm: "12000"}))
}

func TestFilter_CategoryNameOnlyInAdminMode(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Havana Club", CategoryName: "Rones", IsActive: true},
	}

	assert.Empty(t, Filter(products, Request{SearchTerm: "rones"}))
	assert.Len(t, Filter(products, Request{SearchTerm: "rones", MatchCategoryName: true}), 1)
}

func TestFilter_VisibilityAndPrice(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "A", Price: decimal.NewFromInt(5), IsActive: true},
		{ID: 2, Name: "B", Price: decimal.NewFromInt(10), IsActive: false},
		{ID: 3, Name: "C", Price: decimal.NewFromInt(15), IsActive: true},
	}
	maxPrice := decimal.NewFromInt(10)

	assert.Equal(t, []int64{1, 3}, ids(Filter(products, Request{})))
	assert.Equal(t, []int64{2}, ids(Filter(products, Request{FilterBy: VisibilityInactive})))
	assert.Equal(t, []int64{1, 2}, ids(Filter(products, Request{FilterBy: VisibilityAll, PriceMax: &maxPrice})))
	assert.Equal(t, []int64{2, 3}, ids(Filter(products, Request{FilterBy: VisibilityAll, PriceMin: decimal.NewFromInt(10)})))
}

func TestFilter_BrandsAreORedOnRawName(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "RON Havana Club 7", IsActive: true},
		{ID: 2, Name: "Ron Flor de Caña", IsActive: true},
		{ID: 3, Name: "Vodka Absolut", IsActive: true},
	}

	got := Filter(products, Request{Brands: []string{"Havana Club", "Absolut"}})
	assert.Equal(t, []int64{1, 3}, ids(got))

	assert.Empty(t, Filter(products, Request{Brands: []string{"havana club"}}))
}

func TestSort_BrowseIsStable(t *testing.T) {
	products := []domain.Product{
		{ID: 3, Name: "agua"},
		{ID: 1, Name: "Agua"},
		{ID: 2, Name: "Pack Fiesta", IsPack: true},
		{ID: 4, Name: "Zumo"},
		{ID: 5, Name: "agua"},
	}

	for i := 0; i < 5; i++ {
		cp := append([]domain.Product(nil), products...)
		Sort(cp, OrderBrowse)
		assert.Equal(t, []int64{2, 3, 1, 5, 4}, ids(cp))
	}
}

func TestSort_Recency(t *testing.T) {
	products := []domain.Product{{ID: 2, IsPack: true}, {ID: 9}, {ID: 4}}

	Sort(products, OrderRecency)
	assert.Equal(t, []int64{9, 4, 2}, ids(products))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := seedProducts()
	before := ids(products)

	Apply(products, Request{Page: 1, PageSize: 5})
	assert.Equal(t, before, ids(products))
}
