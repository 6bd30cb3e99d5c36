package http

import (
	"context"
	"sync"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const testToken = "secret-token"

type fakeCatalog struct {
	mu       sync.Mutex
	products []domain.Product
	requests []catalog.Request
	block    map[string]chan struct{} // SearchTerm -> ожидание
	err      error
	// cancelled: сколько заблокированных запросов завершилось по отмене контекста
	cancelled int
}

func (f *fakeCatalog) Products(ctx context.Context, req catalog.Request) (*usecase.ProductPage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	wait := f.block[req.SearchTerm]
	err := f.err
	f.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			f.mu.Lock()
			f.cancelled++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	if req.PageSize == 0 {
		req.PageSize = 12
	}
	req.FilterBy = catalog.VisibilityActive
	res := catalog.Apply(f.products, req)

	return &usecase.ProductPage{Result: res, Pages: catalog.PageWindow(res.Page, res.TotalPages(), 5)}, nil
}

func (f *fakeCatalog) AdminProducts(_ context.Context, req catalog.Request) (*usecase.ProductPage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.PageSize == 0 {
		req.PageSize = 10
	}
	req.Order = catalog.OrderRecency
	res := catalog.Apply(f.products, req)

	return &usecase.ProductPage{Result: res, Pages: catalog.PageWindow(res.Page, res.TotalPages(), 5)}, nil
}

func (f *fakeCatalog) Product(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id && p.IsActive {
			return &p, nil
		}
	}

	return nil, e.Wrap("fakeCatalog.Product", e.ErrNotFound)
}

func (f *fakeCatalog) Categories(context.Context) ([]usecase.CategoryView, error) {
	return []usecase.CategoryView{
		{Key: domain.PacksCategoryKey, Name: "Packs", Virtual: true},
		{Key: "1", ID: 1, Name: "Rones"},
	}, nil
}

func (f *fakeCatalog) Brands(_ context.Context, categories catalog.CategorySet) ([]string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, catalog.Request{Categories: categories})
	f.mu.Unlock()

	return catalog.Brands(f.products), nil
}

func (f *fakeCatalog) cancelledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cancelled
}

func (f *fakeCatalog) lastRequest() catalog.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.requests[len(f.requests)-1]
}

type fakeProductUC struct {
	created *usecase.SaveProductReq
	image   *usecase.ProductImage
	err     error
}

func (f *fakeProductUC) Get(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: id, Name: "Ron Cartavio", Price: decimal.RequireFromString("30")}, nil
}

func (f *fakeProductUC) Create(_ context.Context, req *usecase.SaveProductReq) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = req

	return &domain.Product{ID: 10, Name: req.Name, Price: req.Price, CategoryID: req.CategoryID, IsActive: req.IsActive, IsPack: req.IsPack}, nil
}

func (f *fakeProductUC) Update(_ context.Context, id int64, req *usecase.SaveProductReq) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Product{ID: id, Name: req.Name, Price: req.Price}, nil
}

func (f *fakeProductUC) SetActive(_ context.Context, id int64, active bool) (*domain.Product, error) {
	return &domain.Product{ID: id, IsActive: active}, f.err
}

func (f *fakeProductUC) SetImage(_ context.Context, id int64, image *usecase.ProductImage) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.image = image
	url := "http://cdn/products/x.png"

	return &domain.Product{ID: id, ImageURL: &url}, nil
}

func (f *fakeProductUC) Delete(context.Context, int64) error {
	return f.err
}

type fakeCategoryUC struct {
	deleted *usecase.DeleteCategoryReq
	err     error
}

func (f *fakeCategoryUC) List(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Rones"}}, f.err
}

func (f *fakeCategoryUC) Create(_ context.Context, req *usecase.SaveCategoryReq) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: 2, Name: req.Name}, nil
}

func (f *fakeCategoryUC) Update(_ context.Context, id int64, req *usecase.SaveCategoryReq) (*domain.Category, error) {
	return &domain.Category{ID: id, Name: req.Name}, f.err
}

func (f *fakeCategoryUC) SetImage(_ context.Context, id int64, _ *usecase.ProductImage) (*domain.Category, error) {
	return &domain.Category{ID: id}, f.err
}

func (f *fakeCategoryUC) Delete(_ context.Context, req *usecase.DeleteCategoryReq) error {
	f.deleted = req
	return f.err
}

type fakeExtraUC struct {
	err error
}

func (f *fakeExtraUC) List(context.Context) ([]domain.Extra, error) {
	return []domain.Extra{{ID: 1, Name: "Hielo"}}, f.err
}

func (f *fakeExtraUC) Create(_ context.Context, req *usecase.SaveExtraReq) (*domain.Extra, error) {
	return &domain.Extra{ID: 2, Name: req.Name}, f.err
}

func (f *fakeExtraUC) Update(_ context.Context, id int64, req *usecase.SaveExtraReq) (*domain.Extra, error) {
	return &domain.Extra{ID: id, Name: req.Name}, f.err
}

func (f *fakeExtraUC) Delete(context.Context, int64) error {
	return f.err
}

type fakeCartUC struct {
	carts map[string]*domain.Cart
	err   error
}

func newFakeCartUC() *fakeCartUC {
	return &fakeCartUC{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartUC) NewCartID() string {
	return "0b6f2a8e-8a43-4a57-9a43-6c1f4f5f7c11"
}

func (f *fakeCartUC) cart(id string) *domain.Cart {
	if c, ok := f.carts[id]; ok {
		return c
	}
	c := domain.NewCart(id)
	f.carts[id] = c

	return c
}

func (f *fakeCartUC) Get(_ context.Context, cartID string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cart(cartID), nil
}

func (f *fakeCartUC) Add(_ context.Context, cartID string, productID int64) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart(cartID)
	c.Add(&domain.Product{ID: productID, Name: "Ron Cartavio", Price: decimal.RequireFromString("30.50"), IsActive: true})

	return c, nil
}

func (f *fakeCartUC) ChangeQuantity(_ context.Context, cartID string, productID int64, delta int) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart(cartID)
	c.SetQuantityDelta(productID, delta)

	return c, nil
}

func (f *fakeCartUC) Remove(_ context.Context, cartID string, productID int64) (*domain.Cart, error) {
	c := f.cart(cartID)
	c.Remove(productID)

	return c, f.err
}

func (f *fakeCartUC) Clear(_ context.Context, cartID string) error {
	delete(f.carts, cartID)
	return f.err
}

type fakeCheckoutUC struct {
	err error
}

func (f *fakeCheckoutUC) Checkout(_ context.Context, cartID string) (*usecase.CheckoutRes, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &usecase.CheckoutRes{
		URL:     "https://wa.me/51999888777?text=Hola",
		Message: "Hola",
		Total:   decimal.RequireFromString("61.00"),
	}, nil
}

type testDeps struct {
	catalog  *fakeCatalog
	product  *fakeProductUC
	category *fakeCategoryUC
	extra    *fakeExtraUC
	cart     *fakeCartUC
	checkout *fakeCheckoutUC
}

func newTestRouter(deps *testDeps) *chi.Mux {
	if deps.catalog == nil {
		deps.catalog = &fakeCatalog{}
	}
	if deps.product == nil {
		deps.product = &fakeProductUC{}
	}
	if deps.category == nil {
		deps.category = &fakeCategoryUC{}
	}
	if deps.extra == nil {
		deps.extra = &fakeExtraUC{}
	}
	if deps.cart == nil {
		deps.cart = newFakeCartUC()
	}
	if deps.checkout == nil {
		deps.checkout = &fakeCheckoutUC{}
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNop()).Init(UseCases{
		Catalog:  deps.catalog,
		Product:  deps.product,
		Category: deps.category,
		Extra:    deps.extra,
		Cart:     deps.cart,
		Checkout: deps.checkout,
	}, &cfg.HTTPConfig{}, &cfg.CheckoutCfg{RatePerMinute: 3}, &cfg.AdminCfg{Token: testToken})

	return mux
}

func sampleProducts() []domain.Product {
	rones := int64(1)
	return []domain.Product{
		{ID: 1, Name: "Ron Cartavio", Price: decimal.RequireFromString("30"), CategoryID: &rones, IsActive: true},
		{ID: 2, Name: "Ron Pampero", Price: decimal.RequireFromString("45"), CategoryID: &rones, IsActive: true},
		{ID: 3, Name: "Pack Fiesta", Price: decimal.RequireFromString("90"), IsActive: true, IsPack: true},
		{ID: 4, Name: "Ron Oculto", Price: decimal.RequireFromString("50"), CategoryID: &rones},
	}
}
