package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
)

var errStorage = errors.New("storage is down")

type fakeProducts struct {
	mu        sync.Mutex
	items     map[int64]domain.Product
	nextID    int64
	listCalls int
	listErr   error
	deleteErr error
	deleted   []int64
}

func newFakeProducts(products ...domain.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[int64]domain.Product)}
	for _, p := range products {
		f.items[p.ID] = p
		f.nextID = max(f.nextID, p.ID)
	}

	return f
}

func (f *fakeProducts) ListCandidates(_ context.Context, filter catalog.CandidateFilter) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	res := make([]domain.Product, 0, len(f.items))
	for _, p := range f.items {
		if filter.Matches(&p) {
			res = append(res, p)
		}
	}
	slices.SortFunc(res, func(a, b domain.Product) int { return int(a.ID - b.ID) })

	return res, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.items[id]
	if !ok {
		return nil, e.ErrNotFound
	}

	return &p, nil
}

func (f *fakeProducts) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	p := *product
	p.ID = f.nextID
	f.items[p.ID] = p

	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[product.ID]; !ok {
		return nil, e.ErrNotFound
	}
	p := *product
	f.items[p.ID] = p

	return &p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)

	return nil
}

func (f *fakeProducts) CountByCategory(_ context.Context, categoryID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, p := range f.items {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}

	return n, nil
}

func (f *fakeProducts) ReassignCategory(_ context.Context, fromID, toID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, p := range f.items {
		if p.CategoryID != nil && *p.CategoryID == fromID {
			to := toID
			p.CategoryID = &to
			f.items[id] = p
			n++
		}
	}

	return n, nil
}

type fakeCategories struct {
	items  map[int64]domain.Category
	nextID int64
	err    error
}

func newFakeCategories(categories ...domain.Category) *fakeCategories {
	f := &fakeCategories{items: make(map[int64]domain.Category)}
	for _, c := range categories {
		f.items[c.ID] = c
		f.nextID = max(f.nextID, c.ID)
	}

	return f
}

func (f *fakeCategories) List(context.Context) ([]domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}

	res := make([]domain.Category, 0, len(f.items))
	for _, c := range f.items {
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b domain.Category) int { return strings.Compare(a.Name, b.Name) })

	return res, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, e.ErrNotFound
	}

	return &c, nil
}

func (f *fakeCategories) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range f.items {
		if c.Name == name {
			return &c, nil
		}
	}

	return nil, e.ErrNotFound
}

func (f *fakeCategories) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	f.nextID++
	c := *category
	c.ID = f.nextID
	f.items[c.ID] = c

	return &c, nil
}

func (f *fakeCategories) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if _, ok := f.items[category.ID]; !ok {
		return nil, e.ErrNotFound
	}
	f.items[category.ID] = *category

	return category, nil
}

func (f *fakeCategories) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

type fakeExtras struct {
	items map[int64]domain.Extra
	used  map[int64]bool
}

func newFakeExtras(extras ...domain.Extra) *fakeExtras {
	f := &fakeExtras{items: make(map[int64]domain.Extra), used: make(map[int64]bool)}
	for _, x := range extras {
		f.items[x.ID] = x
	}

	return f
}

func (f *fakeExtras) List(context.Context) ([]domain.Extra, error) {
	res := make([]domain.Extra, 0, len(f.items))
	for _, x := range f.items {
		res = append(res, x)
	}

	return res, nil
}

func (f *fakeExtras) GetByIDs(_ context.Context, ids []int64) ([]domain.Extra, error) {
	var res []domain.Extra
	for _, id := range ids {
		if x, ok := f.items[id]; ok {
			res = append(res, x)
		}
	}

	return res, nil
}

func (f *fakeExtras) Create(_ context.Context, extra *domain.Extra) (*domain.Extra, error) {
	x := *extra
	x.ID = int64(len(f.items) + 1)
	f.items[x.ID] = x

	return &x, nil
}

func (f *fakeExtras) Update(_ context.Context, extra *domain.Extra) (*domain.Extra, error) {
	if _, ok := f.items[extra.ID]; !ok {
		return nil, e.ErrNotFound
	}
	f.items[extra.ID] = *extra

	return extra, nil
}

func (f *fakeExtras) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeExtras) IsUsed(_ context.Context, id int64) (bool, error) {
	return f.used[id], nil
}

type fakePacks struct {
	items     map[int64][]domain.PackItem
	insertErr error
}

func newFakePacks() *fakePacks {
	return &fakePacks{items: make(map[int64][]domain.PackItem)}
}

func (f *fakePacks) ListByPack(_ context.Context, packID int64) ([]domain.PackItem, error) {
	return f.items[packID], nil
}

func (f *fakePacks) Insert(_ context.Context, packID int64, items []domain.PackItem) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items[packID] = append(f.items[packID], items...)

	return nil
}

func (f *fakePacks) DeleteByPack(_ context.Context, packID int64) error {
	delete(f.items, packID)
	return nil
}

type fakeCarts struct {
	carts map[string][]domain.CartLine
	saves int
	err   error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: make(map[string][]domain.CartLine)}
}

func (f *fakeCarts) Get(_ context.Context, cartID string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}

	cart := domain.NewCart(cartID)
	cart.Lines = append(cart.Lines, f.carts[cartID]...)

	return cart, nil
}

func (f *fakeCarts) Save(_ context.Context, cart *domain.Cart) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.carts[cart.ID] = slices.Clone(cart.Lines)

	return nil
}

func (f *fakeCarts) Delete(_ context.Context, cartID string) error {
	delete(f.carts, cartID)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	version     int64
	items       map[string][]domain.Product
	invalidated int
	skipped     int
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]domain.Product)}
}

func (f *fakeCache) Version(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.version, f.err
}

func (f *fakeCache) GetCandidates(_ context.Context, version int64, key string) ([]domain.Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, false, f.err
	}
	if version != f.version {
		return nil, false, nil
	}
	p, ok := f.items[key]

	return p, ok, nil
}

func (f *fakeCache) SetCandidates(_ context.Context, version int64, key string, products []domain.Product) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return false, f.err
	}
	if version != f.version {
		f.skipped++
		return false, nil
	}
	f.items[key] = products

	return true, nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidated++
	f.version++
	clear(f.items)

	return f.err
}

type fakeImages struct {
	uploaded []UploadImageReq
	cleaned  []string
	err      error
}

func (f *fakeImages) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = append(f.uploaded, *req)
	key := string(req.Table) + "/new.png"

	return NewUploadImageRes(key, "http://cdn/"+key), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}

func (f *fakeImages) KeyFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, "http://cdn/")
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	messages []bus.Message
}

func (r *recordingPublisher) Publish(msg bus.Message) {
	r.messages = append(r.messages, msg)
}

func (r *recordingPublisher) catalogChanges() []bus.CatalogChanged {
	var res []bus.CatalogChanged
	for _, m := range r.messages {
		if c, ok := m.(bus.CatalogChanged); ok {
			res = append(res, c)
		}
	}

	return res
}

func ptr[T any](v T) *T {
	return &v
}
