package usecase

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// CatalogUseCase обслуживает чтение каталога: витрину и списки админки.
type CatalogUseCase struct {
	engine       *catalog.Engine
	source       catalog.Source
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	packRepo     PackItemRepository
	cfg          *cfg.CatalogCfg
	logger       logger.Logger
}

func NewCatalogUC(
	source catalog.Source,
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	packRepo PackItemRepository,
	cfg *cfg.CatalogCfg,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		engine:       catalog.NewEngine(source),
		source:       source,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		packRepo:     packRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Products выполняет запрос витрины: только активные товары, паки первыми.
func (c *CatalogUseCase) Products(ctx context.Context, req catalog.Request) (*ProductPage, error) {
	const op = "CatalogUseCase.Products"

	req.FilterBy = catalog.VisibilityActive
	req.Order = catalog.OrderBrowse
	req.MatchCategoryName = false
	req.PageSize = c.pageSize(req.PageSize, c.cfg.PageSize)

	page, err := c.query(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return page, nil
}

// AdminProducts выполняет запрос админки: новые записи первыми, поиск и по категории.
func (c *CatalogUseCase) AdminProducts(ctx context.Context, req catalog.Request) (*ProductPage, error) {
	const op = "CatalogUseCase.AdminProducts"

	req.Order = catalog.OrderRecency
	req.MatchCategoryName = true
	req.PageSize = c.pageSize(req.PageSize, c.cfg.AdminPageSize)

	page, err := c.query(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return page, nil
}

// Product возвращает активный товар витрины вместе с составом пака.
func (c *CatalogUseCase) Product(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.Product"

	product, err := loadProduct(ctx, c.productRepo, c.packRepo, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.IsActive {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	return product, nil
}

// Categories возвращает категории витрины. Псевдокатегория «паки» идёт первой,
// если есть хотя бы один активный пак.
func (c *CatalogUseCase) Categories(ctx context.Context) ([]CategoryView, error) {
	const op = "CatalogUseCase.Categories"

	var (
		categories []domain.Category
		packs      []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.categoryRepo.List(gctx)
		if err != nil {
			return e.Unavailable("categories", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		packs, err = c.source.ListCandidates(gctx, catalog.CandidateFilter{
			Visibility: catalog.VisibilityActive,
			OnlyPacks:  true,
		})
		if err != nil {
			return e.Unavailable("packs", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, e.Wrap(op, err)
	}

	views := make([]CategoryView, 0, len(categories)+1)
	if len(packs) > 0 {
		views = append(views, CategoryView{Key: domain.PacksCategoryKey, Name: "Packs", Virtual: true})
	}
	for _, cat := range categories {
		views = append(views, newCategoryView(cat))
	}

	return views, nil
}

// Brands возвращает марки активных товаров выбранных категорий.
func (c *CatalogUseCase) Brands(ctx context.Context, categories catalog.CategorySet) ([]string, error) {
	const op = "CatalogUseCase.Brands"

	req := catalog.Request{FilterBy: catalog.VisibilityActive, Categories: categories}
	products, err := c.source.ListCandidates(ctx, req.CandidateFilter())
	if err != nil {
		return nil, e.Wrap(op, e.Unavailable("candidates", err))
	}

	return catalog.Brands(products), nil
}

func (c *CatalogUseCase) query(ctx context.Context, req catalog.Request) (*ProductPage, error) {
	res, err := c.engine.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Result: res,
		Pages:  catalog.PageWindow(res.Page, res.TotalPages(), c.cfg.PageWindow),
	}, nil
}

// pageSize подставляет размер по умолчанию и ограничивает сверху.
// Отрицательное значение пропускается как есть, его отклонит движок.
func (c *CatalogUseCase) pageSize(requested, fallback int) int {
	switch {
	case requested == 0:
		return fallback
	case requested > c.cfg.MaxPageSize:
		return c.cfg.MaxPageSize
	default:
		return requested
	}
}

func newCategoryView(cat domain.Category) CategoryView {
	return CategoryView{
		Key:      strconv.FormatInt(cat.ID, 10),
		ID:       cat.ID,
		Name:     cat.Name,
		ImageURL: cat.ImageURL,
	}
}

// loadProduct читает товар и, для пака, его состав.
func loadProduct(ctx context.Context, products ProductRepository, packs PackItemRepository, id int64) (*domain.Product, error) {
	product, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.IsPack {
		items, err := packs.ListByPack(ctx, id)
		if err != nil {
			return nil, err
		}
		product.Composition = items
	}

	return product, nil
}
