package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const compensationTimeout = 5 * time.Second

// ProductUseCase реализует управление товарами и паками в админке.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	extraRepo    ExtraRepository
	packRepo     PackItemRepository
	txRunner     TxRunner
	imagesInfra  ImagesInfra
	publisher    Publisher
	validate     *validator.Validate
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	extraRepo ExtraRepository,
	packRepo PackItemRepository,
	txRunner TxRunner,
	imagesInfra ImagesInfra,
	publisher Publisher,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		extraRepo:    extraRepo,
		packRepo:     packRepo,
		txRunner:     txRunner,
		imagesInfra:  imagesInfra,
		publisher:    publisher,
		validate:     newValidator(),
		logger:       logger,
	}
}

// Get возвращает товар (включая неактивный) с составом пака.
func (p *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	product, err := loadProduct(ctx, p.productRepo, p.packRepo, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// Create сохраняет товар. Для пака после строки товара записывается состав;
// если запись состава не удалась, строка пака удаляется.
func (p *ProductUseCase) Create(ctx context.Context, req *SaveProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	items, err := p.validateProduct(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := p.productRepo.Create(ctx, toProduct(req))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if created.IsPack {
		if err := p.packRepo.Insert(ctx, created.ID, items); err != nil {
			p.compensatePack(created.ID, err)
			return nil, e.Wrap(op, err)
		}
		created.Composition = items
	}

	p.publish(created.ID, bus.OpCreated)
	return created, nil
}

// Update перезаписывает товар и, для пака, заменяет состав в одной транзакции.
func (p *ProductUseCase) Update(ctx context.Context, id int64, req *SaveProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	items, err := p.validateProduct(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	existing, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product := toProduct(req)
	product.ID = id
	product.ImageURL = existing.ImageURL

	var updated *domain.Product
	err = p.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = p.productRepo.Update(ctx, product); err != nil {
			return err
		}

		if err := p.packRepo.DeleteByPack(ctx, id); err != nil {
			return err
		}

		if product.IsPack {
			return p.packRepo.Insert(ctx, id, items)
		}

		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updated.Composition = items
	p.publish(id, bus.OpUpdated)
	return updated, nil
}

// SetActive меняет видимость товара на витрине.
func (p *ProductUseCase) SetActive(ctx context.Context, id int64, active bool) (*domain.Product, error) {
	const op = "ProductUseCase.SetActive"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if product.IsActive == active {
		return product, nil
	}

	product.IsActive = active
	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.publish(id, bus.OpUpdated)
	return updated, nil
}

// SetImage загружает новое изображение товара; прежнее удаляется в фоне.
func (p *ProductUseCase) SetImage(ctx context.Context, id int64, image *ProductImage) (*domain.Product, error) {
	const op = "ProductUseCase.SetImage"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	uploaded, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(ImageTableProducts, *image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	previous := product.ImageURL
	product.ImageURL = &uploaded.URL

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned image after failed update. product_id: %d, error: %v", id, e.Wrap(op, err))
		p.imagesInfra.CleanupImages([]string{uploaded.Key})
		return nil, e.Wrap(op, err)
	}

	p.cleanupURL(previous)
	p.publish(id, bus.OpUpdated)
	return updated, nil
}

// Delete удаляет товар; состав пака удаляется каскадно.
func (p *ProductUseCase) Delete(ctx context.Context, id int64) error {
	const op = "ProductUseCase.Delete"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.cleanupURL(product.ImageURL)
	p.publish(id, bus.OpDeleted)
	return nil
}

// compensatePack удаляет пак без состава. Повторов нет, неудача только логируется.
func (p *ProductUseCase) compensatePack(id int64, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()

	if err := p.productRepo.Delete(ctx, id); err != nil {
		p.logger.Errorf(err, "pack %d is left without composition, insert failed with: %v", id, cause)
		return
	}

	p.logger.Warnf("pack %d removed after composition insert failed: %v", id, cause)
}

// validateProduct проверяет форму и возвращает состав пака с названиями доп. позиций.
func (p *ProductUseCase) validateProduct(ctx context.Context, req *SaveProductReq) ([]domain.PackItem, error) {
	req.Name = normalizeName(req.Name)

	if err := validateStruct(p.validate, req); err != nil {
		if errors.Is(err, e.ErrNameRequired) {
			return nil, e.ErrProductNameRequired
		}
		return nil, err
	}

	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	if _, err := p.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrCategoryRequired
		}
		return nil, err
	}

	if !req.IsPack {
		req.Composition = nil
		return nil, nil
	}

	items := mergePackItems(toPackItems(req.Composition))
	if len(items) == 0 {
		return nil, e.ErrEmptyComposition
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ExtraID)
	}

	extras, err := p.extraRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(extras))
	for _, ex := range extras {
		names[ex.ID] = ex.Name
	}

	for i := range items {
		name, ok := names[items[i].ExtraID]
		if !ok {
			return nil, e.ErrUnknownExtra
		}
		items[i].ExtraName = name
	}

	return items, nil
}

func (p *ProductUseCase) cleanupURL(url *string) {
	if url == nil {
		return
	}

	if key, ok := p.imagesInfra.KeyFromURL(*url); ok {
		p.imagesInfra.CleanupImages([]string{key})
	}
}

func (p *ProductUseCase) publish(id int64, op bus.Op) {
	p.publisher.Publish(bus.CatalogChanged{Entity: bus.EntityProduct, ID: id, Op: op})
}

// mergePackItems объединяет повторяющиеся доп. позиции, сохраняя порядок первого вхождения.
func mergePackItems(items []domain.PackItem) []domain.PackItem {
	merged := make([]domain.PackItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, it := range items {
		if i, ok := index[it.ExtraID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ExtraID] = len(merged)
		merged = append(merged, it)
	}

	return merged
}

func toProduct(req *SaveProductReq) *domain.Product {
	product := domain.NewProduct(req.Name, req.Price, req.CategoryID)
	product.IsActive = req.IsActive
	product.IsPack = req.IsPack
	product.HasDiscount = req.HasDiscount
	if req.HasDiscount {
		product.DiscountPercent = req.DiscountPercent
	}

	return product
}
