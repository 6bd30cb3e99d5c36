package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
)

// CategoryUseCase реализует управление категориями.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	txRunner     TxRunner
	imagesInfra  ImagesInfra
	publisher    Publisher
	validate     *validator.Validate
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	txRunner TxRunner,
	imagesInfra ImagesInfra,
	publisher Publisher,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		txRunner:     txRunner,
		imagesInfra:  imagesInfra,
		publisher:    publisher,
		validate:     newValidator(),
		logger:       logger,
	}
}

func (c *CategoryUseCase) List(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.List"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, e.Unavailable("categories", err))
	}

	return categories, nil
}

func (c *CategoryUseCase) Create(ctx context.Context, req *SaveCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Create"

	if err := c.validateCategory(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := c.categoryRepo.Create(ctx, domain.NewCategory(req.Name))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.publish(created.ID, bus.OpCreated)
	return created, nil
}

func (c *CategoryUseCase) Update(ctx context.Context, id int64, req *SaveCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Update"

	if err := c.validateCategory(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	category.Name = req.Name
	updated, err := c.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.publish(id, bus.OpUpdated)
	return updated, nil
}

// SetImage загружает изображение категории; прежнее удаляется в фоне.
func (c *CategoryUseCase) SetImage(ctx context.Context, id int64, image *ProductImage) (*domain.Category, error) {
	const op = "CategoryUseCase.SetImage"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	uploaded, err := c.imagesInfra.UploadImage(ctx, NewUploadImageReq(ImageTableCategories, *image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	previous := category.ImageURL
	category.ImageURL = &uploaded.URL

	updated, err := c.categoryRepo.Update(ctx, category)
	if err != nil {
		c.imagesInfra.CleanupImages([]string{uploaded.Key})
		return nil, e.Wrap(op, err)
	}

	if previous != nil {
		if key, ok := c.imagesInfra.KeyFromURL(*previous); ok {
			c.imagesInfra.CleanupImages([]string{key})
		}
	}

	c.publish(id, bus.OpUpdated)
	return updated, nil
}

// Delete удаляет категорию. Если в ней есть товары, нужен перенос в другую категорию
// (ReassignTo или «Sin categoría»), иначе возвращается e.ErrCategoryInUse.
// Перенос и удаление выполняются в одной транзакции.
func (c *CategoryUseCase) Delete(ctx context.Context, req *DeleteCategoryReq) error {
	const op = "CategoryUseCase.Delete"

	category, err := c.categoryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if req.ReassignTo != nil && *req.ReassignTo == req.ID {
		return e.Wrap(op, e.ErrInvalidID)
	}

	reassign := req.ReassignTo != nil || req.UseUncategorized
	var moved int64

	err = c.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		count, err := c.productRepo.CountByCategory(ctx, req.ID)
		if err != nil {
			return err
		}

		if count > 0 {
			if !reassign {
				return e.ErrCategoryInUse
			}

			target, err := c.reassignTarget(ctx, req)
			if err != nil {
				return err
			}

			if moved, err = c.productRepo.ReassignCategory(ctx, req.ID, target); err != nil {
				return err
			}
		}

		return c.categoryRepo.Delete(ctx, req.ID)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	if moved > 0 {
		c.logger.Infof("category %d deleted, %d product(s) reassigned", req.ID, moved)
	}

	if category.ImageURL != nil {
		if key, ok := c.imagesInfra.KeyFromURL(*category.ImageURL); ok {
			c.imagesInfra.CleanupImages([]string{key})
		}
	}

	c.publish(req.ID, bus.OpDeleted)
	return nil
}

// reassignTarget возвращает категорию для переноса, создавая «Sin categoría» при необходимости.
func (c *CategoryUseCase) reassignTarget(ctx context.Context, req *DeleteCategoryReq) (int64, error) {
	if req.ReassignTo != nil {
		target, err := c.categoryRepo.GetByID(ctx, *req.ReassignTo)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return 0, e.ErrCategoryRequired
			}
			return 0, err
		}
		return target.ID, nil
	}

	fallback, err := c.categoryRepo.GetByName(ctx, domain.UncategorizedName)
	switch {
	case err == nil:
		if fallback.ID == req.ID {
			return 0, e.ErrCategoryInUse
		}
		return fallback.ID, nil
	case errors.Is(err, e.ErrNotFound):
		created, err := c.categoryRepo.Create(ctx, domain.NewCategory(domain.UncategorizedName))
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	default:
		return 0, err
	}
}

func (c *CategoryUseCase) validateCategory(req *SaveCategoryReq) error {
	req.Name = normalizeName(req.Name)
	return validateStruct(c.validate, req)
}

func (c *CategoryUseCase) publish(id int64, op bus.Op) {
	c.publisher.Publish(bus.CatalogChanged{Entity: bus.EntityCategory, ID: id, Op: op})
}
