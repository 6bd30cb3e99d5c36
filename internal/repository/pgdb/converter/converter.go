package converter

import "github.com/DRSN-tech/storefront/internal/domain"

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToEntities(models []ProductModel) []domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
	ToEntities(models []CategoryModel) []domain.Category
}

type ExtraConverter interface {
	ToEntity(model *ExtraModel) *domain.Extra
	ToEntities(models []ExtraModel) []domain.Extra
	ToPackItems(models []PackItemModel) []domain.PackItem
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:              entity.ID,
		Name:            entity.Name,
		Price:           entity.Price,
		CategoryID:      entity.CategoryID,
		CategoryName:    entity.CategoryName,
		IsActive:        entity.IsActive,
		IsPack:          entity.IsPack,
		HasDiscount:     entity.HasDiscount,
		DiscountPercent: entity.DiscountPercent,
		ImageURL:        entity.ImageURL,
		CreatedAt:       entity.CreatedAt,
		UpdatedAt:       entity.UpdatedAt,
	}
}

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:              model.ID,
		Name:            model.Name,
		Price:           model.Price,
		CategoryID:      model.CategoryID,
		CategoryName:    model.CategoryName,
		IsActive:        model.IsActive,
		IsPack:          model.IsPack,
		HasDiscount:     model.HasDiscount,
		DiscountPercent: model.DiscountPercent,
		ImageURL:        model.ImageURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func (c productConverter) ToEntities(models []ProductModel) []domain.Product {
	res := make([]domain.Product, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}

	return res
}

type categoryConverter struct{}

func NewCategoryConverter() CategoryConverter { return categoryConverter{} }

func (categoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		ImageURL:  model.ImageURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (c categoryConverter) ToEntities(models []CategoryModel) []domain.Category {
	res := make([]domain.Category, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}

	return res
}

type extraConverter struct{}

func NewExtraConverter() ExtraConverter { return extraConverter{} }

func (extraConverter) ToEntity(model *ExtraModel) *domain.Extra {
	return &domain.Extra{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}
}

func (c extraConverter) ToEntities(models []ExtraModel) []domain.Extra {
	res := make([]domain.Extra, 0, len(models))
	for i := range models {
		res = append(res, *c.ToEntity(&models[i]))
	}

	return res
}

func (extraConverter) ToPackItems(models []PackItemModel) []domain.PackItem {
	res := make([]domain.PackItem, 0, len(models))
	for _, m := range models {
		res = append(res, domain.PackItem{ExtraID: m.ExtraID, ExtraName: m.ExtraName, Quantity: m.Quantity})
	}

	return res
}
