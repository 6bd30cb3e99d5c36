package converter

import "github.com/DRSN-tech/storefront/internal/domain"

type ProductConverter interface {
	ToRedisModels(entities []domain.Product) []ProductRedisModel
	ToEntities(models []ProductRedisModel) []domain.Product
}

type CartConverter interface {
	ToRedisModel(entity *domain.Cart) *CartRedisModel
	ToEntity(model *CartRedisModel) *domain.Cart
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToRedisModels(entities []domain.Product) []ProductRedisModel {
	res := make([]ProductRedisModel, 0, len(entities))
	for _, p := range entities {
		res = append(res, ProductRedisModel{
			ID:              p.ID,
			Name:            p.Name,
			Price:           p.Price,
			CategoryID:      p.CategoryID,
			CategoryName:    p.CategoryName,
			IsActive:        p.IsActive,
			IsPack:          p.IsPack,
			HasDiscount:     p.HasDiscount,
			DiscountPercent: p.DiscountPercent,
			ImageURL:        p.ImageURL,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}

	return res
}

func (productConverter) ToEntities(models []ProductRedisModel) []domain.Product {
	res := make([]domain.Product, 0, len(models))
	for _, m := range models {
		res = append(res, domain.Product{
			ID:              m.ID,
			Name:            m.Name,
			Price:           m.Price,
			CategoryID:      m.CategoryID,
			CategoryName:    m.CategoryName,
			IsActive:        m.IsActive,
			IsPack:          m.IsPack,
			HasDiscount:     m.HasDiscount,
			DiscountPercent: m.DiscountPercent,
			ImageURL:        m.ImageURL,
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.UpdatedAt,
		})
	}

	return res
}

type cartConverter struct{}

func NewCartConverter() CartConverter { return cartConverter{} }

func (cartConverter) ToRedisModel(entity *domain.Cart) *CartRedisModel {
	lines := make([]CartLineRedisModel, 0, len(entity.Lines))
	for _, l := range entity.Lines {
		lines = append(lines, CartLineRedisModel(l))
	}

	return &CartRedisModel{ID: entity.ID, Lines: lines}
}

func (cartConverter) ToEntity(model *CartRedisModel) *domain.Cart {
	cart := domain.NewCart(model.ID)
	for _, l := range model.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine(l))
	}

	return cart
}
