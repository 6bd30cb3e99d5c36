package http

import (
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/shopspring/decimal"
)

type productResponse struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Brand           string             `json:"brand"`
	Price           decimal.Decimal    `json:"price"`
	DisplayPrice    decimal.Decimal    `json:"displayPrice"`
	CategoryID      *int64             `json:"categoryId"`
	CategoryName    string             `json:"categoryName,omitempty"`
	IsActive        bool               `json:"isActive"`
	IsPack          bool               `json:"isPack"`
	HasDiscount     bool               `json:"hasDiscount"`
	DiscountPercent int                `json:"discountPercent,omitempty"`
	ImageURL        *string            `json:"imageUrl"`
	Composition     []packItemResponse `json:"composition,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       *time.Time         `json:"updatedAt,omitempty"`
}

type packItemResponse struct {
	ExtraID   int64  `json:"extraId"`
	ExtraName string `json:"extraName"`
	Quantity  int    `json:"quantity"`
}

type productPageResponse struct {
	Items      []productResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Pages      []int             `json:"pages"`
	Seq        string            `json:"seq,omitempty"`
}

type categoryResponse struct {
	Key      string  `json:"key"`
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
	Virtual  bool    `json:"virtual,omitempty"`
}

type extraResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type cartLineResponse struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	ID    string             `json:"id"`
	Lines []cartLineResponse `json:"lines"`
	Count int                `json:"count"`
	Total decimal.Decimal    `json:"total"`
}

type checkoutResponse struct {
	URL     string          `json:"url"`
	Message string          `json:"message"`
	Total   decimal.Decimal `json:"total"`
}

// saveProductBody: тело запроса на создание и изменение товара.
type saveProductBody struct {
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      *int64          `json:"categoryId"`
	IsActive        *bool           `json:"isActive"`
	IsPack          bool            `json:"isPack"`
	HasDiscount     bool            `json:"hasDiscount"`
	DiscountPercent int             `json:"discountPercent"`
	Composition     []struct {
		ExtraID  int64 `json:"extraId"`
		Quantity int   `json:"quantity"`
	} `json:"composition"`
}

func (b *saveProductBody) toReq() *usecase.SaveProductReq {
	req := &usecase.SaveProductReq{
		Name:            b.Name,
		Price:           b.Price,
		CategoryID:      b.CategoryID,
		IsActive:        b.IsActive == nil || *b.IsActive,
		IsPack:          b.IsPack,
		HasDiscount:     b.HasDiscount,
		DiscountPercent: b.DiscountPercent,
	}

	for _, it := range b.Composition {
		req.Composition = append(req.Composition, usecase.PackItemReq{ExtraID: it.ExtraID, Quantity: it.Quantity})
	}

	return req
}

type nameBody struct {
	Name string `json:"name"`
}

type activeBody struct {
	Active bool `json:"active"`
}

type addItemBody struct {
	ProductID int64 `json:"productId"`
}

type quantityBody struct {
	Delta int `json:"delta"`
}

func toProductResponse(p *domain.Product) productResponse {
	res := productResponse{
		ID:              p.ID,
		Name:            p.Name,
		Brand:           catalog.BrandLabel(p.Name),
		Price:           p.Price,
		DisplayPrice:    p.DisplayPrice(),
		CategoryID:      p.CategoryID,
		CategoryName:    p.CategoryName,
		IsActive:        p.IsActive,
		IsPack:          p.IsPack,
		HasDiscount:     p.HasDiscount,
		DiscountPercent: p.DiscountPercent,
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	for _, it := range p.Composition {
		res.Composition = append(res.Composition, packItemResponse{
			ExtraID:   it.ExtraID,
			ExtraName: it.ExtraName,
			Quantity:  it.Quantity,
		})
	}

	return res
}

func toProductPageResponse(page *usecase.ProductPage, seq string) productPageResponse {
	items := make([]productResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toProductResponse(&page.Items[i]))
	}

	return productPageResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
		Pages:      page.Pages,
		Seq:        seq,
	}
}

func toCategoryViewResponse(v usecase.CategoryView) categoryResponse {
	return categoryResponse{Key: v.Key, ID: v.ID, Name: v.Name, ImageURL: v.ImageURL, Virtual: v.Virtual}
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{Key: strconv.FormatInt(c.ID, 10), ID: c.ID, Name: c.Name, ImageURL: c.ImageURL}
}

func toCartResponse(c *domain.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}

	return cartResponse{ID: c.ID, Lines: lines, Count: c.Count(), Total: c.Total()}
}
