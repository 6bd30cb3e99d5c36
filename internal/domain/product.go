package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product описывает товар витрины. Пак это товар с IsPack и составом из доп. позиций.
type Product struct {
	ID              int64
	Name            string
	Price           decimal.Decimal // Исходная цена, без скидки
	CategoryID      *int64          // nil: без категории
	CategoryName    string          // Заполняется read-side join'ом хранилища
	IsActive        bool
	IsPack          bool
	HasDiscount     bool
	DiscountPercent int
	ImageURL        *string
	Composition     []PackItem
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func NewProduct(name string, price decimal.Decimal, categoryID *int64) *Product {
	return &Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		IsActive:   true,
	}
}

// DisplayPrice возвращает цену с учётом скидки, округлённую до копеек.
func (p *Product) DisplayPrice() decimal.Decimal {
	if !p.HasDiscount || p.DiscountPercent <= 0 {
		return p.Price
	}

	factor := hundred.Sub(decimal.NewFromInt(int64(p.DiscountPercent))).Div(hundred)
	return p.Price.Mul(factor).Round(2)
}
