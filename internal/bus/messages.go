package bus

import (
	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Message: закрытый набор сообщений шины.
type Message interface {
	isMessage()
}

// CategorySelected: пользователь изменил выбор категорий.
type CategorySelected struct {
	Categories catalog.CategorySet
}

// SearchQueryChanged: пользователь изменил строку поиска.
type SearchQueryChanged struct {
	Term string
}

// FacetsChanged: изменились прочие фасеты или страница.
type FacetsChanged struct {
	FilterBy  catalog.Visibility
	PriceMin  decimal.Decimal
	PriceMax  *decimal.Decimal
	Brands    []string
	OnlyPacks bool
	Page      int
}

// CartChanged публикуется после каждой записи корзины.
type CartChanged struct {
	CartID string
	Count  int
	Total  decimal.Decimal
}

// Entity: тип сущности каталога.
type Entity string

const (
	EntityProduct  Entity = "product"
	EntityCategory Entity = "category"
	EntityExtra    Entity = "extra"
)

// Op: операция над сущностью.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// CatalogChanged публикуется после изменения каталога в админке.
type CatalogChanged struct {
	Entity Entity `json:"entity"`
	ID     int64  `json:"id"`
	Op     Op     `json:"op"`
}

func (CategorySelected) isMessage()   {}
func (SearchQueryChanged) isMessage() {}
func (FacetsChanged) isMessage()      {}
func (CartChanged) isMessage()        {}
func (CatalogChanged) isMessage()     {}
