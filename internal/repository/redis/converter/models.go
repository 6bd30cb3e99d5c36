package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRedisModel: товар в кэше кандидатов.
type ProductRedisModel struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      *int64          `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name"`
	IsActive        bool            `json:"is_active"`
	IsPack          bool            `json:"is_pack"`
	HasDiscount     bool            `json:"has_discount"`
	DiscountPercent int             `json:"discount_percent"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// CartRedisModel: корзина целиком, одно значение на ключ.
type CartRedisModel struct {
	ID    string               `json:"id"`
	Lines []CartLineRedisModel `json:"lines"`
}

type CartLineRedisModel struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}
