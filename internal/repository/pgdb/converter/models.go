package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет строку products вместе с названием категории из LEFT JOIN.
type ProductModel struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Price           decimal.Decimal `db:"price"`
	CategoryID      *int64          `db:"category_id"`
	CategoryName    string          `db:"category_name"`
	IsActive        bool            `db:"is_active"`
	IsPack          bool            `db:"is_pack"`
	HasDiscount     bool            `db:"has_discount"`
	DiscountPercent int             `db:"discount_percent"`
	ImageURL        *string         `db:"image_url"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       *time.Time      `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	ImageURL  *string    `db:"image_url"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ExtraModel представляет запись таблицы extras.
type ExtraModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// PackItemModel: строка pack_items с названием доп. позиции.
type PackItemModel struct {
	ExtraID   int64  `db:"extra_id"`
	ExtraName string `db:"extra_name"`
	Quantity  int    `db:"quantity"`
}
