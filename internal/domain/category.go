package domain

import "time"

// PacksCategoryKey: зарезервированный идентификатор виртуальной категории «паки».
const PacksCategoryKey = "packs"

// UncategorizedName: имя категории, в которую переносятся товары при удалении их категории.
const UncategorizedName = "Sin categoría"

// Category описывает категорию товара
type Category struct {
	ID        int64
	Name      string
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}
