package usecase

import (
	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ADMIN

// SaveProductReq: данные формы товара или пака.
type SaveProductReq struct {
	Name            string `validate:"required,max=200"`
	Price           decimal.Decimal
	CategoryID      *int64 `validate:"required,gt=0"`
	IsActive        bool
	IsPack          bool
	HasDiscount     bool
	DiscountPercent int           `validate:"required_if=HasDiscount true,min=0,max=100"`
	Composition     []PackItemReq `validate:"dive"`
}

// PackItemReq: строка состава пака из формы.
type PackItemReq struct {
	ExtraID  int64 `validate:"gt=0"`
	Quantity int   `validate:"gt=0"`
}

type SaveCategoryReq struct {
	Name string `validate:"required,max=100"`
}

type SaveExtraReq struct {
	Name string `validate:"required,max=100"`
}

// DeleteCategoryReq описывает удаление категории. ReassignTo задаёт категорию,
// в которую переносятся товары; UseUncategorized переносит их в «Sin categoría».
type DeleteCategoryReq struct {
	ID               int64
	ReassignTo       *int64
	UseUncategorized bool
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ImageTable: префикс ключа объекта: таблица, к записи которой относится изображение.
type ImageTable string

const (
	ImageTableProducts   ImageTable = "products"
	ImageTableCategories ImageTable = "categories"
)

// UploadImageReq: запрос на загрузку одного изображения.
type UploadImageReq struct {
	Table ImageTable
	Image ProductImage
}

// UploadImageRes: ключ объекта в MinIO и публичная ссылка на него.
type UploadImageRes struct {
	Key string
	URL string
}

// STOREFRONT

// CategoryView: категория витрины; Virtual помечает псевдокатегорию «паки».
type CategoryView struct {
	Key      string
	ID       int64
	Name     string
	ImageURL *string
	Virtual  bool
}

// ProductPage: страница каталога с навигацией.
type ProductPage struct {
	*catalog.Result
	Pages []int
}

// CheckoutRes: ссылка wa.me и текст заказа.
type CheckoutRes struct {
	URL     string
	Message string
	Total   decimal.Decimal
}

// MAPPERS

func NewUploadImageReq(table ImageTable, image ProductImage) *UploadImageReq {
	return &UploadImageReq{Table: table, Image: image}
}

func NewUploadImageRes(key, url string) *UploadImageRes {
	return &UploadImageRes{Key: key, URL: url}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func toPackItems(items []PackItemReq) []domain.PackItem {
	res := make([]domain.PackItem, 0, len(items))
	for _, it := range items {
		res = append(res, domain.PackItem{ExtraID: it.ExtraID, Quantity: it.Quantity})
	}

	return res
}
