package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
)

// Publisher: шина сообщений приложения.
type Publisher interface {
	Publish(msg bus.Message)
}

type CatalogUC interface {
	Products(ctx context.Context, req catalog.Request) (*ProductPage, error)
	AdminProducts(ctx context.Context, req catalog.Request) (*ProductPage, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Categories(ctx context.Context) ([]CategoryView, error)
	Brands(ctx context.Context, categories catalog.CategorySet) ([]string, error)
}

type ProductUC interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, req *SaveProductReq) (*domain.Product, error)
	Update(ctx context.Context, id int64, req *SaveProductReq) (*domain.Product, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Product, error)
	SetImage(ctx context.Context, id int64, image *ProductImage) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryUC interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, req *SaveCategoryReq) (*domain.Category, error)
	Update(ctx context.Context, id int64, req *SaveCategoryReq) (*domain.Category, error)
	SetImage(ctx context.Context, id int64, image *ProductImage) (*domain.Category, error)
	Delete(ctx context.Context, req *DeleteCategoryReq) error
}

type ExtraUC interface {
	List(ctx context.Context) ([]domain.Extra, error)
	Create(ctx context.Context, req *SaveExtraReq) (*domain.Extra, error)
	Update(ctx context.Context, id int64, req *SaveExtraReq) (*domain.Extra, error)
	Delete(ctx context.Context, id int64) error
}

type CartUC interface {
	NewCartID() string
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Add(ctx context.Context, cartID string, productID int64) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, cartID string, productID int64, delta int) (*domain.Cart, error)
	Remove(ctx context.Context, cartID string, productID int64) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type CheckoutUC interface {
	Checkout(ctx context.Context, cartID string) (*CheckoutRes, error)
}
