package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
)

// ProductRepository хранит товары и паки. Отсутствие записи возвращается как e.ErrNotFound.
type ProductRepository interface {
	catalog.Source
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	ReassignCategory(ctx context.Context, fromID, toID int64) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type ExtraRepository interface {
	List(ctx context.Context) ([]domain.Extra, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Extra, error)
	Create(ctx context.Context, extra *domain.Extra) (*domain.Extra, error)
	Update(ctx context.Context, extra *domain.Extra) (*domain.Extra, error)
	Delete(ctx context.Context, id int64) error
	IsUsed(ctx context.Context, id int64) (bool, error)
}

// PackItemRepository хранит состав паков.
type PackItemRepository interface {
	ListByPack(ctx context.Context, packID int64) ([]domain.PackItem, error)
	Insert(ctx context.Context, packID int64, items []domain.PackItem) error
	DeleteByPack(ctx context.Context, packID int64) error
}

// CartRepository хранит корзину целиком. Для неизвестного ID возвращается пустая корзина.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// CandidateCache кэширует выборки кандидатов по ключу CandidateFilter.
type CandidateCache interface {
	Version(ctx context.Context) (int64, error)
	GetCandidates(ctx context.Context, version int64, key string) ([]domain.Product, bool, error)
	// SetCandidates не пишет, если версия сменилась после чтения.
	SetCandidates(ctx context.Context, version int64, key string, products []domain.Product) (bool, error)
	Invalidate(ctx context.Context) error
}

// ImageRepository: объектное хранилище изображений.
type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// TxRunner выполняет fn в одной транзакции.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
