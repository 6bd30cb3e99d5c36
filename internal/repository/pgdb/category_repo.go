package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, image_url, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool tr.Querier
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool tr.Querier, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := tr.QuerierFromCtx(ctx, c.pool).Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntities(models), nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return c.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (c *CategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return c.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
}

// Create создаёт категорию. Дубликат имени возвращает e.ErrConflict.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return c.getOne(ctx, `
		INSERT INTO categories (name, image_url) VALUES ($1, $2)
		RETURNING `+categoryColumns,
		category.Name, category.ImageURL,
	)
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return c.getOne(ctx, `
		UPDATE categories SET name = $2, image_url = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+categoryColumns,
		category.ID, category.Name, category.ImageURL,
	)
}

// Delete удаляет категорию. Товары, ссылающиеся на неё, дают e.ErrConflict (ON DELETE RESTRICT).
func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.QuerierFromCtx(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (c *CategoryRepo) getOne(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	rows, err := tr.QuerierFromCtx(ctx, c.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return c.conv.ToEntity(&model), nil
}
