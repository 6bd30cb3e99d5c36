package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/internal/catalog"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	p.id, p.name, p.price, p.category_id, COALESCE(c.name, '') AS category_name,
	p.is_active, p.is_pack, p.has_discount, p.discount_percent, p.image_url,
	p.created_at, p.updated_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool tr.Querier
	conv converter.ProductConverter
}

func NewProductRepo(pool tr.Querier, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// ListCandidates возвращает товары по фасетам, выразимым в SQL. Название категории
// подтягивается LEFT JOIN'ом, поэтому товары без категории тоже попадают в выборку.
func (p *ProductRepo) ListCandidates(ctx context.Context, filter catalog.CandidateFilter) ([]domain.Product, error) {
	query, args := buildCandidateQuery(filter)

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntities(models), nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	rows, err := tr.QuerierFromCtx(ctx, p.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, price, category_id, is_active, is_pack, has_discount, discount_percent, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id int64
	err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query,
		m.Name, m.Price, m.CategoryID, m.IsActive, m.IsPack, m.HasDiscount, m.DiscountPercent, m.ImageURL,
	).Scan(&id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return p.GetByID(ctx, id)
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m := p.conv.ToModel(product)
	query := `
		UPDATE products SET
			name = $2, price = $3, category_id = $4, is_active = $5, is_pack = $6,
			has_discount = $7, discount_percent = $8, image_url = $9, updated_at = NOW()
		WHERE id = $1`

	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, query,
		m.ID, m.Name, m.Price, m.CategoryID, m.IsActive, m.IsPack, m.HasDiscount, m.DiscountPercent, m.ImageURL,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return p.GetByID(ctx, m.ID)
}

// Delete удаляет товар; строки pack_items удаляются каскадно.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (p *ProductRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := tr.QuerierFromCtx(ctx, p.pool).
		QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).
		Scan(&n)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return n, nil
}

// ReassignCategory переносит товары категории fromID в toID и возвращает их число.
func (p *ProductRepo) ReassignCategory(ctx context.Context, fromID, toID int64) (int64, error) {
	tag, err := tr.QuerierFromCtx(ctx, p.pool).Exec(ctx,
		`UPDATE products SET category_id = $2, updated_at = NOW() WHERE category_id = $1`, fromID, toID,
	)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return tag.RowsAffected(), nil
}

// buildCandidateQuery собирает SELECT по CandidateFilter.
// Виртуальная категория «паки» выражается через is_pack.
func buildCandidateQuery(f catalog.CandidateFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	arg := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	switch f.Visibility {
	case catalog.VisibilityActive:
		conds = append(conds, "p.is_active")
	case catalog.VisibilityInactive:
		conds = append(conds, "NOT p.is_active")
	}

	if f.OnlyPacks {
		conds = append(conds, "p.is_pack")
	}

	if f.PriceMin.IsPositive() {
		arg("p.price >= $%d", f.PriceMin)
	}

	if f.PriceMax != nil {
		arg("p.price <= $%d", *f.PriceMax)
	}

	if len(f.CategoryIDs) > 0 {
		if f.OrPacks {
			arg("(p.category_id = ANY($%d) OR p.is_pack)", f.CategoryIDs)
		} else {
			arg("p.category_id = ANY($%d)", f.CategoryIDs)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(productColumns)
	b.WriteString("\nFROM products p\nLEFT JOIN categories c ON c.id = p.category_id")
	if len(conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString("\nORDER BY p.id")

	return b.String(), args
}
