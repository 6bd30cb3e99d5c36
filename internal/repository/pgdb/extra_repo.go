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

// ExtraRepo хранит доп. позиции и состав паков.
type ExtraRepo struct {
	pool tr.Querier
	conv converter.ExtraConverter
}

func NewExtraRepo(pool tr.Querier, conv converter.ExtraConverter) *ExtraRepo {
	return &ExtraRepo{pool: pool, conv: conv}
}

func (x *ExtraRepo) List(ctx context.Context) ([]domain.Extra, error) {
	return x.list(ctx, `SELECT id, name, created_at FROM extras ORDER BY name`)
}

func (x *ExtraRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Extra, error) {
	return x.list(ctx, `SELECT id, name, created_at FROM extras WHERE id = ANY($1)`, ids)
}

func (x *ExtraRepo) Create(ctx context.Context, extra *domain.Extra) (*domain.Extra, error) {
	return x.getOne(ctx, `INSERT INTO extras (name) VALUES ($1) RETURNING id, name, created_at`, extra.Name)
}

func (x *ExtraRepo) Update(ctx context.Context, extra *domain.Extra) (*domain.Extra, error) {
	return x.getOne(ctx, `UPDATE extras SET name = $2 WHERE id = $1 RETURNING id, name, created_at`, extra.ID, extra.Name)
}

func (x *ExtraRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.QuerierFromCtx(ctx, x.pool).Exec(ctx, `DELETE FROM extras WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

// IsUsed сообщает, входит ли доп. позиция хотя бы в один пак.
func (x *ExtraRepo) IsUsed(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := tr.QuerierFromCtx(ctx, x.pool).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pack_items WHERE extra_id = $1)`, id).
		Scan(&used)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return used, nil
}

// ListByPack возвращает состав пака в порядке ввода.
func (x *ExtraRepo) ListByPack(ctx context.Context, packID int64) ([]domain.PackItem, error) {
	rows, err := tr.QuerierFromCtx(ctx, x.pool).Query(ctx, `
		SELECT pi.extra_id, ex.name AS extra_name, pi.quantity
		FROM pack_items pi
		JOIN extras ex ON ex.id = pi.extra_id
		WHERE pi.pack_id = $1
		ORDER BY pi.position`, packID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.PackItemModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return x.conv.ToPackItems(models), nil
}

// Insert записывает состав пака одним батчем.
func (x *ExtraRepo) Insert(ctx context.Context, packID int64, items []domain.PackItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(
			`INSERT INTO pack_items (pack_id, extra_id, quantity, position) VALUES ($1, $2, $3, $4)`,
			packID, it.ExtraID, it.Quantity, i,
		)
	}

	q := tr.QuerierFromCtx(ctx, x.pool)
	sender, ok := q.(batchSender)
	if !ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrTransactionNotFound)
	}

	if err := sender.SendBatch(ctx, batch).Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return nil
}

func (x *ExtraRepo) DeleteByPack(ctx context.Context, packID int64) error {
	if _, err := tr.QuerierFromCtx(ctx, x.pool).Exec(ctx, `DELETE FROM pack_items WHERE pack_id = $1`, packID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func (x *ExtraRepo) list(ctx context.Context, query string, args ...any) ([]domain.Extra, error) {
	rows, err := tr.QuerierFromCtx(ctx, x.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ExtraModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return x.conv.ToEntities(models), nil
}

func (x *ExtraRepo) getOne(ctx context.Context, query string, args ...any) (*domain.Extra, error) {
	rows, err := tr.QuerierFromCtx(ctx, x.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ExtraModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(err))
	}

	return x.conv.ToEntity(&model), nil
}
