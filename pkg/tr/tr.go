// Package tr связывает транзакции avito go-transaction-manager с репозиториями pgx.
package tr

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

// Querier: общее подмножество pgx.Tx и *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTx кладёт транзакцию в контекст.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}

	return tx, nil
}

// QuerierFromCtx возвращает транзакцию из контекста, а без неё пул.
func QuerierFromCtx(ctx context.Context, pool Querier) Querier {
	if tx, err := TxFromCtx(ctx); err == nil {
		return tx
	}

	return pool
}

// Runner выполняет функции внутри транзакции Postgres.
type Runner struct {
	db     transaction.Transactional
	logger logger.Logger
}

func NewRunner(db transaction.Transactional, logger logger.Logger) *Runner {
	return &Runner{db: db, logger: logger}
}

// WithinTx открывает транзакцию, передаёт её в fn через контекст и коммитит при успехе.
// Вложенный вызов переиспользует уже открытую транзакцию.
func (r *Runner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "Runner.WithinTx"

	if _, txErr := TxFromCtx(ctx); txErr == nil {
		return fn(ctx)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.db)
	if err != nil {
		return e.Wrap(op, err)
	}

	defer func() {
		if err == nil || !tx.IsActive() {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Errorf(rbErr, "%s: rollback failed", op)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return e.Wrap(op, e.ErrTransactionNotFound)
	}

	if err = fn(WithTx(ctx, pgxTx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
