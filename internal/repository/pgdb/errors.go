package pgdb

import (
	"errors"
	"fmt"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// mapError переводит ошибки PostgreSQL в ошибки pkg/e.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return e.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation, foreignKeyViolation:
			return fmt.Errorf("%w: %s", e.ErrConflict, pgErr.ConstraintName)
		case checkViolation:
			return fmt.Errorf("%w: %s", e.ErrValidation, pgErr.ConstraintName)
		}
	}

	return err
}
