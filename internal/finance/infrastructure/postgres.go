package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// rowNotFound maps sql.ErrNoRows onto the domain not-found error.
func rowNotFound(err error, kind string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", kind, id, financeErrors.ErrNotFound)
	}
	return err
}

// expectRow turns a zero row count into not-found.
func expectRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, financeErrors.ErrNotFound)
	}
	return nil
}

// takeClause appends a LIMIT placeholder when take is positive.
func takeClause(query string, args []any, take int) (string, []any) {
	if take <= 0 {
		return query, args
	}
	args = append(args, take)
	return fmt.Sprintf("%s LIMIT $%d", query, len(args)), args
}
