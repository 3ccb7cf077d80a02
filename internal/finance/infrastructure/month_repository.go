package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

const monthColumns = "id, value, description, user_id, year_id, created_at"

type MonthRepository struct {
	db *sql.DB
}

func NewMonthRepository(db *sql.DB) *MonthRepository {
	return &MonthRepository{db: db}
}

func scanMonth(row interface{ Scan(...any) error }, m *domain.Month) error {
	return row.Scan(&m.ID, &m.Value, &m.Description, &m.UserID, &m.YearID, &m.CreatedAt)
}

func (r *MonthRepository) List(ctx context.Context, filter domain.MonthFilter) ([]domain.Month, error) {
	query := "SELECT " + monthColumns + " FROM months WHERE user_id = $1"
	args := []any{filter.UserID}
	if filter.YearID != 0 {
		args = append(args, filter.YearID)
		query += fmt.Sprintf(" AND year_id = $%d", len(args))
	}
	query += " ORDER BY year_id, value, id"
	query, args = takeClause(query, args, filter.Take)

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := []domain.Month{}
	for rows.Next() {
		var m domain.Month
		if err := scanMonth(rows, &m); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func (r *MonthRepository) GetByID(ctx context.Context, id int64) (*domain.Month, error) {
	var m domain.Month
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+monthColumns+" FROM months WHERE id = $1", id)
	if err := scanMonth(row, &m); err != nil {
		return nil, rowNotFound(err, "month", id)
	}
	return &m, nil
}

func (r *MonthRepository) Create(ctx context.Context, month *domain.Month) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO months (value, description, user_id, year_id)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		month.Value, month.Description, month.UserID, month.YearID,
	).Scan(&month.ID, &month.CreatedAt)
	if pgCode(err) == pgForeignKeyViolation {
		return financeErrors.ErrInvalidReference
	}
	return err
}

func (r *MonthRepository) Update(ctx context.Context, month *domain.Month) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		"UPDATE months SET value = $1, description = $2, year_id = $3 WHERE id = $4",
		month.Value, month.Description, month.YearID, month.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return financeErrors.ErrInvalidYear
		}
		return err
	}
	return expectRow(res, "month", month.ID)
}

// Delete relies on ON DELETE CASCADE for budgets, incomes and expenses.
func (r *MonthRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, "DELETE FROM months WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res, "month", id)
}
