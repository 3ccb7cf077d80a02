package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

const incomeColumns = "i.id, i.description, i.value, i.idx, i.month_id"

type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) query(ctx context.Context, query string, args ...any) ([]domain.Income, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		var i domain.Income
		if err := rows.Scan(&i.ID, &i.Description, &i.Value, &i.Index, &i.MonthID); err != nil {
			return nil, err
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func (r *IncomeRepository) List(ctx context.Context, filter domain.ChildFilter) ([]domain.Income, error) {
	query := "SELECT " + incomeColumns + " FROM incomes i JOIN months m ON m.id = i.month_id WHERE m.user_id = $1"
	args := []any{filter.UserID}
	if filter.MonthID != 0 {
		args = append(args, filter.MonthID)
		query += fmt.Sprintf(" AND i.month_id = $%d", len(args))
	}
	query += " ORDER BY i.month_id, i.idx, i.id"
	query, args = takeClause(query, args, filter.Take)
	return r.query(ctx, query, args...)
}

func (r *IncomeRepository) ListByMonth(ctx context.Context, monthID int64) ([]domain.Income, error) {
	return r.query(ctx, "SELECT "+incomeColumns+" FROM incomes i WHERE i.month_id = $1 ORDER BY i.idx, i.id", monthID)
}

func (r *IncomeRepository) GetByID(ctx context.Context, id int64) (*domain.Income, error) {
	var i domain.Income
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+incomeColumns+" FROM incomes i WHERE i.id = $1", id,
	).Scan(&i.ID, &i.Description, &i.Value, &i.Index, &i.MonthID)
	if err != nil {
		return nil, rowNotFound(err, "income", id)
	}
	return &i, nil
}

func (r *IncomeRepository) Insert(ctx context.Context, i *domain.Income) error {
	return database.Conn(ctx, r.db).QueryRowContext(ctx,
		"INSERT INTO incomes (description, value, idx, month_id) VALUES ($1, $2, $3, $4) RETURNING id",
		i.Description, i.Value, i.Index, i.MonthID,
	).Scan(&i.ID)
}

// Update keeps the stored idx unless the month changes.
func (r *IncomeRepository) Update(ctx context.Context, i *domain.Income) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE incomes SET description = $1, value = $2,
		        idx = CASE WHEN month_id = $3 THEN idx ELSE $4 END, month_id = $3
		 WHERE id = $5`,
		i.Description, i.Value, i.MonthID, i.Index, i.ID)
	if err != nil {
		return err
	}
	return expectRow(res, "income", i.ID)
}
