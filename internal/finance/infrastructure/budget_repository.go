package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

const budgetColumns = "b.id, b.description, b.value, b.color, b.idx, b.month_id"

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func scanBudget(row interface{ Scan(...any) error }, b *domain.Budget) error {
	return row.Scan(&b.ID, &b.Description, &b.Value, &b.Color, &b.Index, &b.MonthID)
}

func (r *BudgetRepository) query(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var b domain.Budget
		if err := scanBudget(rows, &b); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// List returns the caller's budgets, optionally narrowed to one month.
func (r *BudgetRepository) List(ctx context.Context, filter domain.ChildFilter) ([]domain.Budget, error) {
	query := "SELECT " + budgetColumns + " FROM budgets b JOIN months m ON m.id = b.month_id WHERE m.user_id = $1"
	args := []any{filter.UserID}
	if filter.MonthID != 0 {
		args = append(args, filter.MonthID)
		query += fmt.Sprintf(" AND b.month_id = $%d", len(args))
	}
	query += " ORDER BY b.month_id, b.idx, b.id"
	query, args = takeClause(query, args, filter.Take)
	return r.query(ctx, query, args...)
}

func (r *BudgetRepository) ListByMonth(ctx context.Context, monthID int64) ([]domain.Budget, error) {
	return r.query(ctx, "SELECT "+budgetColumns+" FROM budgets b WHERE b.month_id = $1 ORDER BY b.idx, b.id", monthID)
}

func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	var b domain.Budget
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM budgets b WHERE b.id = $1", id)
	if err := scanBudget(row, &b); err != nil {
		return nil, rowNotFound(err, "budget", id)
	}
	return &b, nil
}

func (r *BudgetRepository) Insert(ctx context.Context, b *domain.Budget) error {
	return database.Conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO budgets (description, value, color, idx, month_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		b.Description, b.Value, b.Color, b.Index, b.MonthID,
	).Scan(&b.ID)
}

// Update writes b. The stored idx is kept unless the month changes, so an
// update racing a reindex of the same month never writes a stale index.
func (r *BudgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE budgets SET description = $1, value = $2, color = $3,
		        idx = CASE WHEN month_id = $4 THEN idx ELSE $5 END, month_id = $4
		 WHERE id = $6`,
		b.Description, b.Value, b.Color, b.MonthID, b.Index, b.ID)
	if err != nil {
		return err
	}
	return expectRow(res, "budget", b.ID)
}
