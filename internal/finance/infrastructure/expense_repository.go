package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

const expenseColumns = "e.id, e.description, e.value, e.budget_id, e.category_id"

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN budgets b ON b.id = e.budget_id
		JOIN months m ON m.id = b.month_id
		WHERE m.user_id = $1`
	args := []any{filter.UserID}
	if filter.BudgetID != 0 {
		args = append(args, filter.BudgetID)
		query += fmt.Sprintf(" AND e.budget_id = $%d", len(args))
	}
	query += " ORDER BY e.id"
	query, args = takeClause(query, args, filter.Take)

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Value, &e.BudgetID, &e.CategoryID); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var e domain.Expense
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.id = $1", id,
	).Scan(&e.ID, &e.Description, &e.Value, &e.BudgetID, &e.CategoryID)
	if err != nil {
		return nil, rowNotFound(err, "expense", id)
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"INSERT INTO expenses (description, value, budget_id, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
		e.Description, e.Value, e.BudgetID, e.CategoryID,
	).Scan(&e.ID)
	if pgCode(err) == pgForeignKeyViolation {
		return financeErrors.ErrInvalidReference
	}
	return err
}

func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		"UPDATE expenses SET description = $1, value = $2, budget_id = $3, category_id = $4 WHERE id = $5",
		e.Description, e.Value, e.BudgetID, e.CategoryID, e.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return financeErrors.ErrInvalidReference
		}
		return err
	}
	return expectRow(res, "expense", e.ID)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res, "expense", id)
}
