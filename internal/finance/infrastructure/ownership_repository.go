package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

// ownerQueries resolve a row to the id of the user at the top of its chain.
var ownerQueries = map[domain.ResourceKind]string{
	domain.KindMonth: "SELECT user_id FROM months WHERE id = $1",
	domain.KindBudget: `SELECT m.user_id FROM budgets b
		JOIN months m ON m.id = b.month_id WHERE b.id = $1`,
	domain.KindIncome: `SELECT m.user_id FROM incomes i
		JOIN months m ON m.id = i.month_id WHERE i.id = $1`,
	domain.KindExpense: `SELECT m.user_id FROM expenses e
		JOIN budgets b ON b.id = e.budget_id
		JOIN months m ON m.id = b.month_id WHERE e.id = $1`,
	domain.KindCategory: "SELECT COALESCE(user_id, 0) FROM categories WHERE id = $1",
}

type OwnershipRepository struct {
	db *sql.DB
}

func NewOwnershipRepository(db *sql.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

func (r *OwnershipRepository) OwnerOf(ctx context.Context, kind domain.ResourceKind, id int64) (int64, error) {
	query, ok := ownerQueries[kind]
	if !ok {
		return 0, fmt.Errorf("unknown resource kind %q", kind)
	}
	var owner int64
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&owner); err != nil {
		return 0, rowNotFound(err, string(kind), id)
	}
	return owner, nil
}
