package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

// SiblingRepository implements domain.SiblingStore over budgets or incomes.
// Callers serialise writers of one month by locking the month row.
type SiblingRepository struct {
	db    *sql.DB
	table string
}

func NewBudgetSiblings(db *sql.DB) *SiblingRepository {
	return &SiblingRepository{db: db, table: "budgets"}
}

func NewIncomeSiblings(db *sql.DB) *SiblingRepository {
	return &SiblingRepository{db: db, table: "incomes"}
}

func (r *SiblingRepository) LockParent(ctx context.Context, monthID int64) error {
	var id int64
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, "SELECT id FROM months WHERE id = $1 FOR UPDATE", monthID).Scan(&id)
	return rowNotFound(err, "month", monthID)
}

func (r *SiblingRepository) ParentOf(ctx context.Context, id int64) (int64, error) {
	var monthID int64
	query := fmt.Sprintf("SELECT month_id FROM %s WHERE id = $1", r.table)
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&monthID); err != nil {
		return 0, rowNotFound(err, r.table, id)
	}
	return monthID, nil
}

func (r *SiblingRepository) NextIndex(ctx context.Context, monthID int64) (int, error) {
	var next int
	query := fmt.Sprintf("SELECT COALESCE(MAX(idx) + 1, 0) FROM %s WHERE month_id = $1", r.table)
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query, monthID).Scan(&next)
	return next, err
}

func (r *SiblingRepository) Siblings(ctx context.Context, monthID int64) ([]domain.Sibling, error) {
	query := fmt.Sprintf("SELECT id, idx FROM %s WHERE month_id = $1 ORDER BY idx, id", r.table)
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, monthID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var siblings []domain.Sibling
	for rows.Next() {
		var s domain.Sibling
		if err := rows.Scan(&s.ID, &s.Index); err != nil {
			return nil, err
		}
		siblings = append(siblings, s)
	}
	return siblings, rows.Err()
}

func (r *SiblingRepository) SetIndex(ctx context.Context, id int64, index int) error {
	query := fmt.Sprintf("UPDATE %s SET idx = $1 WHERE id = $2", r.table)
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, index, id)
	if err != nil {
		return err
	}
	return expectRow(res, r.table, id)
}

func (r *SiblingRepository) Remove(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectRow(res, r.table, id)
}
