package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

type YearRepository struct {
	db *sql.DB
}

func NewYearRepository(db *sql.DB) *YearRepository {
	return &YearRepository{db: db}
}

func (r *YearRepository) List(ctx context.Context, take int) ([]domain.Year, error) {
	query, args := takeClause("SELECT id, value FROM years ORDER BY value", nil, take)
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []domain.Year{}
	for rows.Next() {
		var y domain.Year
		if err := rows.Scan(&y.ID, &y.Value); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (r *YearRepository) GetByID(ctx context.Context, id int64) (*domain.Year, error) {
	var y domain.Year
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, "SELECT id, value FROM years WHERE id = $1", id).Scan(&y.ID, &y.Value)
	if err != nil {
		return nil, rowNotFound(err, "year", id)
	}
	return &y, nil
}

func (r *YearRepository) Create(ctx context.Context, year *domain.Year) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"INSERT INTO years (value) VALUES ($1) RETURNING id", year.Value).Scan(&year.ID)
	if pgCode(err) == pgUniqueViolation {
		return fmt.Errorf("year %d: %w", year.Value, financeErrors.ErrConflict)
	}
	return err
}
