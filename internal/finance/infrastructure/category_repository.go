package infrastructure

import (
	"context"
	"database/sql"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, userID int64, take int) ([]domain.Category, error) {
	query := "SELECT id, name, user_id FROM categories WHERE user_id IS NULL"
	var args []any
	if userID != 0 {
		query += " OR user_id = $1"
		args = append(args, userID)
	}
	query += " ORDER BY user_id NULLS FIRST, name"
	query, args = takeClause(query, args, take)

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, user_id FROM categories WHERE id = $1", id).Scan(&c.ID, &c.Name, &c.UserID)
	if err != nil {
		return nil, rowNotFound(err, "category", id)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		"INSERT INTO categories (name, user_id) VALUES ($1, $2) RETURNING id", c.Name, c.UserID).Scan(&c.ID)
	return mapCategoryError(err)
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		"UPDATE categories SET name = $1 WHERE id = $2", c.Name, c.ID)
	if err != nil {
		return mapCategoryError(err)
	}
	return expectRow(res, "category", c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return mapCategoryError(err)
	}
	return expectRow(res, "category", id)
}

func mapCategoryError(err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return financeErrors.ErrCategoryNameTaken
	case pgForeignKeyViolation:
		return financeErrors.ErrCategoryInUse
	}
	return err
}
