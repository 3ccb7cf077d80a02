package infrastructure

import (
	"context"
	"database/sql"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type AccessTokenRepository struct {
	db *sql.DB
}

func NewAccessTokenRepository(db *sql.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

func (r *AccessTokenRepository) List(ctx context.Context, take int) ([]domain.AccessToken, error) {
	query, args := takeClause("SELECT id, user_id, token, created_at, expires_at FROM access_tokens ORDER BY id DESC", nil, take)
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []domain.AccessToken{}
	for rows.Next() {
		var t domain.AccessToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *AccessTokenRepository) Record(ctx context.Context, t *domain.AccessToken) error {
	return database.Conn(ctx, r.db).QueryRowContext(ctx,
		"INSERT INTO access_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at",
		t.UserID, t.Token, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
}
