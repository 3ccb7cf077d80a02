package domain

import (
	"context"
	"time"
)

type AccessToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AccessTokenRepository interface {
	List(ctx context.Context, take int) ([]AccessToken, error)
	Record(ctx context.Context, token *AccessToken) error
}
