package application

import (
	"context"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type YearService struct {
	repo domain.YearRepository
}

func NewYearService(repo domain.YearRepository) *YearService {
	return &YearService{repo: repo}
}

func (s *YearService) ListYears(ctx context.Context, take int) ([]domain.Year, error) {
	return s.repo.List(ctx, take)
}

func (s *YearService) CreateYear(ctx context.Context, year *domain.Year) error {
	if err := year.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, year)
}

type AccessTokenService struct {
	repo domain.AccessTokenRepository
}

func NewAccessTokenService(repo domain.AccessTokenRepository) *AccessTokenService {
	return &AccessTokenService{repo: repo}
}

func (s *AccessTokenService) ListAccessTokens(ctx context.Context, take int) ([]domain.AccessToken, error) {
	return s.repo.List(ctx, take)
}
