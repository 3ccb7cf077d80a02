package application

import (
	"context"
	"fmt"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

// CategoryService manages defaults (admin only) and private categories.
type CategoryService struct {
	repo    domain.CategoryRepository
	adminID int64
}

func NewCategoryService(repo domain.CategoryRepository, adminID int64) *CategoryService {
	return &CategoryService{repo: repo, adminID: adminID}
}

// ListCategories returns defaults plus the caller's own. userID 0 gets defaults only.
func (s *CategoryService) ListCategories(ctx context.Context, userID int64, take int) ([]domain.Category, error) {
	return s.repo.List(ctx, userID, take)
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID int64, in domain.CategoryInput) (*domain.Category, error) {
	category := &domain.Category{Name: in.Name}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if in.IsDefault {
		if userID != s.adminID {
			return nil, financeErrors.ErrDefaultCategory
		}
	} else {
		owner := userID
		category.UserID = &owner
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id int64, update domain.CategoryUpdate) (*domain.Category, error) {
	category, err := s.writable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		category.Name = *update.Name
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory fails with ErrCategoryInUse while any expense references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if _, err := s.writable(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) writable(ctx context.Context, userID, id int64) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		if userID != s.adminID {
			return nil, financeErrors.ErrDefaultCategory
		}
		return category, nil
	}
	if *category.UserID != userID {
		return nil, fmt.Errorf("category %d: %w", id, financeErrors.ErrNotFound)
	}
	return category, nil
}
