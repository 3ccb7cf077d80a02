package application

import (
	"context"
	"fmt"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

// Ownership answers "does this row belong to the caller" for every owned kind.
// A row that is missing and a row owned by someone else look the same to callers.
type Ownership struct {
	repo domain.OwnershipRepository
}

func NewOwnership(repo domain.OwnershipRepository) *Ownership {
	return &Ownership{repo: repo}
}

func (o *Ownership) Require(ctx context.Context, kind domain.ResourceKind, id, userID int64) error {
	owner, err := o.repo.OwnerOf(ctx, kind, id)
	if err != nil {
		return err
	}
	if owner == 0 || owner != userID {
		return fmt.Errorf("%s %d: %w", kind, id, financeErrors.ErrNotFound)
	}
	return nil
}

// RequireVisibleCategory accepts defaults and the caller's own categories.
func (o *Ownership) RequireVisibleCategory(ctx context.Context, categoryID, userID int64) error {
	owner, err := o.repo.OwnerOf(ctx, domain.KindCategory, categoryID)
	if err != nil {
		if financeErrors.IsNotFound(err) {
			return financeErrors.ErrInvalidCategory
		}
		return err
	}
	if owner != 0 && owner != userID {
		return financeErrors.ErrInvalidCategory
	}
	return nil
}
