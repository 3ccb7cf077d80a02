package domain

import (
	"context"

	"github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

type Year struct {
	ID    int64 `json:"id"`
	Value int   `json:"value"`
}

func (y *Year) Validate() error {
	if y.Value < 1900 || y.Value > 9999 {
		return errors.NewValidationError("Year must be between 1900 and 9999")
	}
	return nil
}

type YearRepository interface {
	List(ctx context.Context, take int) ([]Year, error)
	GetByID(ctx context.Context, id int64) (*Year, error)
	Create(ctx context.Context, year *Year) error
}
