package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Color       string          `json:"color"`
	Index       int             `json:"index"`
	MonthID     int64           `json:"monthId"`
}

func (b *Budget) Validate() error {
	if err := validateDescription(b.Description); err != nil {
		return err
	}
	if err := validateValue(b.Value); err != nil {
		return err
	}
	if err := validateColor(b.Color); err != nil {
		return err
	}
	return validateID(b.MonthID, "MonthId")
}

// Normalize fills defaults before validation.
func (b *Budget) Normalize() {
	if b.Color == "" {
		b.Color = DefaultBudgetColor
	}
}

type BudgetUpdate struct {
	Description *string          `json:"description"`
	Value       *decimal.Decimal `json:"value"`
	Color       *string          `json:"color"`
	MonthID     *int64           `json:"monthId"`
}

func (u BudgetUpdate) Apply(b *Budget) {
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Value != nil {
		b.Value = *u.Value
	}
	if u.Color != nil {
		b.Color = *u.Color
	}
}

// ChildFilter narrows listings of month children.
type ChildFilter struct {
	UserID  int64
	MonthID int64
	Take    int
}

type BudgetRepository interface {
	List(ctx context.Context, filter ChildFilter) ([]Budget, error)
	ListByMonth(ctx context.Context, monthID int64) ([]Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	// Insert stores b with the index already assigned.
	Insert(ctx context.Context, b *Budget) error
	Update(ctx context.Context, b *Budget) error
}
