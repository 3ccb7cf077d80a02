package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Income struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Index       int             `json:"index"`
	MonthID     int64           `json:"monthId"`
}

func (i *Income) Validate() error {
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if err := validateValue(i.Value); err != nil {
		return err
	}
	return validateID(i.MonthID, "MonthId")
}

type IncomeUpdate struct {
	Description *string          `json:"description"`
	Value       *decimal.Decimal `json:"value"`
	MonthID     *int64           `json:"monthId"`
}

func (u IncomeUpdate) Apply(i *Income) {
	if u.Description != nil {
		i.Description = *u.Description
	}
	if u.Value != nil {
		i.Value = *u.Value
	}
}

type IncomeRepository interface {
	List(ctx context.Context, filter ChildFilter) ([]Income, error)
	ListByMonth(ctx context.Context, monthID int64) ([]Income, error)
	GetByID(ctx context.Context, id int64) (*Income, error)
	Insert(ctx context.Context, i *Income) error
	Update(ctx context.Context, i *Income) error
}
