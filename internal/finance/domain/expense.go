package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	BudgetID    int64           `json:"budgetId"`
	CategoryID  int64           `json:"categoryId"`
}

func (e *Expense) Validate() error {
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := validateValue(e.Value); err != nil {
		return err
	}
	if err := validateID(e.BudgetID, "BudgetId"); err != nil {
		return err
	}
	return validateID(e.CategoryID, "CategoryId")
}

type ExpenseUpdate struct {
	Description *string          `json:"description"`
	Value       *decimal.Decimal `json:"value"`
	BudgetID    *int64           `json:"budgetId"`
	CategoryID  *int64           `json:"categoryId"`
}

func (u ExpenseUpdate) Apply(e *Expense) {
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Value != nil {
		e.Value = *u.Value
	}
	if u.BudgetID != nil {
		e.BudgetID = *u.BudgetID
	}
	if u.CategoryID != nil {
		e.CategoryID = *u.CategoryID
	}
}

type ExpenseFilter struct {
	UserID   int64
	BudgetID int64
	Take     int
}

type ExpenseRepository interface {
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Create(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id int64) error
}
