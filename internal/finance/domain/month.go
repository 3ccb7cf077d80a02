package domain

import (
	"context"
	"fmt"
	"time"
)

type Month struct {
	ID          int64     `json:"id"`
	Value       int       `json:"value"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"`
	YearID      int64     `json:"yearId"`
	CreatedAt   time.Time `json:"createdAt"`
	Incomes     []Income  `json:"incomes,omitempty"`
	Budgets     []Budget  `json:"budgets,omitempty"`
}

func (m *Month) Validate() error {
	if err := validateMonthValue(m.Value); err != nil {
		return err
	}
	return validateID(m.YearID, "YearId")
}

type MonthUpdate struct {
	Value       *int    `json:"value"`
	Description *string `json:"description"`
	YearID      *int64  `json:"yearId"`
}

func (u MonthUpdate) Apply(m *Month) {
	if u.Value != nil {
		m.Value = *u.Value
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.YearID != nil {
		m.YearID = *u.YearID
	}
}

type CopyMonthInput struct {
	YearID int64 `json:"yearId"`
	Value  int   `json:"value"`
}

func (in CopyMonthInput) Validate() error {
	if err := validateMonthValue(in.Value); err != nil {
		return err
	}
	return validateID(in.YearID, "YearId")
}

// CopyDescription is stamped on a month created by copying source.
func CopyDescription(sourceMonth int, sourceYear int) string {
	return fmt.Sprintf("Copy of %s %d", time.Month(sourceMonth), sourceYear)
}

type MonthFilter struct {
	UserID int64
	YearID int64
	Take   int
}

type MonthRepository interface {
	List(ctx context.Context, filter MonthFilter) ([]Month, error)
	GetByID(ctx context.Context, id int64) (*Month, error)
	Create(ctx context.Context, month *Month) error
	Update(ctx context.Context, month *Month) error
	Delete(ctx context.Context, id int64) error
}
