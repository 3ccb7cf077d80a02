package application

import (
	"context"
	"fmt"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

type MonthService struct {
	months  domain.MonthRepository
	years   domain.YearRepository
	budgets domain.BudgetRepository
	incomes domain.IncomeRepository
	owners  *Ownership
	tx      domain.TxManager
}

func NewMonthService(
	months domain.MonthRepository,
	years domain.YearRepository,
	budgets domain.BudgetRepository,
	incomes domain.IncomeRepository,
	owners *Ownership,
	tx domain.TxManager,
) *MonthService {
	return &MonthService{months: months, years: years, budgets: budgets, incomes: incomes, owners: owners, tx: tx}
}

func (s *MonthService) ListMonths(ctx context.Context, filter domain.MonthFilter) ([]domain.Month, error) {
	return s.months.List(ctx, filter)
}

// GetMonth returns the month with its incomes and budgets in index order.
func (s *MonthService) GetMonth(ctx context.Context, userID, id int64) (*domain.Month, error) {
	if err := s.owners.Require(ctx, domain.KindMonth, id, userID); err != nil {
		return nil, err
	}
	month, err := s.months.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if month.Incomes, err = s.incomes.ListByMonth(ctx, id); err != nil {
		return nil, err
	}
	if month.Budgets, err = s.budgets.ListByMonth(ctx, id); err != nil {
		return nil, err
	}
	return month, nil
}

func (s *MonthService) CreateMonth(ctx context.Context, userID int64, month *domain.Month) error {
	if err := month.Validate(); err != nil {
		return err
	}
	month.UserID = userID
	if err := s.requireYear(ctx, month.YearID); err != nil {
		return err
	}
	return s.months.Create(ctx, month)
}

func (s *MonthService) UpdateMonth(ctx context.Context, userID, id int64, update domain.MonthUpdate) (*domain.Month, error) {
	var month *domain.Month
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindMonth, id, userID); err != nil {
			return err
		}
		current, err := s.months.GetByID(ctx, id)
		if err != nil {
			return err
		}
		update.Apply(current)
		if err := current.Validate(); err != nil {
			return err
		}
		if update.YearID != nil {
			if err := s.requireYear(ctx, current.YearID); err != nil {
				return err
			}
		}
		month = current
		return s.months.Update(ctx, month)
	})
	if err != nil {
		return nil, err
	}
	return month, nil
}

// DeleteMonth removes the month, its budgets with their expenses and its incomes.
func (s *MonthService) DeleteMonth(ctx context.Context, userID, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindMonth, id, userID); err != nil {
			return err
		}
		return s.months.Delete(ctx, id)
	})
}

// CopyMonth creates a month in in.YearID holding copies of the source month's
// incomes and budgets. Expenses are not copied.
func (s *MonthService) CopyMonth(ctx context.Context, userID, sourceID int64, in domain.CopyMonthInput) (*domain.Month, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var copied *domain.Month
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindMonth, sourceID, userID); err != nil {
			return err
		}
		if err := s.requireYear(ctx, in.YearID); err != nil {
			return err
		}
		source, err := s.months.GetByID(ctx, sourceID)
		if err != nil {
			return err
		}
		sourceYear, err := s.years.GetByID(ctx, source.YearID)
		if err != nil {
			return fmt.Errorf("source year: %w", err)
		}

		month := &domain.Month{
			Value:       in.Value,
			YearID:      in.YearID,
			UserID:      userID,
			Description: domain.CopyDescription(source.Value, sourceYear.Value),
		}
		if err := s.months.Create(ctx, month); err != nil {
			return err
		}

		incomes, err := s.incomes.ListByMonth(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, income := range incomes {
			income.ID = 0
			income.MonthID = month.ID
			if err := s.incomes.Insert(ctx, &income); err != nil {
				return fmt.Errorf("copy income: %w", err)
			}
			month.Incomes = append(month.Incomes, income)
		}

		budgets, err := s.budgets.ListByMonth(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, budget := range budgets {
			budget.ID = 0
			budget.MonthID = month.ID
			if err := s.budgets.Insert(ctx, &budget); err != nil {
				return fmt.Errorf("copy budget: %w", err)
			}
			month.Budgets = append(month.Budgets, budget)
		}

		copied = month
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func (s *MonthService) requireYear(ctx context.Context, yearID int64) error {
	if _, err := s.years.GetByID(ctx, yearID); err != nil {
		if financeErrors.IsNotFound(err) {
			return financeErrors.ErrInvalidYear
		}
		return err
	}
	return nil
}
