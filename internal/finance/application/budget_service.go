package application

import (
	"context"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type BudgetService struct {
	repo    domain.BudgetRepository
	ordered *OrderedCollection
	owners  *Ownership
	tx      domain.TxManager
}

func NewBudgetService(repo domain.BudgetRepository, ordered *OrderedCollection, owners *Ownership, tx domain.TxManager) *BudgetService {
	return &BudgetService{repo: repo, ordered: ordered, owners: owners, tx: tx}
}

func (s *BudgetService) ListBudgets(ctx context.Context, filter domain.ChildFilter) ([]domain.Budget, error) {
	return s.repo.List(ctx, filter)
}

func (s *BudgetService) CreateBudget(ctx context.Context, userID int64, budget *domain.Budget) error {
	budget.Normalize()
	if err := budget.Validate(); err != nil {
		return err
	}
	return s.ordered.Append(ctx, budget.MonthID, userID, func(ctx context.Context, index int) error {
		budget.Index = index
		return s.repo.Insert(ctx, budget)
	})
}

func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id int64, update domain.BudgetUpdate) (*domain.Budget, error) {
	var budget *domain.Budget
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindBudget, id, userID); err != nil {
			return err
		}
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		update.Apply(current)

		target := current.MonthID
		if update.MonthID != nil {
			target = *update.MonthID
		}
		candidate := *current
		candidate.MonthID = target
		if err := candidate.Validate(); err != nil {
			return err
		}

		budget = current
		if target == current.MonthID {
			return s.repo.Update(ctx, budget)
		}
		return s.ordered.Move(ctx, id, userID, target, func(ctx context.Context, index int) error {
			budget.MonthID = target
			budget.Index = index
			return s.repo.Update(ctx, budget)
		})
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id int64) error {
	return s.ordered.Remove(ctx, id, userID)
}

// ReorderBudgets applies the submitted order and returns the month's budgets by index.
func (s *BudgetService) ReorderBudgets(ctx context.Context, userID, monthID int64, ids []int64) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ordered.Reorder(ctx, monthID, userID, ids); err != nil {
			return err
		}
		var err error
		budgets, err = s.repo.ListByMonth(ctx, monthID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}
