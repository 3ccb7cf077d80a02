package application

import (
	"context"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type IncomeService struct {
	repo    domain.IncomeRepository
	ordered *OrderedCollection
	owners  *Ownership
	tx      domain.TxManager
}

func NewIncomeService(repo domain.IncomeRepository, ordered *OrderedCollection, owners *Ownership, tx domain.TxManager) *IncomeService {
	return &IncomeService{repo: repo, ordered: ordered, owners: owners, tx: tx}
}

func (s *IncomeService) ListIncomes(ctx context.Context, filter domain.ChildFilter) ([]domain.Income, error) {
	return s.repo.List(ctx, filter)
}

func (s *IncomeService) CreateIncome(ctx context.Context, userID int64, income *domain.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}
	return s.ordered.Append(ctx, income.MonthID, userID, func(ctx context.Context, index int) error {
		income.Index = index
		return s.repo.Insert(ctx, income)
	})
}

func (s *IncomeService) UpdateIncome(ctx context.Context, userID, id int64, update domain.IncomeUpdate) (*domain.Income, error) {
	var income *domain.Income
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindIncome, id, userID); err != nil {
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

		income = current
		if target == current.MonthID {
			return s.repo.Update(ctx, income)
		}
		return s.ordered.Move(ctx, id, userID, target, func(ctx context.Context, index int) error {
			income.MonthID = target
			income.Index = index
			return s.repo.Update(ctx, income)
		})
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

func (s *IncomeService) DeleteIncome(ctx context.Context, userID, id int64) error {
	return s.ordered.Remove(ctx, id, userID)
}

func (s *IncomeService) ReorderIncomes(ctx context.Context, userID, monthID int64, ids []int64) ([]domain.Income, error) {
	var incomes []domain.Income
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ordered.Reorder(ctx, monthID, userID, ids); err != nil {
			return err
		}
		var err error
		incomes, err = s.repo.ListByMonth(ctx, monthID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return incomes, nil
}
