package application

import (
	"context"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type ExpenseService struct {
	repo   domain.ExpenseRepository
	owners *Ownership
	tx     domain.TxManager
}

func NewExpenseService(repo domain.ExpenseRepository, owners *Ownership, tx domain.TxManager) *ExpenseService {
	return &ExpenseService{repo: repo, owners: owners, tx: tx}
}

func (s *ExpenseService) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	return s.repo.List(ctx, filter)
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID int64, expense *domain.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, userID, expense); err != nil {
			return err
		}
		return s.repo.Create(ctx, expense)
	})
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id int64, update domain.ExpenseUpdate) (*domain.Expense, error) {
	var expense *domain.Expense
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindExpense, id, userID); err != nil {
			return err
		}
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		update.Apply(current)
		if err := current.Validate(); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, userID, current); err != nil {
			return err
		}
		expense = current
		return s.repo.Update(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.owners.Require(ctx, domain.KindExpense, id, userID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *ExpenseService) checkReferences(ctx context.Context, userID int64, expense *domain.Expense) error {
	if err := s.owners.Require(ctx, domain.KindBudget, expense.BudgetID, userID); err != nil {
		return err
	}
	return s.owners.RequireVisibleCategory(ctx, expense.CategoryID, userID)
}
