package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	"github.com/gustavoisensee/MyFinances/internal/finance/infrastructure"
)

const testAdminID int64 = 1

type fixture struct {
	store      *infrastructure.MemoryStore
	budgets    *BudgetService
	incomes    *IncomeService
	expenses   *ExpenseService
	months     *MonthService
	categories *CategoryService
}

func newFixture() *fixture {
	store := infrastructure.NewMemoryStore()
	owners := NewOwnership(store.Ownership())
	return &fixture{
		store: store,
		budgets: NewBudgetService(store.Budgets(),
			NewOrderedCollection(domain.KindBudget, store.BudgetSiblings(), owners, store), owners, store),
		incomes: NewIncomeService(store.Incomes(),
			NewOrderedCollection(domain.KindIncome, store.IncomeSiblings(), owners, store), owners, store),
		expenses:   NewExpenseService(store.Expenses(), owners, store),
		months:     NewMonthService(store.Months(), store.Years(), store.Budgets(), store.Incomes(), owners, store),
		categories: NewCategoryService(store.Categories(), testAdminID),
	}
}

func (f *fixture) addBudget(t *testing.T, userID, monthID int64, description string, value int64) domain.Budget {
	t.Helper()
	b := &domain.Budget{Description: description, Value: decimal.NewFromInt(value), MonthID: monthID}
	require.NoError(t, f.budgets.CreateBudget(context.Background(), userID, b))
	return *b
}

func (f *fixture) addIncome(t *testing.T, userID, monthID int64, description string, value int64) domain.Income {
	t.Helper()
	i := &domain.Income{Description: description, Value: decimal.NewFromInt(value), MonthID: monthID}
	require.NoError(t, f.incomes.CreateIncome(context.Background(), userID, i))
	return *i
}

func budgetIndexes(t *testing.T, f *fixture, monthID int64) ([]int64, []int) {
	t.Helper()
	list, err := f.store.Budgets().ListByMonth(context.Background(), monthID)
	require.NoError(t, err)
	ids := make([]int64, len(list))
	idx := make([]int, len(list))
	for i, b := range list {
		ids[i] = b.ID
		idx[i] = b.Index
	}
	return ids, idx
}

func dense(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func budgetInput(monthID int64) *domain.Budget {
	return &domain.Budget{Description: "Groceries", Value: decimal.NewFromInt(50), MonthID: monthID}
}

func budgetMove(monthID int64) domain.BudgetUpdate {
	return domain.BudgetUpdate{MonthID: &monthID}
}

func newMonth(value int, yearID int64) *domain.Month {
	return &domain.Month{Value: value, YearID: yearID, Description: "Month"}
}
