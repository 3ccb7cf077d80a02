package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

func TestExpense_ReferencesMustBeReachable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	mine := f.store.AddMonth(7, year.ID, 3)
	theirs := f.store.AddMonth(8, year.ID, 3)
	myBudget := f.addBudget(t, 7, mine.ID, "Rent", 100)
	theirBudget := f.addBudget(t, 8, theirs.ID, "Rent", 100)
	def := f.store.AddCategory("Housing", nil)
	other := int64(8)
	theirCategory := f.store.AddCategory("Secret", &other)

	newExpense := func(budgetID, categoryID int64) *domain.Expense {
		return &domain.Expense{Description: "Landlord", Value: decimal.NewFromInt(10), BudgetID: budgetID, CategoryID: categoryID}
	}

	assert.True(t, financeErrors.IsNotFound(f.expenses.CreateExpense(ctx, 7, newExpense(theirBudget.ID, def.ID))))
	assert.ErrorIs(t, f.expenses.CreateExpense(ctx, 7, newExpense(myBudget.ID, theirCategory.ID)), financeErrors.ErrInvalidCategory)
	assert.ErrorIs(t, f.expenses.CreateExpense(ctx, 7, newExpense(myBudget.ID, 999)), financeErrors.ErrInvalidCategory)

	e := newExpense(myBudget.ID, def.ID)
	require.NoError(t, f.expenses.CreateExpense(ctx, 7, e))

	// re-parenting into another user's budget is rejected
	target := theirBudget.ID
	_, err := f.expenses.UpdateExpense(ctx, 7, e.ID, domain.ExpenseUpdate{BudgetID: &target})
	assert.True(t, financeErrors.IsNotFound(err))
	got, err := f.store.Expenses().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, myBudget.ID, got.BudgetID)
}

func TestExpense_CrossUserAccessIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)
	budget := f.addBudget(t, 7, month.ID, "Rent", 100)
	def := f.store.AddCategory("Housing", nil)
	e := &domain.Expense{Description: "Landlord", Value: decimal.NewFromInt(10), BudgetID: budget.ID, CategoryID: def.ID}
	require.NoError(t, f.expenses.CreateExpense(ctx, 7, e))

	desc := "Hijacked"
	_, err := f.expenses.UpdateExpense(ctx, 8, e.ID, domain.ExpenseUpdate{Description: &desc})
	assert.True(t, financeErrors.IsNotFound(err))
	assert.True(t, financeErrors.IsNotFound(f.expenses.DeleteExpense(ctx, 8, e.ID)))

	list, err := f.expenses.ListExpenses(ctx, domain.ExpenseFilter{UserID: 8, Take: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExpense_ValidationBeforeStore(t *testing.T) {
	f := newFixture()
	err := f.expenses.CreateExpense(context.Background(), 7, &domain.Expense{Description: "ab", Value: decimal.NewFromInt(1), BudgetID: 1, CategoryID: 1})
	assert.True(t, financeErrors.IsValidationError(err))

	err = f.expenses.CreateExpense(context.Background(), 7, &domain.Expense{Description: "abc", Value: decimal.Zero, BudgetID: 1, CategoryID: 1})
	assert.EqualError(t, err, "Value must be a number greater than zero")
}

func TestBudgetUpdate_CrossUserIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)
	b := f.addBudget(t, 7, month.ID, "Rent", 100)
	i := f.addIncome(t, 7, month.ID, "Salary", 100)

	desc := "Stolen"
	_, err := f.budgets.UpdateBudget(ctx, 8, b.ID, domain.BudgetUpdate{Description: &desc})
	assert.True(t, financeErrors.IsNotFound(err))
	_, err = f.incomes.UpdateIncome(ctx, 8, i.ID, domain.IncomeUpdate{Description: &desc})
	assert.True(t, financeErrors.IsNotFound(err))
	assert.True(t, financeErrors.IsNotFound(f.incomes.DeleteIncome(ctx, 8, i.ID)))

	budgets, err := f.budgets.ListBudgets(ctx, domain.ChildFilter{UserID: 8, Take: 10})
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestBudgetUpdate_RejectsInvalidMergedValues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)
	b := f.addBudget(t, 7, month.ID, "Rent", 100)

	color := "blue"
	_, err := f.budgets.UpdateBudget(ctx, 7, b.ID, domain.BudgetUpdate{Color: &color})
	assert.True(t, financeErrors.IsValidationError(err))

	got, _ := f.store.Budget(b.ID)
	assert.Equal(t, domain.DefaultBudgetColor, got.Color)
}
