package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

func TestCopyMonth_CopiesIncomesAndBudgetsOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	y2024 := f.store.AddYear(2024)
	y2025 := f.store.AddYear(2025)
	source := f.store.AddMonth(7, y2024.ID, 3)

	f.addIncome(t, 7, source.ID, "Pay", 100)
	rent := f.addBudget(t, 7, source.ID, "Rent", 200)
	food := f.store.AddCategory("Food", nil)
	require.NoError(t, f.expenses.CreateExpense(ctx, 7, &domain.Expense{
		Description: "Landlord", Value: decimal.NewFromInt(200), BudgetID: rent.ID, CategoryID: food.ID,
	}))

	copied, err := f.months.CopyMonth(ctx, 7, source.ID, domain.CopyMonthInput{YearID: y2025.ID, Value: 4})
	require.NoError(t, err)

	assert.Equal(t, "Copy of March 2024", copied.Description)
	assert.Equal(t, 4, copied.Value)
	assert.Equal(t, y2025.ID, copied.YearID)
	assert.Equal(t, int64(7), copied.UserID)

	got, err := f.months.GetMonth(ctx, 7, copied.ID)
	require.NoError(t, err)
	require.Len(t, got.Incomes, 1)
	require.Len(t, got.Budgets, 1)
	assert.Equal(t, "Pay", got.Incomes[0].Description)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Incomes[0].Value))
	assert.Equal(t, 0, got.Incomes[0].Index)
	assert.Equal(t, "Rent", got.Budgets[0].Description)
	assert.Equal(t, rent.Color, got.Budgets[0].Color)
	assert.NotEqual(t, rent.ID, got.Budgets[0].ID)

	expenses, err := f.expenses.ListExpenses(ctx, domain.ExpenseFilter{UserID: 7, BudgetID: got.Budgets[0].ID, Take: 10})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestCopyMonth_FailureLeavesNoPartialMonth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	source := f.store.AddMonth(7, year.ID, 3)
	f.addIncome(t, 7, source.ID, "Pay", 100)
	f.addBudget(t, 7, source.ID, "Rent", 200)
	before := f.store.CountMonths()

	f.store.FailOn["budgets.Insert"] = errors.New("boom")
	_, err := f.months.CopyMonth(ctx, 7, source.ID, domain.CopyMonthInput{YearID: year.ID, Value: 4})
	require.Error(t, err)

	assert.Equal(t, before, f.store.CountMonths())
	incomes, _ := f.store.Incomes().List(ctx, domain.ChildFilter{UserID: 7})
	assert.Len(t, incomes, 1)
}

func TestCopyMonth_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	source := f.store.AddMonth(7, year.ID, 3)

	_, err := f.months.CopyMonth(ctx, 7, source.ID, domain.CopyMonthInput{YearID: year.ID, Value: 13})
	assert.True(t, financeErrors.IsValidationError(err))

	_, err = f.months.CopyMonth(ctx, 7, source.ID, domain.CopyMonthInput{YearID: 999, Value: 4})
	assert.ErrorIs(t, err, financeErrors.ErrInvalidYear)

	_, err = f.months.CopyMonth(ctx, 8, source.ID, domain.CopyMonthInput{YearID: year.ID, Value: 4})
	assert.True(t, financeErrors.IsNotFound(err))
}

func TestMonth_CrossUserAccessIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)

	_, err := f.months.GetMonth(ctx, 8, month.ID)
	assert.True(t, financeErrors.IsNotFound(err))

	value := 5
	_, err = f.months.UpdateMonth(ctx, 8, month.ID, domain.MonthUpdate{Value: &value})
	assert.True(t, financeErrors.IsNotFound(err))

	assert.True(t, financeErrors.IsNotFound(f.months.DeleteMonth(ctx, 8, month.ID)))
	assert.Equal(t, 1, f.store.CountMonths())
}

func TestCreateMonth_RequiresExistingYear(t *testing.T) {
	f := newFixture()
	err := f.months.CreateMonth(context.Background(), 7, newMonth(3, 42))
	assert.ErrorIs(t, err, financeErrors.ErrInvalidYear)

	err = f.months.CreateMonth(context.Background(), 7, newMonth(0, 42))
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestUpdateMonth_ValidatesMergedState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)

	bad := 13
	_, err := f.months.UpdateMonth(ctx, 7, month.ID, domain.MonthUpdate{Value: &bad})
	assert.True(t, financeErrors.IsValidationError(err))

	note := "Holidays"
	got, err := f.months.UpdateMonth(ctx, 7, month.ID, domain.MonthUpdate{Description: &note})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Value)
	assert.Equal(t, "Holidays", got.Description)
}

func TestDeleteMonth_CascadesChildren(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	year := f.store.AddYear(2024)
	month := f.store.AddMonth(7, year.ID, 3)
	b := f.addBudget(t, 7, month.ID, "Rent", 10)

	require.NoError(t, f.months.DeleteMonth(ctx, 7, month.ID))
	_, ok := f.store.Budget(b.ID)
	assert.False(t, ok)
}
