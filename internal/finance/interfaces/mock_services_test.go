package interfaces

import (
	"context"
	"errors"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

var errService = errors.New("service error")

type MockBudgetService struct {
	budgets    []domain.Budget
	err        error
	shouldFail bool
	filter     domain.ChildFilter
	reordered  []int64
}

func (m *MockBudgetService) fail() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errService
	}
	return nil
}

func (m *MockBudgetService) ListBudgets(_ context.Context, filter domain.ChildFilter) ([]domain.Budget, error) {
	m.filter = filter
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.budgets, nil
}

func (m *MockBudgetService) CreateBudget(_ context.Context, _ int64, budget *domain.Budget) error {
	if err := m.fail(); err != nil {
		return err
	}
	if err := budget.Validate(); err != nil {
		return err
	}
	budget.ID = 1
	return nil
}

func (m *MockBudgetService) UpdateBudget(_ context.Context, _ int64, id int64, update domain.BudgetUpdate) (*domain.Budget, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	b := &domain.Budget{ID: id}
	update.Apply(b)
	return b, nil
}

func (m *MockBudgetService) DeleteBudget(context.Context, int64, int64) error {
	return m.fail()
}

func (m *MockBudgetService) ReorderBudgets(_ context.Context, _ int64, _ int64, ids []int64) ([]domain.Budget, error) {
	m.reordered = ids
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.budgets, nil
}

type MockCategoryService struct {
	categories []domain.Category
	err        error
	shouldFail bool
	listedFor  int64
}

func (m *MockCategoryService) fail() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errService
	}
	return nil
}

func (m *MockCategoryService) ListCategories(_ context.Context, userID int64, _ int) ([]domain.Category, error) {
	m.listedFor = userID
	if err := m.fail(); err != nil {
		return nil, err
	}
	if userID == 0 {
		var defaults []domain.Category
		for _, c := range m.categories {
			if c.IsDefault() {
				defaults = append(defaults, c)
			}
		}
		return defaults, nil
	}
	return m.categories, nil
}

func (m *MockCategoryService) CreateCategory(_ context.Context, _ int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return &domain.Category{ID: 9, Name: in.Name}, nil
}

func (m *MockCategoryService) UpdateCategory(_ context.Context, _ int64, id int64, update domain.CategoryUpdate) (*domain.Category, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return &domain.Category{ID: id, Name: *update.Name}, nil
}

func (m *MockCategoryService) DeleteCategory(context.Context, int64, int64) error {
	return m.fail()
}

type MockMonthService struct {
	shouldFail bool
	err        error
	filter     domain.MonthFilter
	copied     domain.CopyMonthInput
}

func (m *MockMonthService) fail() error {
	if m.err != nil {
		return m.err
	}
	if m.shouldFail {
		return errService
	}
	return nil
}

func (m *MockMonthService) ListMonths(_ context.Context, filter domain.MonthFilter) ([]domain.Month, error) {
	m.filter = filter
	return nil, m.fail()
}

func (m *MockMonthService) GetMonth(_ context.Context, userID, id int64) (*domain.Month, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return &domain.Month{ID: id, UserID: userID}, nil
}

func (m *MockMonthService) CreateMonth(_ context.Context, userID int64, month *domain.Month) error {
	if err := m.fail(); err != nil {
		return err
	}
	month.UserID = userID
	return month.Validate()
}

func (m *MockMonthService) UpdateMonth(_ context.Context, _ int64, id int64, update domain.MonthUpdate) (*domain.Month, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	month := &domain.Month{ID: id}
	update.Apply(month)
	return month, nil
}

func (m *MockMonthService) DeleteMonth(context.Context, int64, int64) error {
	return m.fail()
}

func (m *MockMonthService) CopyMonth(_ context.Context, _ int64, _ int64, in domain.CopyMonthInput) (*domain.Month, error) {
	m.copied = in
	if err := m.fail(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &domain.Month{ID: 2, Value: in.Value, YearID: in.YearID}, nil
}

type MockYearService struct {
	years      []domain.Year
	shouldFail bool
	take       int
}

func (m *MockYearService) ListYears(_ context.Context, take int) ([]domain.Year, error) {
	m.take = take
	if m.shouldFail {
		return nil, errService
	}
	return m.years, nil
}

func (m *MockYearService) CreateYear(_ context.Context, year *domain.Year) error {
	if m.shouldFail {
		return errService
	}
	for _, y := range m.years {
		if y.Value == year.Value {
			return financeErrors.ErrConflict
		}
	}
	return year.Validate()
}
