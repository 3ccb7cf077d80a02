package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

// MemoryStore is an in-memory stand-in for the Postgres repositories used by
// service and handler tests. Transactions snapshot the whole store and restore
// it on error, and the (month, index) uniqueness is checked at commit like the
// deferred constraint in the schema.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID     int64
	years      map[int64]domain.Year
	months     map[int64]domain.Month
	budgets    map[int64]domain.Budget
	incomes    map[int64]domain.Income
	expenses   map[int64]domain.Expense
	categories map[int64]domain.Category
	tokens     []domain.AccessToken

	// FailOn makes the named operation (for example "budgets.SetIndex") return the error.
	FailOn map[string]error
}

type memTxKey struct{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		years:      map[int64]domain.Year{},
		months:     map[int64]domain.Month{},
		budgets:    map[int64]domain.Budget{},
		incomes:    map[int64]domain.Income{},
		expenses:   map[int64]domain.Expense{},
		categories: map[int64]domain.Category{},
		FailOn:     map[string]error{},
	}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, memTxKey{}, true))
	if err == nil {
		err = s.checkDenseConstraints()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	nextID     int64
	years      map[int64]domain.Year
	months     map[int64]domain.Month
	budgets    map[int64]domain.Budget
	incomes    map[int64]domain.Income
	expenses   map[int64]domain.Expense
	categories map[int64]domain.Category
	tokens     []domain.AccessToken
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		nextID:     s.nextID,
		years:      copyMap(s.years),
		months:     copyMap(s.months),
		budgets:    copyMap(s.budgets),
		incomes:    copyMap(s.incomes),
		expenses:   copyMap(s.expenses),
		categories: copyMap(s.categories),
		tokens:     append([]domain.AccessToken(nil), s.tokens...),
	}
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.years = snap.years
	s.months = snap.months
	s.budgets = snap.budgets
	s.incomes = snap.incomes
	s.expenses = snap.expenses
	s.categories = snap.categories
	s.tokens = snap.tokens
}

func (s *MemoryStore) checkDenseConstraints() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	for _, b := range s.budgets {
		key := fmt.Sprintf("b/%d/%d", b.MonthID, b.Index)
		if seen[key] {
			return fmt.Errorf("duplicate budget index %d in month %d", b.Index, b.MonthID)
		}
		seen[key] = true
	}
	for _, i := range s.incomes {
		key := fmt.Sprintf("i/%d/%d", i.MonthID, i.Index)
		if seen[key] {
			return fmt.Errorf("duplicate income index %d in month %d", i.Index, i.MonthID)
		}
		seen[key] = true
	}
	return nil
}

func (s *MemoryStore) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, financeErrors.ErrNotFound)
}

func limit[T any](items []T, take int) []T {
	if take > 0 && len(items) > take {
		return items[:take]
	}
	return items
}

// Seeding helpers for tests.

func (s *MemoryStore) AddYear(value int) domain.Year {
	s.mu.Lock()
	defer s.mu.Unlock()
	y := domain.Year{ID: s.id(), Value: value}
	s.years[y.ID] = y
	return y
}

func (s *MemoryStore) AddMonth(userID, yearID int64, value int) domain.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := domain.Month{ID: s.id(), UserID: userID, YearID: yearID, Value: value, CreatedAt: time.Now()}
	s.months[m.ID] = m
	return m
}

func (s *MemoryStore) AddCategory(name string, userID *int64) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: s.id(), Name: name, UserID: userID}
	s.categories[c.ID] = c
	return c
}

func (s *MemoryStore) Budget(id int64) (domain.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	return b, ok
}

func (s *MemoryStore) Income(id int64) (domain.Income, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.incomes[id]
	return i, ok
}

func (s *MemoryStore) CountMonths() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.months)
}

// Repository views.

func (s *MemoryStore) Years() domain.YearRepository               { return memYears{s} }
func (s *MemoryStore) Months() domain.MonthRepository             { return memMonths{s} }
func (s *MemoryStore) Budgets() domain.BudgetRepository           { return memBudgets{s} }
func (s *MemoryStore) Incomes() domain.IncomeRepository           { return memIncomes{s} }
func (s *MemoryStore) Expenses() domain.ExpenseRepository         { return memExpenses{s} }
func (s *MemoryStore) Categories() domain.CategoryRepository      { return memCategories{s} }
func (s *MemoryStore) AccessTokens() domain.AccessTokenRepository { return memTokens{s} }
func (s *MemoryStore) Ownership() domain.OwnershipRepository      { return memOwnership{s} }
func (s *MemoryStore) BudgetSiblings() domain.SiblingStore        { return memSiblings{s, "budgets"} }
func (s *MemoryStore) IncomeSiblings() domain.SiblingStore        { return memSiblings{s, "incomes"} }

type memYears struct{ s *MemoryStore }

func (r memYears) List(_ context.Context, take int) ([]domain.Year, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Year, 0, len(r.s.years))
	for _, y := range r.s.years {
		out = append(out, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return limit(out, take), nil
}

func (r memYears) GetByID(_ context.Context, id int64) (*domain.Year, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	y, ok := r.s.years[id]
	if !ok {
		return nil, notFound("year", id)
	}
	return &y, nil
}

func (r memYears) Create(_ context.Context, year *domain.Year) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, y := range r.s.years {
		if y.Value == year.Value {
			return fmt.Errorf("year %d: %w", year.Value, financeErrors.ErrConflict)
		}
	}
	year.ID = r.s.id()
	r.s.years[year.ID] = *year
	return nil
}

type memMonths struct{ s *MemoryStore }

func (r memMonths) List(_ context.Context, f domain.MonthFilter) ([]domain.Month, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Month
	for _, m := range r.s.months {
		if m.UserID == f.UserID && (f.YearID == 0 || m.YearID == f.YearID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return limit(out, f.Take), nil
}

func (r memMonths) GetByID(_ context.Context, id int64) (*domain.Month, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.months[id]
	if !ok {
		return nil, notFound("month", id)
	}
	return &m, nil
}

func (r memMonths) Create(_ context.Context, month *domain.Month) error {
	if err := r.s.fail("months.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	month.ID = r.s.id()
	month.CreatedAt = time.Now()
	stored := *month
	stored.Budgets, stored.Incomes = nil, nil
	r.s.months[month.ID] = stored
	return nil
}

func (r memMonths) Update(_ context.Context, month *domain.Month) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.months[month.ID]; !ok {
		return notFound("month", month.ID)
	}
	r.s.months[month.ID] = *month
	return nil
}

func (r memMonths) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.months[id]; !ok {
		return notFound("month", id)
	}
	delete(r.s.months, id)
	for bid, b := range r.s.budgets {
		if b.MonthID == id {
			r.s.deleteBudgetLocked(bid)
		}
	}
	for iid, i := range r.s.incomes {
		if i.MonthID == id {
			delete(r.s.incomes, iid)
		}
	}
	return nil
}

func (s *MemoryStore) deleteBudgetLocked(id int64) {
	delete(s.budgets, id)
	for eid, e := range s.expenses {
		if e.BudgetID == id {
			delete(s.expenses, eid)
		}
	}
}

func (s *MemoryStore) monthOwnerLocked(monthID int64) int64 {
	return s.months[monthID].UserID
}

type memBudgets struct{ s *MemoryStore }

func (r memBudgets) List(_ context.Context, f domain.ChildFilter) ([]domain.Budget, error) {
	if err := r.s.fail("budgets.List"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Budget
	for _, b := range r.s.budgets {
		if r.s.monthOwnerLocked(b.MonthID) == f.UserID && (f.MonthID == 0 || b.MonthID == f.MonthID) {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return limit(out, f.Take), nil
}

func (r memBudgets) ListByMonth(_ context.Context, monthID int64) ([]domain.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Budget
	for _, b := range r.s.budgets {
		if b.MonthID == monthID {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return out, nil
}

func sortBudgets(out []domain.Budget) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthID != out[j].MonthID {
			return out[i].MonthID < out[j].MonthID
		}
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ID < out[j].ID
	})
}

func (r memBudgets) GetByID(_ context.Context, id int64) (*domain.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok {
		return nil, notFound("budget", id)
	}
	return &b, nil
}

func (r memBudgets) Insert(_ context.Context, b *domain.Budget) error {
	if err := r.s.fail("budgets.Insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id()
	r.s.budgets[b.ID] = *b
	return nil
}

func (r memBudgets) Update(_ context.Context, b *domain.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.budgets[b.ID]; !ok {
		return notFound("budget", b.ID)
	}
	r.s.budgets[b.ID] = *b
	return nil
}

type memIncomes struct{ s *MemoryStore }

func (r memIncomes) List(_ context.Context, f domain.ChildFilter) ([]domain.Income, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Income
	for _, i := range r.s.incomes {
		if r.s.monthOwnerLocked(i.MonthID) == f.UserID && (f.MonthID == 0 || i.MonthID == f.MonthID) {
			out = append(out, i)
		}
	}
	sortIncomes(out)
	return limit(out, f.Take), nil
}

func (r memIncomes) ListByMonth(_ context.Context, monthID int64) ([]domain.Income, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Income
	for _, i := range r.s.incomes {
		if i.MonthID == monthID {
			out = append(out, i)
		}
	}
	sortIncomes(out)
	return out, nil
}

func sortIncomes(out []domain.Income) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthID != out[j].MonthID {
			return out[i].MonthID < out[j].MonthID
		}
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ID < out[j].ID
	})
}

func (r memIncomes) GetByID(_ context.Context, id int64) (*domain.Income, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incomes[id]
	if !ok {
		return nil, notFound("income", id)
	}
	return &i, nil
}

func (r memIncomes) Insert(_ context.Context, i *domain.Income) error {
	if err := r.s.fail("incomes.Insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i.ID = r.s.id()
	r.s.incomes[i.ID] = *i
	return nil
}

func (r memIncomes) Update(_ context.Context, i *domain.Income) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.incomes[i.ID]; !ok {
		return notFound("income", i.ID)
	}
	r.s.incomes[i.ID] = *i
	return nil
}

type memExpenses struct{ s *MemoryStore }

func (r memExpenses) List(_ context.Context, f domain.ExpenseFilter) ([]domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Expense
	for _, e := range r.s.expenses {
		owner := r.s.monthOwnerLocked(r.s.budgets[e.BudgetID].MonthID)
		if owner == f.UserID && (f.BudgetID == 0 || e.BudgetID == f.BudgetID) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return limit(out, f.Take), nil
}

func (r memExpenses) GetByID(_ context.Context, id int64) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, notFound("expense", id)
	}
	return &e, nil
}

func (r memExpenses) Create(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.expenses[e.ID] = *e
	return nil
}

func (r memExpenses) Update(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[e.ID]; !ok {
		return notFound("expense", e.ID)
	}
	r.s.expenses[e.ID] = *e
	return nil
}

func (r memExpenses) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return notFound("expense", id)
	}
	delete(r.s.expenses, id)
	return nil
}

type memCategories struct{ s *MemoryStore }

func (r memCategories) List(_ context.Context, userID int64, take int) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Category
	for _, c := range r.s.categories {
		if c.UserID == nil || (userID != 0 && *c.UserID == userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return limit(out, take), nil
}

func (r memCategories) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func ownerKey(userID *int64) int64 {
	if userID == nil {
		return 0
	}
	return *userID
}

func (r memCategories) nameTakenLocked(c *domain.Category) bool {
	for _, other := range r.s.categories {
		if other.ID != c.ID && ownerKey(other.UserID) == ownerKey(c.UserID) && strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r memCategories) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTakenLocked(c) {
		return financeErrors.ErrCategoryNameTaken
	}
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r memCategories) Update(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return notFound("category", c.ID)
	}
	if r.nameTakenLocked(c) {
		return financeErrors.ErrCategoryNameTaken
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return notFound("category", id)
	}
	for _, e := range r.s.expenses {
		if e.CategoryID == id {
			return financeErrors.ErrCategoryInUse
		}
	}
	delete(r.s.categories, id)
	return nil
}

type memTokens struct{ s *MemoryStore }

func (r memTokens) List(_ context.Context, take int) ([]domain.AccessToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return limit(append([]domain.AccessToken(nil), r.s.tokens...), take), nil
}

func (r memTokens) Record(_ context.Context, t *domain.AccessToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	t.CreatedAt = time.Now()
	r.s.tokens = append(r.s.tokens, *t)
	return nil
}

type memOwnership struct{ s *MemoryStore }

func (r memOwnership) OwnerOf(_ context.Context, kind domain.ResourceKind, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	switch kind {
	case domain.KindMonth:
		if m, ok := r.s.months[id]; ok {
			return m.UserID, nil
		}
	case domain.KindBudget:
		if b, ok := r.s.budgets[id]; ok {
			return r.s.monthOwnerLocked(b.MonthID), nil
		}
	case domain.KindIncome:
		if i, ok := r.s.incomes[id]; ok {
			return r.s.monthOwnerLocked(i.MonthID), nil
		}
	case domain.KindExpense:
		if e, ok := r.s.expenses[id]; ok {
			return r.s.monthOwnerLocked(r.s.budgets[e.BudgetID].MonthID), nil
		}
	case domain.KindCategory:
		if c, ok := r.s.categories[id]; ok {
			return ownerKey(c.UserID), nil
		}
	default:
		return 0, fmt.Errorf("unknown resource kind %q", kind)
	}
	return 0, notFound(string(kind), id)
}

type memSiblings struct {
	s     *MemoryStore
	table string
}

func (r memSiblings) LockParent(_ context.Context, monthID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.months[monthID]; !ok {
		return notFound("month", monthID)
	}
	return nil
}

func (r memSiblings) rowsLocked() map[int64]domain.Sibling {
	out := map[int64]domain.Sibling{}
	if r.table == "budgets" {
		for id, b := range r.s.budgets {
			out[id] = domain.Sibling{ID: id, Index: b.Index}
		}
		return out
	}
	for id, i := range r.s.incomes {
		out[id] = domain.Sibling{ID: id, Index: i.Index}
	}
	return out
}

func (r memSiblings) parentLocked(id int64) (int64, bool) {
	if r.table == "budgets" {
		b, ok := r.s.budgets[id]
		return b.MonthID, ok
	}
	i, ok := r.s.incomes[id]
	return i.MonthID, ok
}

func (r memSiblings) ParentOf(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	monthID, ok := r.parentLocked(id)
	if !ok {
		return 0, notFound(r.table, id)
	}
	return monthID, nil
}

func (r memSiblings) NextIndex(ctx context.Context, monthID int64) (int, error) {
	siblings, err := r.Siblings(ctx, monthID)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, s := range siblings {
		if s.Index+1 > next {
			next = s.Index + 1
		}
	}
	return next, nil
}

func (r memSiblings) Siblings(_ context.Context, monthID int64) ([]domain.Sibling, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Sibling
	for id, sib := range r.rowsLocked() {
		if parent, _ := r.parentLocked(id); parent == monthID {
			out = append(out, sib)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memSiblings) SetIndex(_ context.Context, id int64, index int) error {
	if err := r.s.fail(r.table + ".SetIndex"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.table == "budgets" {
		b, ok := r.s.budgets[id]
		if !ok {
			return notFound(r.table, id)
		}
		b.Index = index
		r.s.budgets[id] = b
		return nil
	}
	i, ok := r.s.incomes[id]
	if !ok {
		return notFound(r.table, id)
	}
	i.Index = index
	r.s.incomes[id] = i
	return nil
}

func (r memSiblings) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.table == "budgets" {
		if _, ok := r.s.budgets[id]; !ok {
			return notFound(r.table, id)
		}
		r.s.deleteBudgetLocked(id)
		return nil
	}
	if _, ok := r.s.incomes[id]; !ok {
		return notFound(r.table, id)
	}
	delete(r.s.incomes, id)
	return nil
}
