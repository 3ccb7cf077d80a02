package interfaces

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoisensee/MyFinances/internal/auth"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

func asUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	return body
}

func TestGetBudgets(t *testing.T) {
	mockService := &MockBudgetService{
		budgets: []domain.Budget{
			{ID: 1, Description: "Rent", Value: decimal.NewFromInt(900), Index: 0, MonthID: 3},
			{ID: 2, Description: "Food", Value: decimal.NewFromInt(300), Index: 1, MonthID: 3},
		},
	}
	handler := NewBudgetHandler(mockService, RespondJSON, RespondError)

	req := asUser(httptest.NewRequest(http.MethodGet, "/budget?monthId=3&take=5", nil), 7)
	w := httptest.NewRecorder()
	handler.GetBudgets(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)
	assert.Equal(t, domain.ChildFilter{UserID: 7, MonthID: 3, Take: 5}, mockService.filter)
}

func TestGetBudgets_TakeDefaults(t *testing.T) {
	for _, query := range []string{"", "?take=", "?take=abc", "?take=0", "?take=-1"} {
		mockService := &MockBudgetService{}
		handler := NewBudgetHandler(mockService, RespondJSON, RespondError)

		w := httptest.NewRecorder()
		handler.GetBudgets(w, asUser(httptest.NewRequest(http.MethodGet, "/budget"+query, nil), 7))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 10, mockService.filter.Take, "query %q", query)
	}
}

func TestGetBudgets_InvalidMonthFilter(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetBudgets(w, asUser(httptest.NewRequest(http.MethodGet, "/budget?monthId=x", nil), 7))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBudgets_StoreErrorDegradesToEmptyList(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{shouldFail: true}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetBudgets(w, asUser(httptest.NewRequest(http.MethodGet, "/budget", nil), 7))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])
}

func TestGetBudgets_Unauthorized(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetBudgets(w, httptest.NewRequest(http.MethodGet, "/budget", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBudget_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"negative value", `{"description":"Rent","value":-5,"monthId":1}`, http.StatusBadRequest, "Value must be a number greater than zero"},
		{"zero value", `{"description":"Rent","value":"0","monthId":1}`, http.StatusBadRequest, "Value must be a number greater than zero"},
		{"non numeric value", `{"description":"Rent","value":"abc","monthId":1}`, http.StatusBadRequest, "Invalid request body"},
		{"short description", `{"description":"ab","value":5,"monthId":1}`, http.StatusBadRequest, "Description must be at least 3 characters long"},
		{"bad color", `{"description":"Rent","value":5,"color":"red","monthId":1}`, http.StatusBadRequest, "Color must be a hex value like #6366F1"},
		{"ok", `{"description":"Rent","value":5,"color":"#112233","monthId":1}`, http.StatusCreated, "Budget successfully created."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBudgetHandler(&MockBudgetService{}, RespondJSON, RespondError)
			w := httptest.NewRecorder()
			handler.CreateBudget(w, asUser(httptest.NewRequest(http.MethodPost, "/budget", strings.NewReader(tt.body)), 7))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestBudgetHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("budget 3: %w", financeErrors.ErrNotFound), http.StatusNotFound},
		{"mismatch", financeErrors.ErrReorderMismatch, http.StatusBadRequest},
		{"conflict", financeErrors.ErrCategoryInUse, http.StatusConflict},
		{"forbidden", financeErrors.ErrDefaultCategory, http.StatusForbidden},
		{"unexpected", errService, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBudgetHandler(&MockBudgetService{err: tt.err}, RespondJSON, RespondError)
			req := asUser(httptest.NewRequest(http.MethodDelete, "/budget/3", nil), 7)
			req.SetPathValue("id", "3")
			w := httptest.NewRecorder()
			handler.DeleteBudget(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDeleteBudget_NotFoundMessageIsUniform(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{err: fmt.Errorf("budget 3: %w", financeErrors.ErrNotFound)}, RespondJSON, RespondError)
	req := asUser(httptest.NewRequest(http.MethodDelete, "/budget/3", nil), 7)
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()
	handler.DeleteBudget(w, req)

	assert.Equal(t, "Resource not found", decode(t, w)["message"])
}

func TestUpdateBudget_InvalidID(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{}, RespondJSON, RespondError)
	req := asUser(httptest.NewRequest(http.MethodPut, "/budget/abc", strings.NewReader(`{}`)), 7)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	handler.UpdateBudget(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderBudgets(t *testing.T) {
	mockService := &MockBudgetService{}
	handler := NewBudgetHandler(mockService, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.ReorderBudgets(w, asUser(httptest.NewRequest(http.MethodPut, "/budget/reorder", strings.NewReader(`{"monthId":4,"ids":[3,1,2]}`)), 7))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3, 1, 2}, mockService.reordered)

	w = httptest.NewRecorder()
	handler.ReorderBudgets(w, asUser(httptest.NewRequest(http.MethodPut, "/budget/reorder", strings.NewReader(`{"ids":[1]}`)), 7))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderBudgets_MismatchMessage(t *testing.T) {
	handler := NewBudgetHandler(&MockBudgetService{err: financeErrors.ErrReorderMismatch}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.ReorderBudgets(w, asUser(httptest.NewRequest(http.MethodPut, "/budget/reorder", strings.NewReader(`{"monthId":4,"ids":[]}`)), 7))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, financeErrors.ErrReorderMismatch.Error(), decode(t, w)["message"])
}

func TestGetCategories_Anonymous(t *testing.T) {
	owner := int64(7)
	mockService := &MockCategoryService{
		categories: []domain.Category{
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Hobbies", UserID: &owner},
		},
	}
	handler := NewCategoryHandler(mockService, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/category", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
	assert.Zero(t, mockService.listedFor)

	w = httptest.NewRecorder()
	handler.GetCategories(w, asUser(httptest.NewRequest(http.MethodGet, "/category", nil), owner))
	assert.Len(t, decode(t, w)["data"], 2)
	assert.Equal(t, owner, mockService.listedFor)
}

func TestGetCategories_ErrorFromService(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{shouldFail: true}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/category", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])
}

func TestCreateCategory_DefaultByNonAdmin(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{err: financeErrors.ErrDefaultCategory}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.CreateCategory(w, asUser(httptest.NewRequest(http.MethodPost, "/category", strings.NewReader(`{"name":"Food","isDefault":true}`)), 7))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteCategory_InUse(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryService{err: financeErrors.ErrCategoryInUse}, RespondJSON, RespondError)
	req := asUser(httptest.NewRequest(http.MethodDelete, "/category/2", nil), 7)
	req.SetPathValue("id", "2")

	w := httptest.NewRecorder()
	handler.DeleteCategory(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, financeErrors.ErrCategoryInUse.Error(), decode(t, w)["message"])
}

func TestGetMonths_YearFilter(t *testing.T) {
	mockService := &MockMonthService{}
	handler := NewMonthHandler(mockService, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetMonths(w, asUser(httptest.NewRequest(http.MethodGet, "/month?yearId=2", nil), 7))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.MonthFilter{UserID: 7, YearID: 2, Take: 10}, mockService.filter)
}

func TestCreateMonth_InvalidValue(t *testing.T) {
	handler := NewMonthHandler(&MockMonthService{}, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.CreateMonth(w, asUser(httptest.NewRequest(http.MethodPost, "/month", strings.NewReader(`{"value":13,"yearId":1}`)), 7))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Month must be between 1 and 12", decode(t, w)["message"])
}

func TestCopyMonth(t *testing.T) {
	mockService := &MockMonthService{}
	handler := NewMonthHandler(mockService, RespondJSON, RespondError)
	req := asUser(httptest.NewRequest(http.MethodPost, "/month/5/copy", strings.NewReader(`{"yearId":2,"value":4}`)), 7)
	req.SetPathValue("id", "5")

	w := httptest.NewRecorder()
	handler.CopyMonth(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.CopyMonthInput{YearID: 2, Value: 4}, mockService.copied)
}

func TestGetMonth_NotFound(t *testing.T) {
	handler := NewMonthHandler(&MockMonthService{err: financeErrors.ErrNotFound}, RespondJSON, RespondError)
	req := asUser(httptest.NewRequest(http.MethodGet, "/month/5", nil), 7)
	req.SetPathValue("id", "5")

	w := httptest.NewRecorder()
	handler.GetMonth(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestYearHandler(t *testing.T) {
	mockService := &MockYearService{years: []domain.Year{{ID: 1, Value: 2024}}}
	handler := NewYearHandler(mockService, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetYears(w, httptest.NewRequest(http.MethodGet, "/year?take=3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockService.take)

	w = httptest.NewRecorder()
	handler.CreateYear(w, httptest.NewRequest(http.MethodPost, "/year", strings.NewReader(`{"value":2024}`)))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	handler.CreateYear(w, httptest.NewRequest(http.MethodPost, "/year", strings.NewReader(`{"value":12}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.CreateYear(w, httptest.NewRequest(http.MethodPost, "/year", strings.NewReader(`{"value":2025}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRespondError_WithList(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, http.StatusBadRequest, "Validation errors occurred", []string{"a", "b"})

	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, float64(http.StatusBadRequest), body["code"])
	assert.Equal(t, []interface{}{"a", "b"}, body["errors"])
}
