package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type ExpenseServiceInterface interface {
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, userID int64, expense *domain.Expense) error
	UpdateExpense(ctx context.Context, userID, id int64, update domain.ExpenseUpdate) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

type ExpenseHandler struct {
	responder
	service ExpenseServiceInterface
}

func NewExpenseHandler(service ExpenseServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *ExpenseHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &ExpenseHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *ExpenseHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	budgetID, ok := parseQueryID(r, "budgetId")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid budgetId")
		return
	}

	expenses, err := h.service.ListExpenses(r.Context(), domain.ExpenseFilter{UserID: userID, BudgetID: budgetID, Take: parseTake(r)})
	listed(h.responder, w, r, expenses, err, "expenses")
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var expense domain.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	expense.ID = 0

	if err := h.service.CreateExpense(r.Context(), userID, &expense); err != nil {
		h.serviceError(w, r, err, "Failed to create expense")
		return
	}
	h.success(w, http.StatusCreated, "Expense successfully created.", expense)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}
	var update domain.ExpenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), userID, id, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update expense")
		return
	}
	h.success(w, http.StatusOK, "Expense successfully updated.", expense)
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), userID, id); err != nil {
		h.serviceError(w, r, err, "Failed to delete expense")
		return
	}
	h.success(w, http.StatusOK, "Expense successfully deleted.", nil)
}
