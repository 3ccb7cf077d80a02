package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type BudgetServiceInterface interface {
	ListBudgets(ctx context.Context, filter domain.ChildFilter) ([]domain.Budget, error)
	CreateBudget(ctx context.Context, userID int64, budget *domain.Budget) error
	UpdateBudget(ctx context.Context, userID, id int64, update domain.BudgetUpdate) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error
	ReorderBudgets(ctx context.Context, userID, monthID int64, ids []int64) ([]domain.Budget, error)
}

type reorderRequest struct {
	MonthID int64   `json:"monthId"`
	IDs     []int64 `json:"ids"`
}

type BudgetHandler struct {
	responder
	service BudgetServiceInterface
}

func NewBudgetHandler(service BudgetServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *BudgetHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &BudgetHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	monthID, ok := parseQueryID(r, "monthId")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid monthId")
		return
	}

	budgets, err := h.service.ListBudgets(r.Context(), domain.ChildFilter{UserID: userID, MonthID: monthID, Take: parseTake(r)})
	listed(h.responder, w, r, budgets, err, "budgets")
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var budget domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	budget.ID = 0

	if err := h.service.CreateBudget(r.Context(), userID, &budget); err != nil {
		h.serviceError(w, r, err, "Failed to create budget")
		return
	}
	h.success(w, http.StatusCreated, "Budget successfully created.", budget)
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid budget id")
		return
	}
	var update domain.BudgetUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.service.UpdateBudget(r.Context(), userID, id, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update budget")
		return
	}
	h.success(w, http.StatusOK, "Budget successfully updated.", budget)
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid budget id")
		return
	}

	if err := h.service.DeleteBudget(r.Context(), userID, id); err != nil {
		h.serviceError(w, r, err, "Failed to delete budget")
		return
	}
	h.success(w, http.StatusOK, "Budget successfully deleted.", nil)
}

func (h *BudgetHandler) ReorderBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MonthID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budgets, err := h.service.ReorderBudgets(r.Context(), userID, req.MonthID, req.IDs)
	if err != nil {
		h.serviceError(w, r, err, "Failed to reorder budgets")
		return
	}
	h.success(w, http.StatusOK, "Budgets reordered.", budgets)
}
