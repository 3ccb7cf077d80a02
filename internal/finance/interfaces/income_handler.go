package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type IncomeServiceInterface interface {
	ListIncomes(ctx context.Context, filter domain.ChildFilter) ([]domain.Income, error)
	CreateIncome(ctx context.Context, userID int64, income *domain.Income) error
	UpdateIncome(ctx context.Context, userID, id int64, update domain.IncomeUpdate) (*domain.Income, error)
	DeleteIncome(ctx context.Context, userID, id int64) error
	ReorderIncomes(ctx context.Context, userID, monthID int64, ids []int64) ([]domain.Income, error)
}

type IncomeHandler struct {
	responder
	service IncomeServiceInterface
}

func NewIncomeHandler(service IncomeServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *IncomeHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &IncomeHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *IncomeHandler) GetIncomes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	monthID, ok := parseQueryID(r, "monthId")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid monthId")
		return
	}

	incomes, err := h.service.ListIncomes(r.Context(), domain.ChildFilter{UserID: userID, MonthID: monthID, Take: parseTake(r)})
	listed(h.responder, w, r, incomes, err, "incomes")
}

func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var income domain.Income
	if err := json.NewDecoder(r.Body).Decode(&income); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	income.ID = 0

	if err := h.service.CreateIncome(r.Context(), userID, &income); err != nil {
		h.serviceError(w, r, err, "Failed to create income")
		return
	}
	h.success(w, http.StatusCreated, "Income successfully created.", income)
}

func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid income id")
		return
	}
	var update domain.IncomeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	income, err := h.service.UpdateIncome(r.Context(), userID, id, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update income")
		return
	}
	h.success(w, http.StatusOK, "Income successfully updated.", income)
}

func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid income id")
		return
	}

	if err := h.service.DeleteIncome(r.Context(), userID, id); err != nil {
		h.serviceError(w, r, err, "Failed to delete income")
		return
	}
	h.success(w, http.StatusOK, "Income successfully deleted.", nil)
}

func (h *IncomeHandler) ReorderIncomes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MonthID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	incomes, err := h.service.ReorderIncomes(r.Context(), userID, req.MonthID, req.IDs)
	if err != nil {
		h.serviceError(w, r, err, "Failed to reorder incomes")
		return
	}
	h.success(w, http.StatusOK, "Incomes reordered.", incomes)
}
