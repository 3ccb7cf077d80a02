package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type MonthServiceInterface interface {
	ListMonths(ctx context.Context, filter domain.MonthFilter) ([]domain.Month, error)
	GetMonth(ctx context.Context, userID, id int64) (*domain.Month, error)
	CreateMonth(ctx context.Context, userID int64, month *domain.Month) error
	UpdateMonth(ctx context.Context, userID, id int64, update domain.MonthUpdate) (*domain.Month, error)
	DeleteMonth(ctx context.Context, userID, id int64) error
	CopyMonth(ctx context.Context, userID, sourceID int64, in domain.CopyMonthInput) (*domain.Month, error)
}

type MonthHandler struct {
	responder
	service MonthServiceInterface
}

func NewMonthHandler(service MonthServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *MonthHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &MonthHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *MonthHandler) GetMonths(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	yearID, ok := parseQueryID(r, "yearId")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid yearId")
		return
	}

	months, err := h.service.ListMonths(r.Context(), domain.MonthFilter{UserID: userID, YearID: yearID, Take: parseTake(r)})
	listed(h.responder, w, r, months, err, "months")
}

func (h *MonthHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid month id")
		return
	}

	month, err := h.service.GetMonth(r.Context(), userID, id)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve month")
		return
	}
	h.success(w, http.StatusOK, "", month)
}

func (h *MonthHandler) CreateMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var month domain.Month
	if err := json.NewDecoder(r.Body).Decode(&month); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	month.ID = 0
	month.Incomes, month.Budgets = nil, nil

	if err := h.service.CreateMonth(r.Context(), userID, &month); err != nil {
		h.serviceError(w, r, err, "Failed to create month")
		return
	}
	h.success(w, http.StatusCreated, "Month successfully created.", month)
}

func (h *MonthHandler) UpdateMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid month id")
		return
	}
	var update domain.MonthUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	month, err := h.service.UpdateMonth(r.Context(), userID, id, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update month")
		return
	}
	h.success(w, http.StatusOK, "Month successfully updated.", month)
}

func (h *MonthHandler) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid month id")
		return
	}

	if err := h.service.DeleteMonth(r.Context(), userID, id); err != nil {
		h.serviceError(w, r, err, "Failed to delete month")
		return
	}
	h.success(w, http.StatusOK, "Month successfully deleted.", nil)
}

func (h *MonthHandler) CopyMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid month id")
		return
	}
	var in domain.CopyMonthInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	month, err := h.service.CopyMonth(r.Context(), userID, id, in)
	if err != nil {
		h.serviceError(w, r, err, "Failed to copy month")
		return
	}
	h.success(w, http.StatusCreated, "Month successfully copied.", month)
}
