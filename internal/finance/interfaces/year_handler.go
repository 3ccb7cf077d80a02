package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type YearServiceInterface interface {
	ListYears(ctx context.Context, take int) ([]domain.Year, error)
	CreateYear(ctx context.Context, year *domain.Year) error
}

type AccessTokenServiceInterface interface {
	ListAccessTokens(ctx context.Context, take int) ([]domain.AccessToken, error)
}

type YearHandler struct {
	responder
	service YearServiceInterface
}

func NewYearHandler(service YearServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *YearHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &YearHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *YearHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.ListYears(r.Context(), parseTake(r))
	listed(h.responder, w, r, years, err, "years")
}

func (h *YearHandler) CreateYear(w http.ResponseWriter, r *http.Request) {
	var year domain.Year
	if err := json.NewDecoder(r.Body).Decode(&year); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	year.ID = 0

	if err := h.service.CreateYear(r.Context(), &year); err != nil {
		h.serviceError(w, r, err, "Failed to create year")
		return
	}
	h.success(w, http.StatusCreated, "Year successfully created.", year)
}

type AccessTokenHandler struct {
	responder
	service AccessTokenServiceInterface
}

func NewAccessTokenHandler(service AccessTokenServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *AccessTokenHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &AccessTokenHandler{responder: newResponder(respondJSON, respondError), service: service}
}

func (h *AccessTokenHandler) GetAccessTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.service.ListAccessTokens(r.Context(), parseTake(r))
	listed(h.responder, w, r, tokens, err, "access tokens")
}
