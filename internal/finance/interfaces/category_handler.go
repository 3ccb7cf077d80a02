package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/auth"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
)

type CategoryServiceInterface interface {
	ListCategories(ctx context.Context, userID int64, take int) ([]domain.Category, error)
	CreateCategory(ctx context.Context, userID int64, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, id int64, update domain.CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error
}

type CategoryHandler struct {
	responder
	service CategoryServiceInterface
}

func NewCategoryHandler(service CategoryServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &CategoryHandler{responder: newResponder(respondJSON, respondError), service: service}
}

// GetCategories is public. Anonymous callers only see the defaults.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	categories, err := h.service.ListCategories(r.Context(), userID, parseTake(r))
	listed(h.responder, w, r, categories, err, "categories")
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, in)
	if err != nil {
		h.serviceError(w, r, err, "Failed to create category")
		return
	}
	h.success(w, http.StatusCreated, "Category successfully created.", category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	var update domain.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, id, update)
	if err != nil {
		h.serviceError(w, r, err, "Failed to update category")
		return
	}
	h.success(w, http.StatusOK, "Category successfully updated.", category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := parsePathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, id); err != nil {
		h.serviceError(w, r, err, "Failed to delete category")
		return
	}
	h.success(w, http.StatusOK, "Category successfully deleted.", nil)
}
