package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gustavoisensee/MyFinances/internal/clerk"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
)

const defaultTake = 10

type AdminService interface {
	ListUsers(ctx context.Context, take int) ([]User, error)
	CreateUser(ctx context.Context, in CreateInput) (*User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateInput) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type SessionSyncer interface {
	SyncSession(ctx context.Context, externalID string) (*User, error)
}

type Handler struct {
	userService AdminService
	syncService SessionSyncer
}

func NewHandler(userService AdminService, syncService SessionSyncer) *Handler {
	return &Handler{
		userService: userService,
		syncService: syncService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func parseTake(r *http.Request) int {
	take, err := strconv.Atoi(r.URL.Query().Get("take"))
	if err != nil || take <= 0 {
		return defaultTake
	}
	return take
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// respondServiceError maps user errors onto statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, clerk.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrPasswordLength),
		errors.Is(err, ErrNameLength), errors.Is(err, ErrInvalidDateOfBirth):
		respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case financeErrors.IsForbidden(err):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), fallback, applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), parseTake(r))
	if err != nil {
		respondServiceError(w, r, err, "Failed to retrieve users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   users,
	})
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "Could not create user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "User successfully created.",
		"data":    user,
	})
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, err, "Could not update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "User successfully updated.",
		"data":    user,
	})
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "Could not delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User successfully deleted.",
	})
}

// HandleSyncUser runs the sign-in sync for one external id on demand.
func (h *Handler) HandleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExternalID string `json:"externalId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExternalID == "" {
		respondError(w, http.StatusBadRequest, "externalId is required")
		return
	}

	user, err := h.syncService.SyncSession(r.Context(), req.ExternalID)
	if err != nil {
		respondServiceError(w, r, err, "Could not sync user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "User synchronized.",
		"data":    user,
	})
}
