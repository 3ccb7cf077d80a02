package interfaces

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gustavoisensee/MyFinances/internal/auth"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
)

const defaultTake = 10

// responder carries the response functions every handler gets from main.
type responder struct {
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func newResponder(respondJSON RespondJSONFunc, respondError RespondErrorFunc) responder {
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
	}
	return responder{respondJSON: respondJSON, respondError: respondError}
}

// parseTake reads ?take, falling back to 10 when missing, invalid or not positive.
func parseTake(r *http.Request) int {
	take, err := strconv.Atoi(r.URL.Query().Get("take"))
	if err != nil || take <= 0 {
		return defaultTake
	}
	return take
}

func parsePathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// parseQueryID reads an optional positive id filter. Missing means 0.
func parseQueryID(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func (h responder) callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == 0 {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return userID, true
}

func (h responder) success(w http.ResponseWriter, status int, message string, data interface{}) {
	payload := map[string]interface{}{"status": "success"}
	if message != "" {
		payload["message"] = message
	}
	if data != nil {
		payload["data"] = data
	}
	h.respondJSON(w, status, payload)
}

// listed answers a list request. Read paths degrade to an empty list on store errors.
func listed[T any](h responder, w http.ResponseWriter, r *http.Request, items []T, err error, what string) {
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "failed to list "+what, applog.FieldOperation, applog.OpList, applog.FieldError, err)
		items = []T{}
	}
	if items == nil {
		items = []T{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   items,
	})
}

// serviceError maps the finance error taxonomy onto statuses.
func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case financeErrors.IsValidationErrors(err):
		var validationErrors *financeErrors.ValidationErrors
		errors.As(err, &validationErrors)
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		var validationError *financeErrors.ValidationError
		errors.As(err, &validationError)
		h.respondError(w, http.StatusBadRequest, validationError.Msg)
	case financeErrors.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, "Resource not found")
	case financeErrors.IsForbidden(err):
		h.respondError(w, http.StatusForbidden, err.Error())
	case financeErrors.IsConflict(err):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), fallback, applog.FieldError, err)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
