package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gustavoisensee/MyFinances/internal/clerk"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
)

const maxWebhookBody = 1 << 20

const (
	EventUserCreated    = "user.created"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
	EventSessionCreated = "session.created"
)

type SignatureVerifier interface {
	Verify(header http.Header, body []byte) error
}

type IdentitySyncer interface {
	SyncCreated(ctx context.Context, p Profile) (*User, error)
	SyncUpdated(ctx context.Context, p Profile) (*User, error)
	SyncSession(ctx context.Context, externalID string) (*User, error)
	SyncDeleted(ctx context.Context, externalID string) error
}

type webhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WebhookHandler struct {
	sync     IdentitySyncer
	verifier SignatureVerifier
	logger   *applog.Logger
}

// NewWebhookHandler builds the provider webhook endpoint. A nil verifier
// accepts unsigned deliveries and is meant for local development only.
func NewWebhookHandler(sync IdentitySyncer, verifier SignatureVerifier, logger *applog.Logger) *WebhookHandler {
	logger = logger.WithComponent(applog.ComponentWebhook)
	if verifier == nil {
		logger.Warn("webhook signature verification is disabled")
	}
	return &WebhookHandler{sync: sync, verifier: verifier, logger: logger}
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read webhook body")
		return
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(r.Header, body); err != nil {
			h.logger.WarnContext(ctx, "rejected webhook", applog.FieldError, err)
			respondError(w, http.StatusUnauthorized, "Invalid webhook signature")
			return
		}
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	handled, err := h.dispatch(ctx, evt)
	if err != nil {
		h.logger.ErrorContext(ctx, "webhook processing failed", applog.FieldEventType, evt.Type, applog.FieldError, err)
		if errors.Is(err, errBadEventData) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if financeErrors.IsConflict(err) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Error processing webhook")
		return
	}

	message := "Webhook processed successfully"
	if !handled {
		h.logger.InfoContext(ctx, "unhandled webhook event", applog.FieldEventType, evt.Type)
		message = "ignored"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

var errBadEventData = errors.New("webhook event data is missing the user id")

func (h *WebhookHandler) dispatch(ctx context.Context, evt webhookEvent) (bool, error) {
	switch evt.Type {
	case EventUserCreated, EventUserUpdated:
		var u clerk.User
		if err := json.Unmarshal(evt.Data, &u); err != nil || u.ID == "" {
			return true, errBadEventData
		}
		var err error
		if evt.Type == EventUserCreated {
			_, err = h.sync.SyncCreated(ctx, ProfileFromClerk(&u))
		} else {
			_, err = h.sync.SyncUpdated(ctx, ProfileFromClerk(&u))
		}
		return true, err

	case EventUserDeleted:
		var data struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.ID == "" {
			return true, errBadEventData
		}
		return true, h.sync.SyncDeleted(ctx, data.ID)

	case EventSessionCreated:
		var data struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(evt.Data, &data); err != nil || data.UserID == "" {
			return true, errBadEventData
		}
		_, err := h.sync.SyncSession(ctx, data.UserID)
		return true, err
	}
	return false, nil
}
