package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/user"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type TokenRecorder interface {
	Record(ctx context.Context, token *domain.AccessToken) error
}

type Handler struct {
	users      Authenticator
	jwtManager *JWTManager
	tokens     TokenRecorder
	resolver   *Resolver
}

func NewHandler(users Authenticator, jwtManager *JWTManager, tokens TokenRecorder, resolver *Resolver) *Handler {
	return &Handler{
		users:      users,
		jwtManager: jwtManager,
		tokens:     tokens,
		resolver:   resolver,
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

// HandleLogin issues a legacy token for email and password credentials.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "User or password not provided!")
		return
	}

	ctx := r.Context()
	existingUser, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "login failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, try again!")
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "could not sign token", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, try again!")
		return
	}

	if err := h.tokens.Record(ctx, &domain.AccessToken{UserID: existingUser.ID, Token: token, ExpiresAt: expiresAt}); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "could not record access token", applog.FieldUserID, existingUser.ID, applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, try again!")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// HandleVerify reports the user id behind the Authorization header.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if bearerToken(header) == "" {
		respondError(w, http.StatusUnauthorized, "Token not provided!")
		return
	}

	userID := h.resolver.Resolve(r.Context(), header)
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "Token is invalid!")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"userId": userID})
}
