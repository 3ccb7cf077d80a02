package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type contextKey struct{}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the caller id, or 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(contextKey{}).(int64)
	return id
}

type Middleware struct {
	resolver *Resolver
	adminID  int64
}

func NewMiddleware(resolver *Resolver, adminID int64) *Middleware {
	return &Middleware{resolver: resolver, adminID: adminID}
}

func (m *Middleware) IsAdmin(userID int64) bool {
	return userID != 0 && userID == m.adminID
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if userID == 0 {
			writeJSONError(w, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if userID == 0 {
			writeJSONError(w, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required")
			return
		}
		if !m.IsAdmin(userID) {
			writeJSONError(w, http.StatusForbidden, CodeForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth attaches the caller when the token resolves and never rejects.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := m.resolver.Resolve(r.Context(), r.Header.Get("Authorization")); userID != 0 {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
		Code:    code,
	})
}
