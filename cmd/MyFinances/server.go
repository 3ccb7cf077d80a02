package main

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gustavoisensee/MyFinances/internal/auth"
	"github.com/gustavoisensee/MyFinances/internal/finance/interfaces"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router         *http.ServeMux
	middleware     *auth.Middleware
	authHandler    *auth.Handler
	userHandler    *user.Handler
	webhookHandler *user.WebhookHandler
	years          *interfaces.YearHandler
	accessTokens   *interfaces.AccessTokenHandler
	months         *interfaces.MonthHandler
	budgets        *interfaces.BudgetHandler
	incomes        *interfaces.IncomeHandler
	expenses       *interfaces.ExpenseHandler
	categories     *interfaces.CategoryHandler
	health         HealthChecker
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Index"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) RegisterRoutes() {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.Handler { return s.middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return s.middleware.RequireAdmin(h) }
	optional := func(h http.HandlerFunc) http.Handler { return s.middleware.OptionalAuth(h) }

	// Public routes
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /year", optional(s.years.GetYears))
	mux.Handle("GET /category", optional(s.categories.GetCategories))
	mux.HandleFunc("POST /auth", s.authHandler.HandleLogin)
	mux.HandleFunc("GET /auth/verify", s.authHandler.HandleVerify)
	mux.HandleFunc("POST /webhooks/clerk", s.webhookHandler.HandleClerkWebhook)

	// BUDGETS
	mux.Handle("GET /budget", authed(s.budgets.GetBudgets))
	mux.Handle("POST /budget", authed(s.budgets.CreateBudget))
	mux.Handle("PUT /budget/reorder", authed(s.budgets.ReorderBudgets))
	mux.Handle("PUT /budget/{id}", authed(s.budgets.UpdateBudget))
	mux.Handle("DELETE /budget/{id}", authed(s.budgets.DeleteBudget))

	// INCOMES
	mux.Handle("GET /income", authed(s.incomes.GetIncomes))
	mux.Handle("POST /income", authed(s.incomes.CreateIncome))
	mux.Handle("PUT /income/reorder", authed(s.incomes.ReorderIncomes))
	mux.Handle("PUT /income/{id}", authed(s.incomes.UpdateIncome))
	mux.Handle("DELETE /income/{id}", authed(s.incomes.DeleteIncome))

	// EXPENSES
	mux.Handle("GET /expense", authed(s.expenses.GetExpenses))
	mux.Handle("POST /expense", authed(s.expenses.CreateExpense))
	mux.Handle("PUT /expense/{id}", authed(s.expenses.UpdateExpense))
	mux.Handle("DELETE /expense/{id}", authed(s.expenses.DeleteExpense))

	// MONTHS
	mux.Handle("GET /month", authed(s.months.GetMonths))
	mux.Handle("POST /month", authed(s.months.CreateMonth))
	mux.Handle("GET /month/{id}", authed(s.months.GetMonth))
	mux.Handle("PUT /month/{id}", authed(s.months.UpdateMonth))
	mux.Handle("DELETE /month/{id}", authed(s.months.DeleteMonth))
	mux.Handle("POST /month/{id}/copy", authed(s.months.CopyMonth))

	// CATEGORIES
	mux.Handle("POST /category", authed(s.categories.CreateCategory))
	mux.Handle("PUT /category/{id}", authed(s.categories.UpdateCategory))
	mux.Handle("DELETE /category/{id}", authed(s.categories.DeleteCategory))

	// Admin routes
	mux.Handle("POST /year", admin(s.years.CreateYear))
	mux.Handle("GET /access-token", admin(s.accessTokens.GetAccessTokens))
	mux.Handle("GET /user", admin(s.userHandler.HandleListUsers))
	mux.Handle("POST /user", admin(s.userHandler.HandleCreateUser))
	mux.Handle("POST /user/sync", admin(s.userHandler.HandleSyncUser))
	mux.Handle("PUT /user/{id}", admin(s.userHandler.HandleUpdateUser))
	mux.Handle("DELETE /user/{id}", admin(s.userHandler.HandleDeleteUser))

	mux.HandleFunc("/", notFoundHandler)

	s.router = mux
}

// Handler returns the router behind CORS and request logging.
func (s *Server) Handler(logger *applog.Logger, allowedOrigins []string) http.Handler {
	return applog.Middleware(logger)(corsMiddleware(allowedOrigins)(s.router))
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
