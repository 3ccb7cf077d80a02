package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/auth"
	"github.com/gustavoisensee/MyFinances/internal/clerk"
	"github.com/gustavoisensee/MyFinances/internal/config"
	"github.com/gustavoisensee/MyFinances/internal/finance/application"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	"github.com/gustavoisensee/MyFinances/internal/finance/infrastructure"
	"github.com/gustavoisensee/MyFinances/internal/finance/interfaces"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     cfg.SlogLevel(),
		Component: applog.ComponentApp,
		Output:    os.Stdout,
		JSON:      true,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("missing configuration, update to start server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
		logger.Error("could not run migrations", applog.FieldError, err)
		os.Exit(1)
	}

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, cfg.DBMaxOpenConns, logger)
	if err != nil {
		logger.Error("could not initialize database", applog.FieldError, err)
		os.Exit(1)
	}
	defer dbService.Close()

	server, err := buildServer(cfg, dbService, logger)
	if err != nil {
		logger.Error("could not build server", applog.FieldError, err)
		os.Exit(1)
	}
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(logger, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", applog.FieldError, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", applog.FieldError, err)
	}
}

// stores groups the persistence the server runs on.
type stores struct {
	tx             domain.TxManager
	years          domain.YearRepository
	months         domain.MonthRepository
	budgets        domain.BudgetRepository
	incomes        domain.IncomeRepository
	expenses       domain.ExpenseRepository
	categories     domain.CategoryRepository
	accessTokens   domain.AccessTokenRepository
	ownership      domain.OwnershipRepository
	budgetSiblings domain.SiblingStore
	incomeSiblings domain.SiblingStore
	users          user.Repository
}

func postgresStores(db *sql.DB) stores {
	return stores{
		tx:             database.NewTxManager(db),
		years:          infrastructure.NewYearRepository(db),
		months:         infrastructure.NewMonthRepository(db),
		budgets:        infrastructure.NewBudgetRepository(db),
		incomes:        infrastructure.NewIncomeRepository(db),
		expenses:       infrastructure.NewExpenseRepository(db),
		categories:     infrastructure.NewCategoryRepository(db),
		accessTokens:   infrastructure.NewAccessTokenRepository(db),
		ownership:      infrastructure.NewOwnershipRepository(db),
		budgetSiblings: infrastructure.NewBudgetSiblings(db),
		incomeSiblings: infrastructure.NewIncomeSiblings(db),
		users:          user.NewUserRepository(db),
	}
}

func buildServer(cfg *config.Config, dbService *database.DBService, logger *applog.Logger) (*Server, error) {
	return newServer(cfg, postgresStores(dbService.DB), dbService, logger)
}

func newServer(cfg *config.Config, st stores, health HealthChecker, logger *applog.Logger) (*Server, error) {
	// finance
	owners := application.NewOwnership(st.ownership)
	budgetService := application.NewBudgetService(st.budgets,
		application.NewOrderedCollection(domain.KindBudget, st.budgetSiblings, owners, st.tx), owners, st.tx)
	incomeService := application.NewIncomeService(st.incomes,
		application.NewOrderedCollection(domain.KindIncome, st.incomeSiblings, owners, st.tx), owners, st.tx)
	expenseService := application.NewExpenseService(st.expenses, owners, st.tx)
	monthService := application.NewMonthService(st.months, st.years, st.budgets, st.incomes, owners, st.tx)
	categoryService := application.NewCategoryService(st.categories, cfg.AdminUserID)
	yearService := application.NewYearService(st.years)
	accessTokenService := application.NewAccessTokenService(st.accessTokens)

	// users and identity
	userService := user.NewService(st.users, cfg.AdminUserID, logger)
	clerkClient := clerk.NewClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey)
	syncService := user.NewSyncService(st.users, clerkClient, cfg.AdminUserID, logger)

	var provider auth.ProviderVerifier
	if cfg.ClerkJWTPublicKey != "" {
		sessionVerifier, err := clerk.NewSessionVerifier(cfg.ClerkJWTPublicKey)
		if err != nil {
			return nil, err
		}
		provider = sessionVerifier
	} else {
		logger.Warn("CLERK_JWT_PUBLIC_KEY not set, only legacy tokens are accepted")
	}

	var webhookVerifier user.SignatureVerifier
	if cfg.ClerkWebhookSecret != "" {
		v, err := clerk.NewWebhookVerifier(cfg.ClerkWebhookSecret)
		if err != nil {
			return nil, err
		}
		webhookVerifier = v
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	onSync := func(ctx context.Context, externalID string) error {
		_, err := syncService.SyncSession(ctx, externalID)
		return err
	}
	resolver := auth.NewResolver(provider, jwtManager, st.users, onSync, logger)

	return &Server{
		middleware:     auth.NewMiddleware(resolver, cfg.AdminUserID),
		authHandler:    auth.NewHandler(userService, jwtManager, st.accessTokens, resolver),
		userHandler:    user.NewHandler(userService, syncService),
		webhookHandler: user.NewWebhookHandler(syncService, webhookVerifier, logger),
		years:          interfaces.NewYearHandler(yearService, interfaces.RespondJSON, interfaces.RespondError),
		accessTokens:   interfaces.NewAccessTokenHandler(accessTokenService, interfaces.RespondJSON, interfaces.RespondError),
		months:         interfaces.NewMonthHandler(monthService, interfaces.RespondJSON, interfaces.RespondError),
		budgets:        interfaces.NewBudgetHandler(budgetService, interfaces.RespondJSON, interfaces.RespondError),
		incomes:        interfaces.NewIncomeHandler(incomeService, interfaces.RespondJSON, interfaces.RespondError),
		expenses:       interfaces.NewExpenseHandler(expenseService, interfaces.RespondJSON, interfaces.RespondError),
		categories:     interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError),
		health:         health,
	}, nil
}
