// Package app assembles the API server from its parts.
package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pickage/platform/internal/auth"
	"github.com/pickage/platform/internal/guard"
	"github.com/pickage/platform/internal/handler"
	"github.com/pickage/platform/internal/infra"
	"github.com/pickage/platform/internal/ledger"
	"github.com/pickage/platform/internal/projection"
	"github.com/pickage/platform/internal/props"
	"github.com/pickage/platform/internal/repository"
	"github.com/pickage/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool      *pgxpool.Pool
	JWTMgr    *auth.JWTManager
	Logger    *slog.Logger
	Metrics   *infra.Metrics
	Snapshots projection.Store
	Limiter   *guard.RateLimiter
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	profileRepo := repository.NewProfileRepository()
	txRepo := repository.NewTransactionRepository()
	betRepo := repository.NewBetRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Ledger engine and prop catalog
	ledgerEngine := ledger.NewEngine(profileRepo, txRepo, outboxRepo)
	catalog := props.NewCatalog()

	// Services
	walletSvc := service.NewWalletService(
		pool, profileRepo, txRepo, ledgerEngine, deps.Snapshots, deps.Limiter, deps.Metrics, logger)
	bettingSvc := service.NewBettingService(
		pool, catalog, betRepo, outboxRepo, ledgerEngine, deps.Snapshots, deps.Limiter, deps.Metrics, logger)

	// Handlers
	walletHandler := handler.NewWalletHandler(walletSvc)
	betsHandler := handler.NewBetsHandler(bettingSvc)
	opsHandler := handler.NewOpsHandler(walletSvc, bettingSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.HTTPMetrics(deps.Metrics))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health and metrics (no auth)
	r.Get("/health", handler.HealthHandler(pool))
	r.Method("GET", "/metrics", handler.MetricsHandler(deps.Metrics))

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", walletHandler.GetWallet)
			r.Get("/balance", walletHandler.GetBalance)
			r.Get("/transactions", walletHandler.GetTransactions)
			r.Post("/deposit", walletHandler.Deposit)
			r.Post("/withdraw", walletHandler.Withdraw)
		})

		r.Get("/props", betsHandler.ListProps)
		r.Post("/bets", betsHandler.PlaceBet)
		r.Get("/bets/me", betsHandler.MyBets)
	})

	// Ops-authenticated routes
	r.Route("/ops", func(r chi.Router) {
		r.Use(auth.AuthenticateOps(jwtMgr))
		r.Use(auth.RequireRole("trader", "admin"))

		r.Post("/bets/{betID}/settle", opsHandler.SettleBet)
		r.Post("/bonus", opsHandler.GrantBonus)
	})

	return r
}
