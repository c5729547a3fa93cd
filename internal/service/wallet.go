// Package service orchestrates ledger commands: one database transaction
// per operation, projection refresh after commit, guards up front.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/guard"
	"github.com/pickage/platform/internal/infra"
	"github.com/pickage/platform/internal/ledger"
	"github.com/pickage/platform/internal/projection"
	"github.com/pickage/platform/internal/repository"
)

// startingBalance is the demo bankroll granted on first wallet load,
// in cents.
const startingBalance = 100000

// WalletService handles deposits, withdrawals and wallet reads.
type WalletService struct {
	pool         *pgxpool.Pool
	profiles     repository.ProfileRepository
	transactions repository.TransactionRepository
	engine       *ledger.Engine
	snapshots    projection.Store
	limiter      *guard.RateLimiter
	metrics      *infra.Metrics
	logger       *slog.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(
	pool *pgxpool.Pool,
	profiles repository.ProfileRepository,
	transactions repository.TransactionRepository,
	engine *ledger.Engine,
	snapshots projection.Store,
	limiter *guard.RateLimiter,
	metrics *infra.Metrics,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		pool:         pool,
		profiles:     profiles,
		transactions: transactions,
		engine:       engine,
		snapshots:    snapshots,
		limiter:      limiter,
		metrics:      metrics,
		logger:       logger,
	}
}

// Deposit credits the user's balance and appends a deposit ledger entry.
func (s *WalletService) Deposit(ctx context.Context, params domain.DepositParams) (*domain.CommandResult, error) {
	if err := s.checkRate(ctx, params.UserID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteDeposit(ctx, tx, params)
	if err != nil {
		s.metrics.ObserveWalletOp("deposit", "failure")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.ObserveWalletOp("deposit", "failure")
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.ObserveWalletOp("deposit", "success")
	s.refreshProjection(ctx, result.Profile)
	s.logger.Info("deposit posted",
		"user_id", params.UserID, "amount", params.Amount, "idempotent", result.Idempotent)
	return result, nil
}

// Withdraw debits the user's balance after a server-side sufficiency check
// against the locked row.
func (s *WalletService) Withdraw(ctx context.Context, params domain.WithdrawParams) (*domain.CommandResult, error) {
	if err := s.checkRate(ctx, params.UserID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteWithdraw(ctx, tx, params)
	if err != nil {
		s.metrics.ObserveWalletOp("withdraw", "failure")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.ObserveWalletOp("withdraw", "failure")
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.ObserveWalletOp("withdraw", "success")
	s.refreshProjection(ctx, result.Profile)
	s.logger.Info("withdrawal posted",
		"user_id", params.UserID, "amount", params.Amount, "idempotent", result.Idempotent)
	return result, nil
}

// BonusCredit grants promotional funds. Ops realm only.
func (s *WalletService) BonusCredit(ctx context.Context, params domain.BonusCreditParams) (*domain.CommandResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteBonusCredit(ctx, tx, params)
	if err != nil {
		s.metrics.ObserveWalletOp("bonus", "failure")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.ObserveWalletOp("bonus", "failure")
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.ObserveWalletOp("bonus", "success")
	s.refreshProjection(ctx, result.Profile)
	s.logger.Info("bonus credited", "user_id", params.UserID, "amount", params.Amount)
	return result, nil
}

// Refresh returns the authoritative profile plus the most recent 50 ledger
// entries, newest first. A first-time user gets a profile seeded with the
// demo bankroll. Calling twice with no mutation in between returns
// identical snapshots.
func (s *WalletService) Refresh(ctx context.Context, userID uuid.UUID) (*domain.WalletSnapshot, error) {
	profile, err := s.profiles.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find profile", err)
	}
	if profile == nil {
		profile, err = s.createProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	txs, err := s.transactions.ListByUser(ctx, s.pool, userID, nil, 50)
	if err != nil {
		return nil, domain.ErrInternal("list transactions", err)
	}

	s.refreshProjection(ctx, profile)
	return &domain.WalletSnapshot{Profile: profile, Transactions: txs}, nil
}

// ListTransactions returns a page of the user's ledger, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error) {
	txs, err := s.transactions.ListByUser(ctx, s.pool, userID, cursor, limit)
	if err != nil {
		return nil, domain.ErrInternal("list transactions", err)
	}
	return txs, nil
}

// GetBalance serves the cached wallet projection when fresh and falls back
// to the authoritative row, repopulating the cache on a miss.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*projection.WalletProjection, error) {
	if cached, err := projection.GetWallet(ctx, s.snapshots, userID.String()); err == nil {
		return cached, nil
	}

	profile, err := s.profiles.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("find profile", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", userID.String())
	}

	s.refreshProjection(ctx, profile)
	return &projection.WalletProjection{
		UserID:        profile.UserID.String(),
		Balance:       profile.Balance,
		TotalBets:     profile.TotalBets,
		TotalWinnings: profile.TotalWinnings,
		UpdatedAt:     profile.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// createProfile inserts a zero-balance profile and posts the demo bankroll
// through the ledger in the same transaction, so every cent of the balance
// is backed by a ledger entry.
func (s *WalletService) createProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	now := time.Now().UTC()
	profile := &domain.Profile{
		UserID:      userID,
		DisplayName: "Player",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.profiles.Create(ctx, tx, profile); err != nil {
		// Lost a creation race; the winner's row is authoritative.
		existing, findErr := s.profiles.FindByID(ctx, s.pool, userID)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, domain.ErrStoreWrite("create profile", err)
	}

	result, err := s.engine.ExecuteBonusCredit(ctx, tx, domain.BonusCreditParams{
		UserID:      userID,
		Amount:      startingBalance,
		Description: "Starting balance",
		ExternalRef: fmt.Sprintf("signup_%s", userID),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("profile created", "user_id", userID, "balance", result.Profile.Balance)
	return result.Profile, nil
}

// checkRate enforces the per-user mutation rate limit.
func (s *WalletService) checkRate(ctx context.Context, userID uuid.UUID) error {
	if s.limiter == nil {
		return nil
	}
	if res := s.limiter.Check(ctx, userID.String()); !res.Allowed {
		return domain.ErrRateLimited(res.Reason)
	}
	return nil
}

// refreshProjection updates the display cache after a commit. Best effort:
// the cache carries a TTL, so a failed write only delays freshness.
func (s *WalletService) refreshProjection(ctx context.Context, profile *domain.Profile) {
	if s.snapshots == nil || profile == nil {
		return
	}
	if err := projection.UpdateWallet(ctx, s.snapshots, profile); err != nil {
		s.logger.Warn("refresh wallet projection", "error", err, "user_id", profile.UserID)
	}
}
