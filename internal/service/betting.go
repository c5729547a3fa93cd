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
	"github.com/pickage/platform/internal/odds"
	"github.com/pickage/platform/internal/projection"
	"github.com/pickage/platform/internal/props"
	"github.com/pickage/platform/internal/repository"
)

// PlaceBetParams holds the input for PlaceBet.
type PlaceBetParams struct {
	UserID      uuid.UUID
	PropID      string
	Side        domain.BetSide
	Stake       int64
	ExternalRef string
}

// PlaceBetResult pairs the inserted bet with the ledger command result.
type PlaceBetResult struct {
	Bet        *domain.Bet
	Result     *domain.CommandResult
	Idempotent bool
}

// BettingService handles the prop catalog, bet placement and settlement.
type BettingService struct {
	pool      *pgxpool.Pool
	catalog   *props.Catalog
	bets      repository.BetRepository
	outbox    repository.OutboxRepository
	engine    *ledger.Engine
	snapshots projection.Store
	limiter   *guard.RateLimiter
	metrics   *infra.Metrics
	logger    *slog.Logger
}

// NewBettingService creates a BettingService.
func NewBettingService(
	pool *pgxpool.Pool,
	catalog *props.Catalog,
	bets repository.BetRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	snapshots projection.Store,
	limiter *guard.RateLimiter,
	metrics *infra.Metrics,
	logger *slog.Logger,
) *BettingService {
	return &BettingService{
		pool:      pool,
		catalog:   catalog,
		bets:      bets,
		outbox:    outbox,
		engine:    engine,
		snapshots: snapshots,
		limiter:   limiter,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListProps returns the current proposition slate.
func (s *BettingService) ListProps(_ context.Context) []domain.Prop {
	return s.catalog.List()
}

// PlaceBet debits the stake and inserts the bet in one database transaction.
// The payout is priced from the catalog at placement and never recomputed.
func (s *BettingService) PlaceBet(ctx context.Context, params PlaceBetParams) (*PlaceBetResult, error) {
	if s.limiter != nil {
		if res := s.limiter.Check(ctx, params.UserID.String()); !res.Allowed {
			return nil, domain.ErrRateLimited(res.Reason)
		}
	}
	if err := domain.ValidateBetSide(params.Side); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(params.Stake); err != nil {
		return nil, err
	}

	prop, err := s.catalog.Get(params.PropID)
	if err != nil {
		return nil, err
	}

	sideOdds := prop.SideOdds(params.Side)
	payout, err := odds.PotentialPayout(params.Stake, sideOdds)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Bet: %s %s %s %g",
		prop.PlayerName, prop.StatType, params.Side, prop.Line)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	debit, err := s.engine.ExecuteBetDebit(ctx, tx, domain.BetDebitParams{
		UserID:      params.UserID,
		Stake:       params.Stake,
		Description: description,
		ExternalRef: params.ExternalRef,
	})
	if err != nil {
		s.metrics.ObserveWalletOp("bet_placed", "failure")
		return nil, err
	}

	// Duplicate external_ref: the bet already exists, return it unchanged.
	if debit.Idempotent {
		existing, err := s.bets.FindByTransactionID(ctx, tx, debit.Transaction.ID)
		if err != nil {
			return nil, domain.ErrInternal("find existing bet", err)
		}
		return &PlaceBetResult{Bet: existing, Result: debit, Idempotent: true}, nil
	}

	gameDate := prop.GameDate
	bet := &domain.Bet{
		ID:              uuid.New(),
		UserID:          params.UserID,
		PlayerName:      prop.PlayerName,
		Team:            prop.Team,
		Opponent:        prop.Opponent,
		StatType:        prop.StatType,
		Line:            prop.Line,
		Side:            params.Side,
		Odds:            sideOdds,
		Amount:          params.Stake,
		PotentialPayout: payout,
		GameDate:        &gameDate,
		Status:          domain.BetStatusPending,
		TransactionID:   &debit.Transaction.ID,
		PlacedAt:        time.Now().UTC(),
	}
	if err := s.bets.Insert(ctx, tx, bet); err != nil {
		s.metrics.ObserveWalletOp("bet_placed", "failure")
		return nil, domain.ErrStoreWrite("insert bet", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewBetPlacedEvent(bet)); err != nil {
		s.metrics.ObserveWalletOp("bet_placed", "failure")
		return nil, domain.ErrStoreWrite("insert bet event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.ObserveWalletOp("bet_placed", "failure")
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.ObserveWalletOp("bet_placed", "success")
	s.refreshProjection(ctx, debit.Profile)
	s.logger.Info("bet placed",
		"bet_id", bet.ID, "user_id", params.UserID, "prop_id", prop.ID,
		"side", params.Side, "stake", params.Stake, "payout", payout)
	return &PlaceBetResult{Bet: bet, Result: debit}, nil
}

// MyBets returns the user's bets, newest first.
func (s *BettingService) MyBets(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Bet, error) {
	bets, err := s.bets.ListByUser(ctx, s.pool, userID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list bets", err)
	}
	return bets, nil
}

// Settle transitions a pending bet to won or lost and posts the matching
// ledger entry. A win credits the payout fixed at placement; a loss posts a
// zero-amount outcome record. Each bet settles exactly once.
func (s *BettingService) Settle(ctx context.Context, betID uuid.UUID, status domain.BetStatus) (*domain.Bet, error) {
	if status != domain.BetStatusWon && status != domain.BetStatusLost {
		return nil, domain.ErrValidation(fmt.Sprintf("settlement status must be won or lost, got %q", status))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	bet, err := s.bets.LockForUpdate(ctx, tx, betID)
	if err != nil {
		return nil, domain.ErrInternal("lock bet", err)
	}
	if bet == nil {
		return nil, domain.ErrNotFound("bet", betID.String())
	}
	if bet.Status != domain.BetStatusPending {
		return nil, domain.ErrValidation(fmt.Sprintf("bet %s already settled as %s", betID, bet.Status))
	}

	extRef := fmt.Sprintf("settle_%s", betID)
	outcomeDescription := fmt.Sprintf("%s: %s %s %s %g",
		settleLabel(status), bet.PlayerName, bet.StatType, bet.Side, bet.Line)

	var result *domain.CommandResult
	if status == domain.BetStatusWon {
		result, err = s.engine.ExecuteSettleWin(ctx, tx, domain.SettleWinParams{
			UserID:      bet.UserID,
			Payout:      bet.PotentialPayout,
			Description: outcomeDescription,
			ExternalRef: extRef,
		})
	} else {
		result, err = s.engine.ExecuteSettleLoss(ctx, tx, domain.SettleLossParams{
			UserID:      bet.UserID,
			Description: outcomeDescription,
			ExternalRef: extRef,
		})
	}
	if err != nil {
		s.metrics.ObserveWalletOp("settle", "failure")
		return nil, err
	}

	settledAt := time.Now().UTC()
	if err := s.bets.Settle(ctx, tx, betID, status, settledAt); err != nil {
		s.metrics.ObserveWalletOp("settle", "failure")
		return nil, domain.ErrStoreWrite("settle bet", err)
	}
	bet.Status = status
	bet.SettledAt = &settledAt

	if err := s.outbox.Insert(ctx, tx, domain.NewBetSettledEvent(bet)); err != nil {
		s.metrics.ObserveWalletOp("settle", "failure")
		return nil, domain.ErrStoreWrite("insert settle event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.ObserveWalletOp("settle", "failure")
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.metrics.ObserveWalletOp("settle", "success")
	s.refreshProjection(ctx, result.Profile)
	s.logger.Info("bet settled",
		"bet_id", betID, "user_id", bet.UserID, "status", status, "payout", bet.PotentialPayout)
	return bet, nil
}

func settleLabel(status domain.BetStatus) string {
	if status == domain.BetStatusWon {
		return "Won"
	}
	return "Lost"
}

func (s *BettingService) refreshProjection(ctx context.Context, profile *domain.Profile) {
	if s.snapshots == nil || profile == nil {
		return
	}
	if err := projection.UpdateWallet(ctx, s.snapshots, profile); err != nil {
		s.logger.Warn("refresh wallet projection", "error", err, "user_id", profile.UserID)
	}
}
