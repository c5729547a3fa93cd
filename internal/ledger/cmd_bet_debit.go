package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
)

// ExecuteBetDebit deducts the stake and bumps the lifetime bet counter.
// This is the ledger half of bet placement; the caller inserts the bet row
// in the same database transaction so the stake and the bet commit together.
func (e *Engine) ExecuteBetDebit(ctx context.Context, tx pgx.Tx, params domain.BetDebitParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Stake); err != nil {
		return nil, err
	}

	// Lock
	profile, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("bet debit: %w", err)
	}

	// Idempotency check
	if params.ExternalRef != "" {
		existing, err := e.FindExistingTransaction(ctx, tx, domain.IdempotencyKey{
			UserID:      params.UserID,
			ExternalRef: params.ExternalRef,
		})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &domain.CommandResult{Transaction: existing, Profile: profile, Idempotent: true}, nil
		}
	}

	if profile.Balance < params.Stake {
		return nil, domain.ErrInsufficientFunds()
	}

	// Post ledger entry: balance -= stake, total_bets += 1
	entry, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxBetPlaced,
		Amount:        -params.Stake,
		ProfileUpdate: domain.ProfileUpdate{Balance: -params.Stake, Bets: 1},
		Description:   params.Description,
		ExternalRef:   strPtr(params.ExternalRef),
	})
	if err != nil {
		return nil, fmt.Errorf("bet debit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Profile: updatedProfile}, nil
}
