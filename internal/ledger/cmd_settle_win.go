package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
)

// ExecuteSettleWin credits the payout (stake plus profit) and adds it to
// lifetime winnings. The payout was fixed at placement time, so settlement
// never recomputes odds.
func (e *Engine) ExecuteSettleWin(ctx context.Context, tx pgx.Tx, params domain.SettleWinParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Payout); err != nil {
		return nil, err
	}

	// Lock
	profile, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("settle win: %w", err)
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

	// Post ledger entry: balance += payout, total_winnings += payout
	entry, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxBetWon,
		Amount:        params.Payout,
		ProfileUpdate: domain.ProfileUpdate{Balance: params.Payout, Winnings: params.Payout},
		Description:   params.Description,
		ExternalRef:   strPtr(params.ExternalRef),
	})
	if err != nil {
		return nil, fmt.Errorf("settle win post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Profile: updatedProfile}, nil
}
