package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
)

// ExecuteSettleLoss records a lost bet as a zero-amount ledger entry.
// The stake was debited at placement, so the balance does not move; the
// entry exists so the ledger tells the full story of the bet.
func (e *Engine) ExecuteSettleLoss(ctx context.Context, tx pgx.Tx, params domain.SettleLossParams) (*domain.CommandResult, error) {
	// Lock
	profile, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("settle loss: %w", err)
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

	// Post ledger entry: amount 0, no profile deltas beyond updated_at
	entry, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxBetLost,
		Amount:        0,
		ProfileUpdate: domain.ProfileUpdate{},
		Description:   params.Description,
		ExternalRef:   strPtr(params.ExternalRef),
	})
	if err != nil {
		return nil, fmt.Errorf("settle loss post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Profile: updatedProfile}, nil
}
