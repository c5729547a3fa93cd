package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
)

// ExecuteBonusCredit grants promotional funds. Bonus money is
// indistinguishable from deposited money once credited; only the
// transaction type records where it came from.
func (e *Engine) ExecuteBonusCredit(ctx context.Context, tx pgx.Tx, params domain.BonusCreditParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	// Lock
	profile, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("bonus credit: %w", err)
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

	description := params.Description
	if description == "" {
		description = "Bonus credit"
	}

	// Post ledger entry: balance += amount
	entry, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxBonus,
		Amount:        params.Amount,
		ProfileUpdate: domain.ProfileUpdate{Balance: params.Amount},
		Description:   description,
		ExternalRef:   strPtr(params.ExternalRef),
	})
	if err != nil {
		return nil, fmt.Errorf("bonus credit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Profile: updatedProfile}, nil
}
