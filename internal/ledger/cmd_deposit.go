package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
)

// ExecuteDeposit credits the user's balance.
// Pattern: Lock → Idempotency → PostLedgerEntry
func (e *Engine) ExecuteDeposit(ctx context.Context, tx pgx.Tx, params domain.DepositParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	// Lock
	profile, err := e.LockProfileForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
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
		description = "Deposit"
	}

	// Post ledger entry: balance += amount
	entry, updatedProfile, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxDeposit,
		Amount:        params.Amount,
		ProfileUpdate: domain.ProfileUpdate{Balance: params.Amount},
		Description:   description,
		ExternalRef:   strPtr(params.ExternalRef),
	})
	if err != nil {
		return nil, fmt.Errorf("deposit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Profile: updatedProfile}, nil
}
