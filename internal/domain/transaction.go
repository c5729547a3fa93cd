package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType enumerates all wallet transaction types.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxBetPlaced  TransactionType = "bet_placed"
	TxBetWon     TransactionType = "bet_won"
	TxBetLost    TransactionType = "bet_lost"
	TxBonus      TransactionType = "bonus"
)

// TransactionStatus enumerates ledger entry states.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
)

// CreditTypes marks the transaction types whose amounts are credits.
// Everything else is a debit or a zero-amount outcome record.
var CreditTypes = map[TransactionType]bool{
	TxDeposit: true,
	TxBetWon:  true,
	TxBonus:   true,
}

// Transaction represents a transactions row: an immutable, append-only
// ledger entry. Amount is signed integer cents (positive for credits,
// negative for debits). BalanceAfter snapshots the profile balance as of
// this entry, which makes the ledger independently auditable.
type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Type         TransactionType   `json:"type"`
	Amount       int64             `json:"amount"`
	BalanceAfter int64             `json:"balance_after"`
	Description  string            `json:"description"`
	Status       TransactionStatus `json:"status"`
	ExternalRef  *string           `json:"external_ref,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// IdempotencyKey is the composite key used for deduplicating wallet commands.
type IdempotencyKey struct {
	UserID      uuid.UUID
	ExternalRef string
}
