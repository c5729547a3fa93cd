package domain

import "github.com/google/uuid"

// ProfileUpdate describes which profile columns to update and by how much.
// Used by PostLedgerEntry to build the dynamic UPDATE statement; the deltas
// are applied with server-side arithmetic so the check and the mutation
// cannot race.
type ProfileUpdate struct {
	Balance  int64 // delta for balance column
	Bets     int64 // delta for total_bets column
	Winnings int64 // delta for total_winnings column
}

// HasBalanceDelta returns true if the balance changes.
func (u ProfileUpdate) HasBalanceDelta() bool { return u.Balance != 0 }

// HasBetsDelta returns true if the lifetime bet counter changes.
func (u ProfileUpdate) HasBetsDelta() bool { return u.Bets != 0 }

// HasWinningsDelta returns true if the lifetime winnings total changes.
func (u ProfileUpdate) HasWinningsDelta() bool { return u.Winnings != 0 }

// PostLedgerEntryParams is the input to the atomic PostLedgerEntry operation.
type PostLedgerEntryParams struct {
	UserID        uuid.UUID
	Type          TransactionType
	Amount        int64
	ProfileUpdate ProfileUpdate
	Description   string
	ExternalRef   *string
}

// CommandResult is the return value from all ledger commands.
type CommandResult struct {
	Transaction *Transaction
	Profile     *Profile
	Idempotent  bool // true if this was a duplicate that returned the existing entry
}

// DepositParams holds the input for ExecuteDeposit.
type DepositParams struct {
	UserID      uuid.UUID
	Amount      int64
	Description string
	ExternalRef string
}

// WithdrawParams holds the input for ExecuteWithdraw.
type WithdrawParams struct {
	UserID      uuid.UUID
	Amount      int64
	Description string
	ExternalRef string
}

// BetDebitParams holds the input for ExecuteBetDebit, the ledger half of
// bet placement. The bet row itself is inserted by the betting service in
// the same database transaction.
type BetDebitParams struct {
	UserID      uuid.UUID
	Stake       int64
	Description string
	ExternalRef string
}

// SettleWinParams holds the input for ExecuteSettleWin.
type SettleWinParams struct {
	UserID      uuid.UUID
	Payout      int64
	Description string
	ExternalRef string
}

// SettleLossParams holds the input for ExecuteSettleLoss. The stake was
// already debited at placement, so the entry carries a zero amount and
// records the outcome only.
type SettleLossParams struct {
	UserID      uuid.UUID
	Description string
	ExternalRef string
}

// BonusCreditParams holds the input for ExecuteBonusCredit.
type BonusCreditParams struct {
	UserID      uuid.UUID
	Amount      int64
	Description string
	ExternalRef string
}
