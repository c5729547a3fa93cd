package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a profiles row: the authoritative wallet state for a
// user. Balance and TotalWinnings are integer cents. The row is mutated
// only through ledger commands while held under a row-level lock.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Balance       int64     `json:"balance"`
	TotalBets     int64     `json:"total_bets"`
	TotalWinnings int64     `json:"total_winnings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WalletSnapshot is the refresh payload: the authoritative profile plus the
// most recent ledger entries, newest first.
type WalletSnapshot struct {
	Profile      *Profile      `json:"profile"`
	Transactions []Transaction `json:"transactions"`
}
