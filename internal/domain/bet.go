package domain

import (
	"time"

	"github.com/google/uuid"
)

// BetSide is the chosen side of a proposition.
type BetSide string

const (
	SideOver  BetSide = "over"
	SideUnder BetSide = "under"
)

// BetStatus enumerates the bet lifecycle states.
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// Prop is a wagerable proposition from the catalog feed. It is read-only
// input to bet placement and is not persisted; its fields are copied onto
// the Bet at placement time. Odds are American style signed integers.
// Trend and Confidence are display annotations only.
type Prop struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	StatType   string    `json:"stat_type"`
	Line       float64   `json:"line"`
	OverOdds   int       `json:"over_odds"`
	UnderOdds  int       `json:"under_odds"`
	GameDate   time.Time `json:"game_date"`
	Trend      string    `json:"trend"`
	Confidence int       `json:"confidence"`
}

// SideOdds returns the American odds for the given side of the prop.
func (p Prop) SideOdds(side BetSide) int {
	if side == SideUnder {
		return p.UnderOdds
	}
	return p.OverOdds
}

// Bet represents a bets row. PotentialPayout is computed once at placement
// from stake and odds and never recomputed. TransactionID links the bet to
// its bet_placed ledger entry.
type Bet struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	PlayerName      string     `json:"player_name"`
	Team            string     `json:"team"`
	Opponent        string     `json:"opponent"`
	StatType        string     `json:"stat_type"`
	Line            float64    `json:"line"`
	Side            BetSide    `json:"bet_type"`
	Odds            int        `json:"odds"`
	Amount          int64      `json:"amount"`
	PotentialPayout int64      `json:"potential_payout"`
	GameDate        *time.Time `json:"game_date,omitempty"`
	Status          BetStatus  `json:"status"`
	TransactionID   *uuid.UUID `json:"transaction_id,omitempty"`
	PlacedAt        time.Time  `json:"placed_at"`
	SettledAt       *time.Time `json:"settled_at,omitempty"`
}
