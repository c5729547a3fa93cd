package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/infra"
)

type betRepo struct{}

// NewBetRepository returns a pgx-backed BetRepository.
func NewBetRepository() BetRepository {
	return &betRepo{}
}

const betColumns = `id, user_id, player_name, team, opponent, stat_type, line, bet_type, odds,
	amount, potential_payout, game_date, status, transaction_id, placed_at, settled_at`

func (r *betRepo) Insert(ctx context.Context, db DBTX, bet *domain.Bet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO bets (id, user_id, player_name, team, opponent, stat_type, line, bet_type, odds,
			amount, potential_payout, game_date, status, transaction_id, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		bet.ID, bet.UserID, bet.PlayerName, bet.Team, bet.Opponent, bet.StatType, bet.Line,
		string(bet.Side), bet.Odds,
		infra.Int64ToNumeric(bet.Amount),
		infra.Int64ToNumeric(bet.PotentialPayout),
		bet.GameDate,
		string(bet.Status),
		bet.TransactionID,
		bet.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *betRepo) FindByTransactionID(ctx context.Context, db DBTX, txID uuid.UUID) (*domain.Bet, error) {
	row := db.QueryRow(ctx, `SELECT `+betColumns+` FROM bets WHERE transaction_id = $1`, txID)
	return scanBet(row)
}

func (r *betRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Bet, error) {
	row := tx.QueryRow(ctx, `SELECT `+betColumns+` FROM bets WHERE id = $1 FOR UPDATE`, id)
	return scanBet(row)
}

func (r *betRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Bet, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM bets WHERE user_id = $1
		ORDER BY placed_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var bets []domain.Bet
	for rows.Next() {
		bet, err := scanBetValues(rows)
		if err != nil {
			return nil, err
		}
		bets = append(bets, *bet)
	}
	return bets, rows.Err()
}

func (r *betRepo) Settle(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.BetStatus, settledAt time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE bets SET status = $2, settled_at = $3 WHERE id = $1 AND status = 'pending'`,
		id, string(status), settledAt)
	if err != nil {
		return fmt.Errorf("settle bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settle bet %s: not pending", id)
	}
	return nil
}

func scanBet(row pgx.Row) (*domain.Bet, error) {
	bet, err := scanBetValues(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return bet, nil
}

func scanBetValues(row pgx.Row) (*domain.Bet, error) {
	var b domain.Bet
	var amountNum, payoutNum pgtype.Numeric
	err := row.Scan(
		&b.ID, &b.UserID, &b.PlayerName, &b.Team, &b.Opponent, &b.StatType, &b.Line,
		&b.Side, &b.Odds,
		&amountNum, &payoutNum,
		&b.GameDate, &b.Status, &b.TransactionID, &b.PlacedAt, &b.SettledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan bet: %w", err)
	}

	var convErr error
	b.Amount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	b.PotentialPayout, convErr = infra.NumericToInt64(payoutNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert potential_payout: %w", convErr)
	}

	return &b, nil
}
