package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/infra"
)

type profileRepo struct{}

// NewProfileRepository returns a pgx-backed ProfileRepository.
func NewProfileRepository() ProfileRepository {
	return &profileRepo{}
}

func (r *profileRepo) FindByID(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Profile, error) {
	row := db.QueryRow(ctx, `
		SELECT user_id, display_name, balance, total_bets, total_winnings, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (r *profileRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Profile, error) {
	row := tx.QueryRow(ctx, `
		SELECT user_id, display_name, balance, total_bets, total_winnings, created_at, updated_at
		FROM profiles WHERE user_id = $1 FOR UPDATE`, userID)
	return scanProfile(row)
}

func (r *profileRepo) Create(ctx context.Context, db DBTX, profile *domain.Profile) error {
	_, err := db.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, balance, total_bets, total_winnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.UserID,
		profile.DisplayName,
		infra.Int64ToNumeric(profile.Balance),
		profile.TotalBets,
		infra.Int64ToNumeric(profile.TotalWinnings),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// ApplyDeltas updates only the columns that change, with server-side
// arithmetic, so the locked row is the single source of truth.
func (r *profileRepo) ApplyDeltas(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta domain.ProfileUpdate) (*domain.Profile, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if delta.HasBalanceDelta() {
		setClauses = append(setClauses, fmt.Sprintf("balance = balance + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Balance))
		argIdx++
	}
	if delta.HasBetsDelta() {
		setClauses = append(setClauses, fmt.Sprintf("total_bets = total_bets + $%d", argIdx))
		args = append(args, delta.Bets)
		argIdx++
	}
	if delta.HasWinningsDelta() {
		setClauses = append(setClauses, fmt.Sprintf("total_winnings = total_winnings + $%d", argIdx))
		args = append(args, infra.Int64ToNumeric(delta.Winnings))
		argIdx++
	}

	args = append(args, userID)
	query := fmt.Sprintf(`
		UPDATE profiles SET %s
		WHERE user_id = $%d
		RETURNING user_id, display_name, balance, total_bets, total_winnings, created_at, updated_at`,
		strings.Join(setClauses, ", "), argIdx)

	row := tx.QueryRow(ctx, query, args...)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var balNum, winNum pgtype.Numeric
	err := row.Scan(&p.UserID, &p.DisplayName, &balNum, &p.TotalBets, &winNum, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var convErr error
	p.Balance, convErr = infra.NumericToInt64(balNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance: %w", convErr)
	}
	p.TotalWinnings, convErr = infra.NumericToInt64(winNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_winnings: %w", convErr)
	}

	return &p, nil
}
