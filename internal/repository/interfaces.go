package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pickage/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ProfileRepository provides access to profiles.
type ProfileRepository interface {
	// FindByID returns a profile by user ID.
	FindByID(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Profile, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the profile.
	LockForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Profile, error)

	// Create inserts a new profile.
	Create(ctx context.Context, db DBTX, profile *domain.Profile) error

	// ApplyDeltas atomically updates balance and counter columns using
	// server-side arithmetic with dynamic SET clauses.
	ApplyDeltas(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta domain.ProfileUpdate) (*domain.Profile, error)
}

// TransactionRepository provides access to transactions.
type TransactionRepository interface {
	// FindExisting checks the idempotency index for a duplicate ledger entry.
	FindExisting(ctx context.Context, db DBTX, key domain.IdempotencyKey) (*domain.Transaction, error)

	// Insert creates a new ledger entry with its balance snapshot. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, balanceAfter int64) (*domain.Transaction, error)

	// ListByUser returns transactions for a user, ordered by created_at DESC.
	// Supports cursor-based pagination.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error)
}

// BetRepository provides access to bets.
type BetRepository interface {
	// Insert creates a new bet row.
	Insert(ctx context.Context, db DBTX, bet *domain.Bet) error

	// FindByTransactionID returns the bet linked to a bet_placed ledger entry.
	FindByTransactionID(ctx context.Context, db DBTX, txID uuid.UUID) (*domain.Bet, error)

	// LockForUpdate acquires a row-level lock on the bet for settlement.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Bet, error)

	// ListByUser returns a user's bets, newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Bet, error)

	// Settle transitions a bet to won or lost and stamps settled_at.
	Settle(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.BetStatus, settledAt time.Time) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the state change).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox publisher,
	// oldest first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished stamps events as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
