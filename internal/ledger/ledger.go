// Package ledger implements the wallet's atomic write primitive and the
// commands built on it. Every balance-affecting operation goes through
// this engine; nothing else writes to profiles or transactions.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/repository"
)

// Engine provides the 3 foundational ledger operations:
//  1. LockProfileForUpdate: row-level pessimistic lock
//  2. FindExistingTransaction: idempotency check
//  3. PostLedgerEntry: atomic profile delta + append-only insert + outbox event
type Engine struct {
	profiles     repository.ProfileRepository
	transactions repository.TransactionRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	profiles repository.ProfileRepository,
	transactions repository.TransactionRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		profiles:     profiles,
		transactions: transactions,
		outbox:       outbox,
	}
}

// LockProfileForUpdate acquires a row-level lock and returns the profile.
// Must be called within a transaction. Sufficiency checks made against the
// returned profile hold until commit; a cached snapshot is never consulted.
func (e *Engine) LockProfileForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := e.profiles.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound("profile", userID.String())
	}
	return profile, nil
}

// FindExistingTransaction checks if a ledger entry with the same external
// reference exists. Returns nil if no duplicate found.
func (e *Engine) FindExistingTransaction(ctx context.Context, tx pgx.Tx, key domain.IdempotencyKey) (*domain.Transaction, error) {
	existing, err := e.transactions.FindExisting(ctx, tx, key)
	if err != nil {
		return nil, fmt.Errorf("find existing transaction: %w", err)
	}
	return existing, nil
}

// PostLedgerEntry atomically updates the profile and inserts a ledger entry.
// This is the core write primitive; all commands delegate to this.
//
// Steps:
//  1. Update profile columns using server-side arithmetic (dynamic SET clauses)
//  2. Insert the transaction with the post-update balance snapshot
//  3. Insert the outbox event
//
// All 3 steps run within the caller's transaction: either the ledger entry,
// the profile update and the event all commit, or none do.
func (e *Engine) PostLedgerEntry(ctx context.Context, tx pgx.Tx, params domain.PostLedgerEntryParams) (*domain.Transaction, *domain.Profile, error) {
	updatedProfile, err := e.profiles.ApplyDeltas(ctx, tx, params.UserID, params.ProfileUpdate)
	if err != nil {
		return nil, nil, domain.ErrStoreWrite("update profile", err)
	}

	entry, err := e.transactions.Insert(ctx, tx, params, updatedProfile.Balance)
	if err != nil {
		return nil, nil, domain.ErrStoreWrite("insert transaction", err)
	}

	event := domain.NewTransactionRecordedEvent(entry)
	if err := e.outbox.Insert(ctx, tx, event); err != nil {
		return nil, nil, domain.ErrStoreWrite("insert outbox event", err)
	}

	return entry, updatedProfile, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
